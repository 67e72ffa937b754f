package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

type dashboardRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDashboardRepository(db *sql.DB) outbound.DashboardRepository {
	return &dashboardRepository{db: db, now: time.Now}
}

// VehicleCountsByStatus groups the fleet by status. An empty ownerID counts every vehicle.
func (r *dashboardRepository) VehicleCountsByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	where := &whereClause{}
	if ownerID != "" {
		where.add("owner_id = ?", ownerID)
	}
	query := "SELECT status, COUNT(*) FROM vehicles " + where.String() + " GROUP BY status"
	return r.countsByStatus(ctx, query, where.args)
}

func (r *dashboardRepository) RentalCountsByStatus(ctx context.Context, ownerID, driverID string) (map[string]int, error) {
	where := &whereClause{}
	if ownerID != "" {
		where.add("v.owner_id = ?", ownerID)
	}
	if driverID != "" {
		where.add("r.driver_id = ?", driverID)
	}
	query := `SELECT r.status, COUNT(*) FROM rentals r JOIN vehicles v ON v.id = r.vehicle_id ` +
		where.String() + ` GROUP BY r.status`
	return r.countsByStatus(ctx, query, where.args)
}

func (r *dashboardRepository) CustomerCount(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// RevenueSince sums completed payments received on or after since
func (r *dashboardRepository) RevenueSince(ctx context.Context, since time.Time, ownerID string) (float64, error) {
	where := &whereClause{}
	where.add("p.status = ?", string(entity.PaymentStatusCompleted))
	where.add("p.paid_at >= ?", since)
	if ownerID != "" {
		where.add("v.owner_id = ?", ownerID)
	}
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN rentals r ON r.id = p.rental_id
		JOIN vehicles v ON v.id = r.vehicle_id
	` + where.String()

	var total float64
	if err := r.db.QueryRowContext(ctx, query, where.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// UpcomingRentalsForDriver lists open rentals assigned to the driver that have not ended yet
func (r *dashboardRepository) UpcomingRentalsForDriver(ctx context.Context, driverID string, limit int) ([]*entity.Rental, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE driver_id = $1 AND status IN ($2, $3) AND end_date >= $4
		ORDER BY start_date ASC
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query,
		driverID,
		string(entity.RentalStatusPending),
		string(entity.RentalStatusActive),
		r.now(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming rentals: %w", err)
	}
	defer rows.Close()

	return collectRentals(rows)
}

func (r *dashboardRepository) countsByStatus(ctx context.Context, query string, args []interface{}) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}
	return counts, nil
}
