package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

const rentalColumns = `id, customer_id, vehicle_id, driver_id, start_date, end_date, total_amount, status, notes, created_by, created_at, updated_at`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) outbound.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*entity.Rental, error) {
	var rental entity.Rental
	var driverID, createdBy, notes sql.NullString
	err := row.Scan(
		&rental.ID,
		&rental.CustomerID,
		&rental.VehicleID,
		&driverID,
		&rental.StartDate,
		&rental.EndDate,
		&rental.TotalAmount,
		&rental.Status,
		&notes,
		&createdBy,
		&rental.CreatedAt,
		&rental.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rental.DriverID = stringPtr(driverID)
	rental.CreatedBy = stringPtr(createdBy)
	rental.Notes = notes.String
	return &rental, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	query := `
		INSERT INTO rentals (id, customer_id, vehicle_id, driver_id, start_date, end_date, total_amount, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		rental.ID,
		rental.CustomerID,
		rental.VehicleID,
		rental.DriverID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalAmount,
		string(rental.Status),
		nullString(rental.Notes),
		rental.CreatedBy,
		rental.CreatedAt,
		rental.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return nil
}

func (r *rentalRepository) FindByID(ctx context.Context, id string) (*entity.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`

	rental, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find rental: %w", err)
	}
	return rental, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *entity.Rental) error {
	query := `
		UPDATE rentals
		SET driver_id = $2, start_date = $3, end_date = $4, total_amount = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		rental.ID,
		rental.DriverID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalAmount,
		string(rental.Status),
		nullString(rental.Notes),
		rental.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update rental: %w", err)
	}
	return expectOneRow(result, outbound.ErrRentalNotFound)
}

func (r *rentalRepository) List(ctx context.Context, filter entity.RentalFilter) ([]*entity.Rental, int, error) {
	where := &whereClause{}
	if filter.Status != nil {
		where.add("status = ?", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		where.add("customer_id = ?", *filter.CustomerID)
	}
	if filter.VehicleID != nil {
		where.add("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.DriverID != nil {
		where.add("driver_id = ?", *filter.DriverID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM rentals " + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rentals: %w", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM rentals %s ORDER BY start_date DESC, created_at DESC %s`, rentalColumns, where.String(), pageClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, total, nil
}

// HasOverlap treats both periods as closed intervals. Completed and
// cancelled rentals never block a vehicle.
func (r *rentalRepository) HasOverlap(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	where := &whereClause{}
	where.add("vehicle_id = ?", vehicleID)
	where.add("status NOT IN (?, ?)", string(entity.RentalStatusCompleted), string(entity.RentalStatusCancelled))
	where.add("start_date <= ?", end)
	where.add("end_date >= ?", start)
	if excludeID != "" {
		where.add("id <> ?", excludeID)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM rentals " + where.String() + ")"
	if err := r.db.QueryRowContext(ctx, query, where.args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rental overlap: %w", err)
	}
	return exists, nil
}

func collectRentals(rows *sql.Rows) ([]*entity.Rental, error) {
	rentals := make([]*entity.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rentals: %w", err)
	}
	return rentals, nil
}
