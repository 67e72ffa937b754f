package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

const vehicleColumns = `id, registration, make, model, year, daily_rate, status, owner_id, created_at, updated_at`

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) outbound.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(row rowScanner) (*entity.Vehicle, error) {
	var v entity.Vehicle
	var ownerID sql.NullString
	err := row.Scan(
		&v.ID,
		&v.Registration,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.DailyRate,
		&v.Status,
		&ownerID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.OwnerID = stringPtr(ownerID)
	return &v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, registration, make, model, year, daily_rate, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Registration,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.DailyRate,
		string(vehicle.Status),
		vehicle.OwnerID,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrDuplicateVehicle
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		UPDATE vehicles
		SET registration = $2, make = $3, model = $4, year = $5, daily_rate = $6,
			status = $7, owner_id = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Registration,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.DailyRate,
		string(vehicle.Status),
		vehicle.OwnerID,
		vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrDuplicateVehicle
		}
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return expectOneRow(result, outbound.ErrVehicleNotFound)
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return expectOneRow(result, outbound.ErrVehicleNotFound)
}

func (r *vehicleRepository) List(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, int, error) {
	where := &whereClause{}
	if filter.Status != nil {
		where.add("status = ?", string(*filter.Status))
	}
	if filter.OwnerID != nil {
		where.add("owner_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where.add("(registration ILIKE ? OR make ILIKE ? OR model ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM vehicles " + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM vehicles %s ORDER BY created_at DESC %s`, vehicleColumns, where.String(), pageClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*entity.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate vehicles: %w", err)
	}
	return vehicles, total, nil
}
