package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

const customerColumns = `id, name, email, phone, id_number, license_number, created_at, updated_at`

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) outbound.CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.IDNumber,
		&c.LicenseNumber,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, id_number, license_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		strings.ToLower(customer.Email),
		customer.Phone,
		customer.IDNumber,
		customer.LicenseNumber,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
}

func (r *customerRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Customer, error) {
	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, id_number = $5, license_number = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		strings.ToLower(customer.Email),
		customer.Phone,
		customer.IDNumber,
		customer.LicenseNumber,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return expectOneRow(result, outbound.ErrCustomerNotFound)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return expectOneRow(result, outbound.ErrCustomerNotFound)
}

func (r *customerRepository) List(ctx context.Context, filter entity.CustomerFilter) ([]*entity.Customer, int, error) {
	where := &whereClause{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where.add("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", pattern, pattern, pattern)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM customers " + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM customers %s ORDER BY created_at DESC %s`, customerColumns, where.String(), pageClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, total, nil
}
