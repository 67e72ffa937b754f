package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

const paymentColumns = `id, rental_id, amount, method, status, reference, phone, checkout_request_id, paid_at, created_at, updated_at`

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) outbound.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	var reference, phone, checkoutID sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.RentalID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&reference,
		&phone,
		&checkoutID,
		&paidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Reference = reference.String
	p.Phone = phone.String
	p.CheckoutRequestID = checkoutID.String
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, rental_id, amount, method, status, reference, phone, checkout_request_id, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.RentalID,
		payment.Amount,
		string(payment.Method),
		string(payment.Status),
		nullString(payment.Reference),
		nullString(payment.Phone),
		nullString(payment.CheckoutRequestID),
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *paymentRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE checkout_request_id = $1`, checkoutRequestID)
}

func (r *paymentRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, reference = $3, paid_at = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		payment.ID,
		string(payment.Status),
		nullString(payment.Reference),
		payment.PaidAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return expectOneRow(result, outbound.ErrPaymentNotFound)
}

func (r *paymentRepository) List(ctx context.Context, filter entity.PaymentFilter) ([]*entity.Payment, int, error) {
	where := &whereClause{}
	if filter.RentalID != nil {
		where.add("rental_id = ?", *filter.RentalID)
	}
	if filter.Status != nil {
		where.add("status = ?", string(*filter.Status))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM payments " + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	pageClause, args := where.page(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC %s`, paymentColumns, where.String(), pageClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, total, nil
}
