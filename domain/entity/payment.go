package entity

import "time"

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is money received (or requested) against a rental
type Payment struct {
	ID                string        `json:"id"`
	RentalID          string        `json:"rental_id"`
	Amount            float64       `json:"amount"`
	Method            PaymentMethod `json:"method"`
	Status            PaymentStatus `json:"status"`
	Reference         string        `json:"reference,omitempty"`
	Phone             string        `json:"phone,omitempty"`
	CheckoutRequestID string        `json:"checkout_request_id,omitempty"`
	PaidAt            *time.Time    `json:"paid_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// NewReceivedPayment records money already collected
func NewReceivedPayment(id, rentalID string, amount float64, method PaymentMethod, reference string) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	now := time.Now()
	return &Payment{
		ID:        id,
		RentalID:  rentalID,
		Amount:    amount,
		Method:    method,
		Status:    PaymentStatusCompleted,
		Reference: reference,
		PaidAt:    &now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewPendingMpesaPayment records an STK push awaiting the customer's PIN
func NewPendingMpesaPayment(id, rentalID string, amount float64, phone, checkoutRequestID string) (*Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	now := time.Now()
	return &Payment{
		ID:                id,
		RentalID:          rentalID,
		Amount:            amount,
		Method:            PaymentMethodMpesa,
		Status:            PaymentStatusPending,
		Phone:             phone,
		CheckoutRequestID: checkoutRequestID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Settle applies the gateway result to a pending payment
func (p *Payment) Settle(success bool, receipt string) {
	now := time.Now()
	if success {
		p.Status = PaymentStatusCompleted
		p.Reference = receipt
		p.PaidAt = &now
	} else {
		p.Status = PaymentStatusFailed
	}
	p.UpdatedAt = now
}

type PaymentFilter struct {
	RentalID *string
	Status   *PaymentStatus
	Limit    int
	Offset   int
}
