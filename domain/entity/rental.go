package entity

import (
	"math"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// Rental is a booking of one vehicle by one customer for a date range
type Rental struct {
	ID          string       `json:"id"`
	CustomerID  string       `json:"customer_id"`
	VehicleID   string       `json:"vehicle_id"`
	DriverID    *string      `json:"driver_id,omitempty"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	TotalAmount float64      `json:"total_amount"`
	Status      RentalStatus `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	CreatedBy   *string      `json:"created_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewRental(id, customerID string, vehicle *Vehicle, start, end time.Time, notes string) (*Rental, error) {
	if end.Before(start) {
		return nil, ErrInvalidRentalPeriod
	}
	now := time.Now()
	return &Rental{
		ID:          id,
		CustomerID:  customerID,
		VehicleID:   vehicle.ID,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: RentalTotal(start, end, vehicle.DailyRate),
		Status:      RentalStatusPending,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RentalDays counts billable days; partial days round up and the minimum is one
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func RentalTotal(start, end time.Time, dailyRate float64) float64 {
	return math.Round(float64(RentalDays(start, end))*dailyRate*100) / 100
}

func (r *Rental) IsClosed() bool {
	return r.Status == RentalStatusCompleted || r.Status == RentalStatusCancelled
}

// Reschedule changes the period and recomputes the total
func (r *Rental) Reschedule(start, end time.Time, dailyRate float64) error {
	if r.IsClosed() {
		return ErrRentalClosed
	}
	if end.Before(start) {
		return ErrInvalidRentalPeriod
	}
	r.StartDate = start
	r.EndDate = end
	r.TotalAmount = RentalTotal(start, end, dailyRate)
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Rental) AssignDriver(driverID string) error {
	if r.IsClosed() {
		return ErrRentalClosed
	}
	r.DriverID = &driverID
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Rental) Start() error {
	if r.Status != RentalStatusPending {
		return ErrInvalidTransition
	}
	r.Status = RentalStatusActive
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Rental) Complete() error {
	if r.Status != RentalStatusActive {
		return ErrInvalidTransition
	}
	r.Status = RentalStatusCompleted
	r.UpdatedAt = time.Now()
	return nil
}

func (r *Rental) Cancel() error {
	if r.IsClosed() {
		return ErrInvalidTransition
	}
	r.Status = RentalStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// RentalFilter represents filters for listing rentals
type RentalFilter struct {
	Status     *RentalStatus
	CustomerID *string
	VehicleID  *string
	DriverID   *string
	Limit      int
	Offset     int
}
