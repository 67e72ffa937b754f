package inbound

import (
	"context"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

type CreateRentalRequest struct {
	CustomerID string    `json:"customer_id"`
	VehicleID  string    `json:"vehicle_id"`
	DriverID   *string   `json:"driver_id,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Notes      string    `json:"notes,omitempty"`
	CreatedBy  string    `json:"-"`
}

type UpdateRentalRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// BookingRequest is submitted from the public booking form. The customer
// is matched by email or created.
type BookingRequest struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	IDNumber      string    `json:"id_number"`
	LicenseNumber string    `json:"license_number"`
	VehicleID     string    `json:"vehicle_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Notes         string    `json:"notes,omitempty"`
}

// ActingUser identifies the caller for checks that depend on who is acting
type ActingUser struct {
	ID   string
	Role string
}

type NotifyCustomerRequest struct {
	Message string `json:"message"`
}

type NotifyCustomerResponse struct {
	MessageID string `json:"message_id"`
	Phone     string `json:"phone"`
}

type ListRentalsRequest struct {
	Page       int
	Limit      int
	Status     string
	CustomerID string
	VehicleID  string
	DriverID   string
}

type RentalListResponse struct {
	Rentals    []*entity.Rental `json:"rentals"`
	Pagination PaginationInfo   `json:"pagination"`
}

type RentalUseCase interface {
	CreateRental(ctx context.Context, req CreateRentalRequest) (*entity.Rental, error)
	UpdateRental(ctx context.Context, id string, req UpdateRentalRequest) (*entity.Rental, error)
	GetRental(ctx context.Context, id string) (*entity.Rental, error)
	ListRentals(ctx context.Context, req ListRentalsRequest) (*RentalListResponse, error)
	AssignDriver(ctx context.Context, id string, req AssignDriverRequest) (*entity.Rental, error)
	StartRental(ctx context.Context, id string, actor ActingUser) (*entity.Rental, error)
	CompleteRental(ctx context.Context, id string, actor ActingUser) (*entity.Rental, error)
	CancelRental(ctx context.Context, id string) (*entity.Rental, error)
	SendContract(ctx context.Context, id string) (*outbound.ContractResult, error)
	NotifyCustomer(ctx context.Context, id string, req NotifyCustomerRequest) (*NotifyCustomerResponse, error)
	RequestBooking(ctx context.Context, req BookingRequest) (*entity.Rental, error)
}
