package inbound

import (
	"context"

	"github.com/fleetcrm/fleetcrm/domain/entity"
)

type CreateVehicleRequest struct {
	Registration string  `json:"registration"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	DailyRate    float64 `json:"daily_rate"`
	OwnerID      *string `json:"owner_id,omitempty"`
}

// UpdateVehicleRequest applies only the fields that are set
type UpdateVehicleRequest struct {
	Registration *string  `json:"registration,omitempty"`
	Make         *string  `json:"make,omitempty"`
	Model        *string  `json:"model,omitempty"`
	Year         *int     `json:"year,omitempty"`
	DailyRate    *float64 `json:"daily_rate,omitempty"`
	Status       *string  `json:"status,omitempty"`
	OwnerID      *string  `json:"owner_id,omitempty"`
}

type ListVehiclesRequest struct {
	Page    int
	Limit   int
	Status  string
	OwnerID string
	Search  string
}

type VehicleListResponse struct {
	Vehicles   []*entity.Vehicle `json:"vehicles"`
	Pagination PaginationInfo    `json:"pagination"`
}

type VehicleUseCase interface {
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*entity.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest) (*entity.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
	GetVehicle(ctx context.Context, id string) (*entity.Vehicle, error)
	ListVehicles(ctx context.Context, req ListVehiclesRequest) (*VehicleListResponse, error)
}

type CreateCustomerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	IDNumber      string `json:"id_number"`
	LicenseNumber string `json:"license_number"`
}

type UpdateCustomerRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	IDNumber      *string `json:"id_number,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

type ListCustomersRequest struct {
	Page   int
	Limit  int
	Search string
}

type CustomerListResponse struct {
	Customers  []*entity.Customer `json:"customers"`
	Pagination PaginationInfo     `json:"pagination"`
}

type CustomerUseCase interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*entity.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*entity.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomer(ctx context.Context, id string) (*entity.Customer, error)
	ListCustomers(ctx context.Context, req ListCustomersRequest) (*CustomerListResponse, error)
}
