package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/fleetcrm/fleetcrm/domain/entity"
)

var (
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrDuplicateVehicle = errors.New("vehicle registration already exists")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrRentalNotFound   = errors.New("rental not found")
	ErrPaymentNotFound  = errors.New("payment not found")
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	FindByID(ctx context.Context, id string) (*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, int, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindByID(ctx context.Context, id string) (*entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.CustomerFilter) ([]*entity.Customer, int, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *entity.Rental) error
	FindByID(ctx context.Context, id string) (*entity.Rental, error)
	Update(ctx context.Context, rental *entity.Rental) error
	List(ctx context.Context, filter entity.RentalFilter) ([]*entity.Rental, int, error)
	// HasOverlap reports an open rental of the vehicle intersecting [start, end]
	HasOverlap(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id string) (*entity.Payment, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	List(ctx context.Context, filter entity.PaymentFilter) ([]*entity.Payment, int, error)
}
