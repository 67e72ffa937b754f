package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInvalidCustomerName = errors.New("customer name is required")
	ErrInvalidPhone        = errors.New("invalid phone number")
)

type CustomerUseCase struct {
	customerRepo outbound.CustomerRepository
}

func NewCustomerUseCase(customerRepo outbound.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, req inbound.CreateCustomerRequest) (*entity.Customer, error) {
	customer := entity.NewCustomer(
		uuid.New().String(),
		strings.TrimSpace(req.Name),
		strings.ToLower(strings.TrimSpace(req.Email)),
		valueobject.NormalizePhone(req.Phone),
		strings.TrimSpace(req.IDNumber),
		strings.TrimSpace(req.LicenseNumber),
	)
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, req inbound.UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := uc.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		customer.Phone = valueobject.NormalizePhone(*req.Phone)
	}
	if req.IDNumber != nil {
		customer.IDNumber = strings.TrimSpace(*req.IDNumber)
	}
	if req.LicenseNumber != nil {
		customer.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	customer.UpdatedAt = time.Now()

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, outbound.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	if err := uc.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, outbound.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return uc.findCustomer(ctx, id)
}

func (uc *CustomerUseCase) ListCustomers(ctx context.Context, req inbound.ListCustomersRequest) (*inbound.CustomerListResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	customers, total, err := uc.customerRepo.List(ctx, entity.CustomerFilter{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &inbound.CustomerListResponse{
		Customers:  customers,
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

func (uc *CustomerUseCase) findCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

func validateCustomer(c *entity.Customer) error {
	if len(c.Name) < 2 {
		return ErrInvalidCustomerName
	}
	if err := valueobject.ValidateEmail(c.Email); err != nil {
		return err
	}
	if !valueobject.IsValidPhone(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}
