package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

var (
	ErrRentalNotFound      = errors.New("rental not found")
	ErrVehicleUnavailable  = errors.New("vehicle is not available for the selected dates")
	ErrInvalidRentalPeriod = errors.New("end date must not be before start date")
	ErrMissingRentalDates  = errors.New("start and end dates are required")
	ErrInvalidTransition   = errors.New("invalid rental status transition")
	ErrRentalClosed        = errors.New("rental is already closed")
	ErrDriverNotFound      = errors.New("driver not found")
	ErrNotAssignedDriver   = errors.New("rental is not assigned to this driver")
	ErrMissingCustomerInfo = errors.New("customer email and phone are required")
	ErrExternalService     = errors.New("external service request failed")
)

const dateLayout = "02 Jan 2006"

type RentalUseCase struct {
	rentalRepo     outbound.RentalRepository
	vehicleRepo    outbound.VehicleRepository
	customerRepo   outbound.CustomerRepository
	userRepo       outbound.UserRepository
	emailSender    outbound.EmailSender
	contractSigner outbound.ContractSigner
	messenger      outbound.WhatsAppMessenger
	logger         logger.Logger
}

func NewRentalUseCase(
	rentalRepo outbound.RentalRepository,
	vehicleRepo outbound.VehicleRepository,
	customerRepo outbound.CustomerRepository,
	userRepo outbound.UserRepository,
	emailSender outbound.EmailSender,
	contractSigner outbound.ContractSigner,
	messenger outbound.WhatsAppMessenger,
	log logger.Logger,
) *RentalUseCase {
	return &RentalUseCase{
		rentalRepo:     rentalRepo,
		vehicleRepo:    vehicleRepo,
		customerRepo:   customerRepo,
		userRepo:       userRepo,
		emailSender:    emailSender,
		contractSigner: contractSigner,
		messenger:      messenger,
		logger:         log,
	}
}

func (uc *RentalUseCase) CreateRental(ctx context.Context, req inbound.CreateRentalRequest) (*entity.Rental, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, ErrMissingRentalDates
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidRentalPeriod
	}

	customer, err := uc.findCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := uc.findVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status == entity.VehicleStatusMaintenance {
		return nil, ErrVehicleUnavailable
	}

	overlap, err := uc.rentalRepo.HasOverlap(ctx, vehicle.ID, req.StartDate, req.EndDate, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check vehicle availability: %w", err)
	}
	if overlap {
		return nil, ErrVehicleUnavailable
	}

	rental, err := entity.NewRental(uuid.New().String(), customer.ID, vehicle, req.StartDate, req.EndDate, strings.TrimSpace(req.Notes))
	if err != nil {
		return nil, mapRentalDomainError(err)
	}
	if req.CreatedBy != "" {
		rental.CreatedBy = &req.CreatedBy
	}
	if req.DriverID != nil && *req.DriverID != "" {
		if err := uc.ensureDriver(ctx, *req.DriverID); err != nil {
			return nil, err
		}
		rental.DriverID = req.DriverID
	}

	if err := uc.rentalRepo.Create(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	uc.sendConfirmation(ctx, rental, customer, vehicle)
	return rental, nil
}

func (uc *RentalUseCase) UpdateRental(ctx context.Context, id string, req inbound.UpdateRentalRequest) (*entity.Rental, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil || req.EndDate != nil {
		start, end := rental.StartDate, rental.EndDate
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}

		vehicle, err := uc.findVehicle(ctx, rental.VehicleID)
		if err != nil {
			return nil, err
		}
		overlap, err := uc.rentalRepo.HasOverlap(ctx, vehicle.ID, start, end, rental.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check vehicle availability: %w", err)
		}
		if overlap {
			return nil, ErrVehicleUnavailable
		}
		if err := rental.Reschedule(start, end, vehicle.DailyRate); err != nil {
			return nil, mapRentalDomainError(err)
		}
	}
	if req.Notes != nil {
		if rental.IsClosed() {
			return nil, ErrRentalClosed
		}
		rental.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := uc.saveRental(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

func (uc *RentalUseCase) GetRental(ctx context.Context, id string) (*entity.Rental, error) {
	return uc.findRental(ctx, id)
}

func (uc *RentalUseCase) ListRentals(ctx context.Context, req inbound.ListRentalsRequest) (*inbound.RentalListResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	filter := entity.RentalFilter{Limit: limit, Offset: offset}
	if req.Status != "" {
		status := entity.RentalStatus(req.Status)
		filter.Status = &status
	}
	if req.CustomerID != "" {
		filter.CustomerID = &req.CustomerID
	}
	if req.VehicleID != "" {
		filter.VehicleID = &req.VehicleID
	}
	if req.DriverID != "" {
		filter.DriverID = &req.DriverID
	}

	rentals, total, err := uc.rentalRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}

	return &inbound.RentalListResponse{
		Rentals:    rentals,
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

func (uc *RentalUseCase) AssignDriver(ctx context.Context, id string, req inbound.AssignDriverRequest) (*entity.Rental, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureDriver(ctx, req.DriverID); err != nil {
		return nil, err
	}
	if err := rental.AssignDriver(req.DriverID); err != nil {
		return nil, mapRentalDomainError(err)
	}
	if err := uc.saveRental(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

func (uc *RentalUseCase) StartRental(ctx context.Context, id string, actor inbound.ActingUser) (*entity.Rental, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDriverAccess(rental, actor); err != nil {
		return nil, err
	}
	vehicle, err := uc.findVehicle(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := rental.Start(); err != nil {
		return nil, mapRentalDomainError(err)
	}
	if err := vehicle.MarkRented(); err != nil {
		return nil, ErrVehicleUnavailable
	}

	if err := uc.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	if err := uc.saveRental(ctx, rental); err != nil {
		// the vehicle was claimed above; hand it back
		vehicle.Release()
		if rerr := uc.vehicleRepo.Update(ctx, vehicle); rerr != nil {
			uc.logger.Error(ctx, "Failed to release vehicle after rental save failed", rerr, map[string]interface{}{
				"vehicle_id": vehicle.ID,
				"rental_id":  rental.ID,
			})
		}
		return nil, err
	}
	return rental, nil
}

func (uc *RentalUseCase) CompleteRental(ctx context.Context, id string, actor inbound.ActingUser) (*entity.Rental, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDriverAccess(rental, actor); err != nil {
		return nil, err
	}
	if err := rental.Complete(); err != nil {
		return nil, mapRentalDomainError(err)
	}
	if err := uc.saveRental(ctx, rental); err != nil {
		return nil, err
	}
	uc.releaseVehicle(ctx, rental.VehicleID)
	return rental, nil
}

func (uc *RentalUseCase) CancelRental(ctx context.Context, id string) (*entity.Rental, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := rental.Status == entity.RentalStatusActive
	if err := rental.Cancel(); err != nil {
		return nil, mapRentalDomainError(err)
	}
	if err := uc.saveRental(ctx, rental); err != nil {
		return nil, err
	}
	if wasActive {
		uc.releaseVehicle(ctx, rental.VehicleID)
	}
	return rental, nil
}

func (uc *RentalUseCase) SendContract(ctx context.Context, id string) (*outbound.ContractResult, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if rental.IsClosed() {
		return nil, ErrRentalClosed
	}
	customer, err := uc.findCustomer(ctx, rental.CustomerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := uc.findVehicle(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}

	result, err := uc.contractSigner.SendForSignature(ctx, outbound.ContractRequest{
		RentalID:    rental.ID,
		SignerName:  customer.Name,
		SignerEmail: customer.Email,
		Title:       fmt.Sprintf("Rental agreement %s", vehicle.Registration),
		Body:        contractBody(rental, customer, vehicle),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: send contract: %v", ErrExternalService, err)
	}
	return result, nil
}

func (uc *RentalUseCase) NotifyCustomer(ctx context.Context, id string, req inbound.NotifyCustomerRequest) (*inbound.NotifyCustomerResponse, error) {
	rental, err := uc.findRental(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := uc.findCustomer(ctx, rental.CustomerID)
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = fmt.Sprintf("Hello %s, your booking %s from %s to %s is %s.",
			customer.Name, shortID(rental.ID), rental.StartDate.Format(dateLayout), rental.EndDate.Format(dateLayout), rental.Status)
	}

	messageID, err := uc.messenger.SendText(ctx, customer.Phone, message)
	if err != nil {
		return nil, fmt.Errorf("%w: notify customer: %v", ErrExternalService, err)
	}
	return &inbound.NotifyCustomerResponse{MessageID: messageID, Phone: customer.Phone}, nil
}

func (uc *RentalUseCase) RequestBooking(ctx context.Context, req inbound.BookingRequest) (*entity.Rental, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Phone) == "" {
		return nil, ErrMissingCustomerInfo
	}

	customer, err := uc.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, outbound.ErrCustomerNotFound) {
			return nil, fmt.Errorf("failed to find customer: %w", err)
		}
		customers := NewCustomerUseCase(uc.customerRepo)
		customer, err = customers.CreateCustomer(ctx, inbound.CreateCustomerRequest{
			Name:          req.Name,
			Email:         email,
			Phone:         req.Phone,
			IDNumber:      req.IDNumber,
			LicenseNumber: req.LicenseNumber,
		})
		if err != nil {
			return nil, err
		}
	}

	return uc.CreateRental(ctx, inbound.CreateRentalRequest{
		CustomerID: customer.ID,
		VehicleID:  req.VehicleID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
	})
}

func (uc *RentalUseCase) sendConfirmation(ctx context.Context, rental *entity.Rental, customer *entity.Customer, vehicle *entity.Vehicle) {
	if customer.Email == "" {
		return
	}
	err := uc.emailSender.Send(ctx, outbound.EmailMessage{
		To:      customer.Email,
		Subject: fmt.Sprintf("Booking confirmation %s", shortID(rental.ID)),
		Body: fmt.Sprintf("Hello %s,\n\nYour booking of %s %s (%s) from %s to %s is confirmed.\nTotal: KES %.2f\n",
			customer.Name, vehicle.Make, vehicle.Model, vehicle.Registration,
			rental.StartDate.Format(dateLayout), rental.EndDate.Format(dateLayout), rental.TotalAmount),
	})
	if err != nil {
		uc.logger.Error(ctx, "Failed to send booking confirmation", err, map[string]interface{}{
			"rental_id":   rental.ID,
			"customer_id": customer.ID,
		})
	}
}

func (uc *RentalUseCase) releaseVehicle(ctx context.Context, vehicleID string) {
	vehicle, err := uc.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		uc.logger.Error(ctx, "Failed to load vehicle for release", err, map[string]interface{}{"vehicle_id": vehicleID})
		return
	}
	vehicle.Release()
	if err := uc.vehicleRepo.Update(ctx, vehicle); err != nil {
		uc.logger.Error(ctx, "Failed to release vehicle", err, map[string]interface{}{"vehicle_id": vehicleID})
	}
}

func (uc *RentalUseCase) ensureDriver(ctx context.Context, driverID string) error {
	user, err := uc.userRepo.FindByID(ctx, driverID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return ErrDriverNotFound
		}
		return fmt.Errorf("failed to find driver: %w", err)
	}
	if user.Role != entity.RoleDriver || !user.IsActive() {
		return ErrDriverNotFound
	}
	return nil
}

func (uc *RentalUseCase) saveRental(ctx context.Context, rental *entity.Rental) error {
	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		if errors.Is(err, outbound.ErrRentalNotFound) {
			return ErrRentalNotFound
		}
		return fmt.Errorf("failed to update rental: %w", err)
	}
	return nil
}

func (uc *RentalUseCase) findRental(ctx context.Context, id string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrRentalNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find rental: %w", err)
	}
	return rental, nil
}

func (uc *RentalUseCase) findVehicle(ctx context.Context, id string) (*entity.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrVehicleNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return vehicle, nil
}

func (uc *RentalUseCase) findCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// checkDriverAccess limits drivers to rentals assigned to them
func checkDriverAccess(rental *entity.Rental, actor inbound.ActingUser) error {
	if actor.Role != entity.RoleDriver {
		return nil
	}
	if rental.DriverID == nil || *rental.DriverID != actor.ID {
		return ErrNotAssignedDriver
	}
	return nil
}

func mapRentalDomainError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidRentalPeriod):
		return ErrInvalidRentalPeriod
	case errors.Is(err, entity.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, entity.ErrRentalClosed):
		return ErrRentalClosed
	}
	return err
}

func contractBody(rental *entity.Rental, customer *entity.Customer, vehicle *entity.Vehicle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Renter: %s (ID %s, licence %s)\n", customer.Name, customer.IDNumber, customer.LicenseNumber)
	fmt.Fprintf(&b, "Vehicle: %s %s %d, registration %s\n", vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Registration)
	fmt.Fprintf(&b, "Period: %s to %s (%d days)\n", rental.StartDate.Format(dateLayout), rental.EndDate.Format(dateLayout),
		entity.RentalDays(rental.StartDate, rental.EndDate))
	fmt.Fprintf(&b, "Daily rate: KES %.2f\nTotal: KES %.2f\n", vehicle.DailyRate, rental.TotalAmount)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
