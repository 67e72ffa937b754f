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
)

var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrRegistrationTaken   = errors.New("registration already exists")
	ErrInvalidRegistration = errors.New("registration is required")
	ErrInvalidVehicleModel = errors.New("make and model are required")
	ErrInvalidVehicleYear  = errors.New("invalid vehicle year")
	ErrInvalidDailyRate    = errors.New("daily rate must be positive")
	ErrInvalidVehicleState = errors.New("invalid vehicle status")
	ErrVehicleInUse        = errors.New("vehicle is currently rented")
)

type VehicleUseCase struct {
	vehicleRepo outbound.VehicleRepository
}

func NewVehicleUseCase(vehicleRepo outbound.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{vehicleRepo: vehicleRepo}
}

func (uc *VehicleUseCase) CreateVehicle(ctx context.Context, req inbound.CreateVehicleRequest) (*entity.Vehicle, error) {
	if err := validateVehicleFields(req.Registration, req.Make, req.Model, req.Year, req.DailyRate); err != nil {
		return nil, err
	}

	vehicle := entity.NewVehicle(uuid.New().String(), req.Registration, strings.TrimSpace(req.Make),
		strings.TrimSpace(req.Model), req.Year, req.DailyRate, req.OwnerID)

	if err := uc.vehicleRepo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, outbound.ErrDuplicateVehicle) {
			return nil, ErrRegistrationTaken
		}
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return vehicle, nil
}

func (uc *VehicleUseCase) UpdateVehicle(ctx context.Context, id string, req inbound.UpdateVehicleRequest) (*entity.Vehicle, error) {
	vehicle, err := uc.findVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Registration != nil {
		vehicle.Registration = entity.NormalizeRegistration(*req.Registration)
	}
	if req.Make != nil {
		vehicle.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		vehicle.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		vehicle.Year = *req.Year
	}
	if req.DailyRate != nil {
		vehicle.DailyRate = *req.DailyRate
	}
	if req.OwnerID != nil {
		if *req.OwnerID == "" {
			vehicle.OwnerID = nil
		} else {
			vehicle.OwnerID = req.OwnerID
		}
	}
	if req.Status != nil {
		status := entity.VehicleStatus(*req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidVehicleState
		}
		vehicle.Status = status
	}

	if err := validateVehicleFields(vehicle.Registration, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.DailyRate); err != nil {
		return nil, err
	}
	vehicle.UpdatedAt = time.Now()

	if err := uc.vehicleRepo.Update(ctx, vehicle); err != nil {
		switch {
		case errors.Is(err, outbound.ErrDuplicateVehicle):
			return nil, ErrRegistrationTaken
		case errors.Is(err, outbound.ErrVehicleNotFound):
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return vehicle, nil
}

func (uc *VehicleUseCase) DeleteVehicle(ctx context.Context, id string) error {
	vehicle, err := uc.findVehicle(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.Status == entity.VehicleStatusRented {
		return ErrVehicleInUse
	}

	if err := uc.vehicleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, outbound.ErrVehicleNotFound) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}

func (uc *VehicleUseCase) GetVehicle(ctx context.Context, id string) (*entity.Vehicle, error) {
	return uc.findVehicle(ctx, id)
}

func (uc *VehicleUseCase) ListVehicles(ctx context.Context, req inbound.ListVehiclesRequest) (*inbound.VehicleListResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	filter := entity.VehicleFilter{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: offset,
	}
	if req.Status != "" {
		status := entity.VehicleStatus(req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidVehicleState
		}
		filter.Status = &status
	}
	if req.OwnerID != "" {
		filter.OwnerID = &req.OwnerID
	}

	vehicles, total, err := uc.vehicleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	return &inbound.VehicleListResponse{
		Vehicles:   vehicles,
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

func (uc *VehicleUseCase) findVehicle(ctx context.Context, id string) (*entity.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrVehicleNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return vehicle, nil
}

func validateVehicleFields(registration, make, model string, year int, dailyRate float64) error {
	if entity.NormalizeRegistration(registration) == "" {
		return ErrInvalidRegistration
	}
	if strings.TrimSpace(make) == "" || strings.TrimSpace(model) == "" {
		return ErrInvalidVehicleModel
	}
	if year < 1950 || year > time.Now().Year()+1 {
		return ErrInvalidVehicleYear
	}
	if dailyRate <= 0 {
		return ErrInvalidDailyRate
	}
	return nil
}
