package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

const upcomingRentalsLimit = 10

type DashboardUseCase struct {
	repo     outbound.DashboardRepository
	cache    outbound.DashboardCache
	cacheTTL time.Duration
	logger   logger.Logger
	now      func() time.Time
}

func NewDashboardUseCase(repo outbound.DashboardRepository, cache outbound.DashboardCache, cacheTTL time.Duration, log logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
		now:      time.Now,
	}
}

// Summary builds the dashboard for the caller's role. Cache errors are
// logged and the summary is computed from the database.
func (uc *DashboardUseCase) Summary(ctx context.Context, scope entity.DashboardScope) (*entity.DashboardSummary, error) {
	key := dashboardCacheKey(scope)

	if cached, ok, err := uc.cache.Get(ctx, key); err != nil {
		uc.logger.Warn(ctx, "Dashboard cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if ok {
		return cached, nil
	}

	summary, err := uc.compute(ctx, scope)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Set(ctx, key, summary, uc.cacheTTL); err != nil {
		uc.logger.Warn(ctx, "Dashboard cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return summary, nil
}

func (uc *DashboardUseCase) compute(ctx context.Context, scope entity.DashboardScope) (*entity.DashboardSummary, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	summary := &entity.DashboardSummary{Role: scope.Role}

	var ownerID, driverID string
	switch scope.Role {
	case entity.RoleOwner:
		ownerID = scope.UserID
	case entity.RoleDriver:
		driverID = scope.UserID
	}

	if scope.Role != entity.RoleDriver {
		vehicles, err := uc.repo.VehicleCountsByStatus(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to count vehicles: %w", err)
		}
		summary.VehiclesByStatus = vehicles
		for _, n := range vehicles {
			summary.TotalVehicles += n
		}

		revenue, err := uc.repo.RevenueSince(ctx, monthStart, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum revenue: %w", err)
		}
		summary.RevenueThisMonth = revenue
	}

	rentals, err := uc.repo.RentalCountsByStatus(ctx, ownerID, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rentals: %w", err)
	}
	summary.ActiveRentals = rentals[string(entity.RentalStatusActive)]
	summary.PendingRentals = rentals[string(entity.RentalStatusPending)]

	switch scope.Role {
	case entity.RoleAdmin, entity.RoleDirector:
		customers, err := uc.repo.CustomerCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count customers: %w", err)
		}
		summary.TotalCustomers = customers
	case entity.RoleDriver:
		upcoming, err := uc.repo.UpcomingRentalsForDriver(ctx, driverID, upcomingRentalsLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load upcoming rentals: %w", err)
		}
		summary.UpcomingRentals = upcoming
	}

	return summary, nil
}

func dashboardCacheKey(scope entity.DashboardScope) string {
	switch scope.Role {
	case entity.RoleOwner, entity.RoleDriver:
		return fmt.Sprintf("dashboard:%s:%s", scope.Role, scope.UserID)
	}
	return fmt.Sprintf("dashboard:%s", scope.Role)
}
