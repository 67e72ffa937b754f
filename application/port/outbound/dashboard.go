package outbound

import (
	"context"
	"time"

	"github.com/fleetcrm/fleetcrm/domain/entity"
)

// DashboardRepository runs the report queries behind the portal dashboards
type DashboardRepository interface {
	VehicleCountsByStatus(ctx context.Context, ownerID string) (map[string]int, error)
	RentalCountsByStatus(ctx context.Context, ownerID, driverID string) (map[string]int, error)
	CustomerCount(ctx context.Context) (int, error)
	RevenueSince(ctx context.Context, since time.Time, ownerID string) (float64, error)
	UpcomingRentalsForDriver(ctx context.Context, driverID string, limit int) ([]*entity.Rental, error)
}

type DashboardCache interface {
	Get(ctx context.Context, key string) (*entity.DashboardSummary, bool, error)
	Set(ctx context.Context, key string, summary *entity.DashboardSummary, ttl time.Duration) error
}
