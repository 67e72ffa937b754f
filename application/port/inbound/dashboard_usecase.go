package inbound

import (
	"context"

	"github.com/fleetcrm/fleetcrm/domain/entity"
)

type DashboardUseCase interface {
	Summary(ctx context.Context, scope entity.DashboardScope) (*entity.DashboardSummary, error)
}
