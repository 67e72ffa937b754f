package mpesa

import (
	"context"
	"errors"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

var ErrGatewayNotConfigured = errors.New("mpesa is not configured")

type noopGateway struct {
	logger logger.Logger
}

// NewNoopGateway rejects every STK push. Used when Daraja credentials are missing.
func NewNoopGateway(log logger.Logger) outbound.PaymentGateway {
	return &noopGateway{logger: log}
}

func (n *noopGateway) InitiateSTKPush(ctx context.Context, req outbound.STKPushRequest) (*outbound.STKPushResult, error) {
	n.logger.Warn(ctx, "noop mpesa: stk push not sent", map[string]interface{}{
		"account_reference": req.AccountReference,
	})
	return nil, ErrGatewayNotConfigured
}
