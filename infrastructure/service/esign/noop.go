package esign

import (
	"context"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/google/uuid"
)

// StatusNotSent marks contracts produced by the noop signer
const StatusNotSent = "not_sent"

type noopSigner struct {
	logger logger.Logger
}

// NewNoopSigner is used when no e-signature provider is configured
func NewNoopSigner(log logger.Logger) outbound.ContractSigner {
	return &noopSigner{logger: log}
}

func (n *noopSigner) SendForSignature(ctx context.Context, req outbound.ContractRequest) (*outbound.ContractResult, error) {
	n.logger.Warn(ctx, "noop e-signature: contract not sent", map[string]interface{}{
		"rental_id": req.RentalID,
		"signer":    req.SignerEmail,
	})
	return &outbound.ContractResult{EnvelopeID: "local-" + uuid.New().String(), Status: StatusNotSent}, nil
}
