package whatsapp

import (
	"context"
	"errors"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

var ErrMessengerNotConfigured = errors.New("whatsapp is not configured")

type noopMessenger struct {
	logger logger.Logger
}

// NewNoopMessenger refuses to send. Used when Cloud API credentials are missing.
func NewNoopMessenger(log logger.Logger) outbound.WhatsAppMessenger {
	return &noopMessenger{logger: log}
}

func (n *noopMessenger) SendText(ctx context.Context, phone, _ string) (string, error) {
	n.logger.Warn(ctx, "noop whatsapp: message not sent", map[string]interface{}{"to": phone})
	return "", ErrMessengerNotConfigured
}
