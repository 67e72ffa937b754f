package email

import (
	"context"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

type noopSender struct {
	logger logger.Logger
}

// NewNoopSender logs messages instead of delivering them. Used when SMTP is
// not configured.
func NewNoopSender(log logger.Logger) outbound.EmailSender {
	return &noopSender{logger: log}
}

func (n *noopSender) Send(ctx context.Context, msg outbound.EmailMessage) error {
	n.logger.Debug(ctx, "noop email: delivery skipped", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}
