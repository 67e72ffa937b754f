package outbound

import (
	"context"
	"errors"

	"github.com/fleetcrm/fleetcrm/domain"
)

var ErrAuditRecordNotFound = errors.New("audit record not found")

// AuditRepository is append-only. There is no update or delete.
type AuditRepository interface {
	Insert(ctx context.Context, record *domain.AuditRecord) error
	FindByID(ctx context.Context, id string) (*domain.AuditRecord, error)
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, int, error)
}
