package inbound

import (
	"context"
	"time"

	"github.com/fleetcrm/fleetcrm/domain"
)

// AuditTrail accepts finished audit records. Record must not block the
// caller and must not report storage failures back to it.
type AuditTrail interface {
	Record(ctx context.Context, record *domain.AuditRecord)
}

type ListAuditLogsRequest struct {
	Page       int
	Limit      int
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	From       *time.Time
	To         *time.Time
}

type AuditLogListResponse struct {
	Records    []*domain.AuditRecord `json:"records"`
	Pagination PaginationInfo        `json:"pagination"`
}

type AuditQueryUseCase interface {
	ListAuditLogs(ctx context.Context, req ListAuditLogsRequest) (*AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id string) (*domain.AuditRecord, error)
}
