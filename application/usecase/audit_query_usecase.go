package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
)

var (
	ErrAuditRecordNotFound = errors.New("audit record not found")
	ErrInvalidAuditFilter  = errors.New("invalid audit filter")
)

// AuditQueryUseCase serves the read side of the audit trail
type AuditQueryUseCase struct {
	auditRepo outbound.AuditRepository
}

func NewAuditQueryUseCase(auditRepo outbound.AuditRepository) *AuditQueryUseCase {
	return &AuditQueryUseCase{auditRepo: auditRepo}
}

func (uc *AuditQueryUseCase) ListAuditLogs(ctx context.Context, req inbound.ListAuditLogsRequest) (*inbound.AuditLogListResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	filter := domain.AuditFilter{
		Action:     domain.AuditAction(req.Action),
		EntityType: domain.AuditEntityType(req.EntityType),
		EntityID:   req.EntityID,
		UserID:     req.UserID,
		From:       req.From,
		To:         req.To,
		Limit:      limit,
		Offset:     offset,
	}
	if filter.Action != "" && !filter.Action.IsValid() {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAuditFilter, req.Action)
	}
	if filter.EntityType != "" && !filter.EntityType.IsValid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidAuditFilter, req.EntityType)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidAuditFilter)
	}

	records, total, err := uc.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return &inbound.AuditLogListResponse{
		Records:    records,
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

func (uc *AuditQueryUseCase) GetAuditLog(ctx context.Context, id string) (*domain.AuditRecord, error) {
	record, err := uc.auditRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrAuditRecordNotFound) {
			return nil, ErrAuditRecordNotFound
		}
		return nil, fmt.Errorf("failed to find audit log: %w", err)
	}
	return record, nil
}
