package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain"
)

func TestAuditLogHandler_ListAuditLogs(t *testing.T) {
	uc := new(MockAuditQueryUseCase)
	uc.On("ListAuditLogs", mock.Anything, mock.MatchedBy(func(req inbound.ListAuditLogsRequest) bool {
		return req.Page == 1 && req.Limit == 20 &&
			req.Action == string(domain.ActionBookingCreated) && req.EntityType == "rental" &&
			req.From != nil && req.From.Format("2006-01-02") == "2026-01-01" && req.To == nil
	})).Return(&inbound.AuditLogListResponse{Records: []*domain.AuditRecord{}}, nil)

	h := NewAuditLogHandler(uc)

	rr := httptest.NewRecorder()
	h.ListAuditLogs(rr, httptest.NewRequest(http.MethodGet, "/api/audit-logs?action=booking_created&entity_type=rental&from=2026-01-01", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	uc.AssertExpectations(t)

	rr = httptest.NewRecorder()
	h.ListAuditLogs(rr, httptest.NewRequest(http.MethodGet, "/api/audit-logs?to=yesterday", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	uc.AssertNumberOfCalls(t, "ListAuditLogs", 1)
}
