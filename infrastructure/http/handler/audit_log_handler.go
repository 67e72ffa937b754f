package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
)

// AuditLogHandler is the read-only view of the audit trail
type AuditLogHandler struct {
	auditQueryUseCase inbound.AuditQueryUseCase
}

func NewAuditLogHandler(auditQueryUseCase inbound.AuditQueryUseCase) *AuditLogHandler {
	return &AuditLogHandler{auditQueryUseCase: auditQueryUseCase}
}

// ListAuditLogs supports ?action, ?entity_type, ?entity_id, ?user_id, ?from, ?to, ?page and ?limit
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, err, nil)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, err, nil)
		return
	}

	q := r.URL.Query()
	logs, err := h.auditQueryUseCase.ListAuditLogs(r.Context(), inbound.ListAuditLogsRequest{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		UserID:     q.Get("user_id"),
		From:       from,
		To:         to,
	})
	if err != nil {
		writeError(w, err, auditErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", logs)
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	record, err := h.auditQueryUseCase.GetAuditLog(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, auditErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", record)
}
