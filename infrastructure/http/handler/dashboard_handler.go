package handler

import (
	"net/http"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
)

type DashboardHandler struct {
	dashboardUseCase inbound.DashboardUseCase
}

func NewDashboardHandler(dashboardUseCase inbound.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUseCase: dashboardUseCase}
}

// Summary returns the dashboard for the caller's portal
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	summary, err := h.dashboardUseCase.Summary(r.Context(), entity.DashboardScope{
		Role:   claims.Role,
		UserID: claims.UserID,
	})
	if err != nil {
		writeError(w, err, nil)
		return
	}

	response.Success(w, http.StatusOK, "success", summary)
}
