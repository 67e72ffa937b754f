package handler

import (
	"net/http"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/validator"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
	logger      logger.Logger
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.UnprocessableEntity(w, "Password is required")
		return
	}

	res, err := h.authUseCase.Login(r.Context(), inbound.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logger.LogSecurityEvent(r.Context(), h.logger, "login_failed", "LOW", map[string]interface{}{
			"email": req.Email,
			"ip":    middleware.ClientIP(r),
		})
		writeError(w, err, authErrors)
		return
	}

	response.Success(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	me, err := h.authUseCase.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, authErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", me)
}
