package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/validator"
)

type UserManagementHandler struct {
	userManagementUseCase inbound.UserManagementUseCase
}

func NewUserManagementHandler(userManagementUseCase inbound.UserManagementUseCase) *UserManagementHandler {
	return &UserManagementHandler{
		userManagementUseCase: userManagementUseCase,
	}
}

// CreateUser creates a staff account
func (h *UserManagementHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	if req.Status == "" {
		req.Status = entity.UserStatusActive
	}

	if !validator.ValidateRequired(req.Name) {
		response.UnprocessableEntity(w, "Name is required")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidateMinLength(req.Password, 8) {
		response.UnprocessableEntity(w, "Password must be at least 8 characters")
		return
	}
	if !validator.ValidateOneOf(req.Role, entity.ValidRoles...) {
		response.UnprocessableEntity(w, "Invalid role")
		return
	}

	user, err := h.userManagementUseCase.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err, userErrors)
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserManagementHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req inbound.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}

	if err := h.userManagementUseCase.UpdateUser(r.Context(), userID, req); err != nil {
		writeError(w, err, userErrors)
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", nil)
}

// DeleteUser soft deletes a user
func (h *UserManagementHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userManagementUseCase.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err, userErrors)
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserManagementHandler) GetUserDetail(w http.ResponseWriter, r *http.Request) {
	user, err := h.userManagementUseCase.GetUserDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, userErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", user)
}

// ListUsers supports ?page, ?limit, ?name, ?role and ?status
func (h *UserManagementHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := inbound.ListUsersRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
		Filter: inbound.ListUsersFilter{
			Name:   q.Get("name"),
			Role:   q.Get("role"),
			Status: q.Get("status"),
		},
	}

	users, err := h.userManagementUseCase.ListUsers(r.Context(), req)
	if err != nil {
		writeError(w, err, userErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", users)
}
