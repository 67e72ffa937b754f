package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/usecase/user_management"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

func userRouter(h *UserManagementHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/users", h.CreateUser).Methods(http.MethodPost)
	router.HandleFunc("/api/users", h.ListUsers).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", h.GetUserDetail).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", h.UpdateUser).Methods(http.MethodPut)
	router.HandleFunc("/api/users/{id}", h.DeleteUser).Methods(http.MethodDelete)
	return router
}

func TestUserManagementHandler_CreateUser(t *testing.T) {
	valid := `{"name":"Wanjiku","email":"wanjiku@fleet.co.ke","password":"Secret123!","role":"driver"}`

	tests := []struct {
		name           string
		requestBody    string
		mockError      error
		callsUseCase   bool
		expectedStatus int
	}{
		{name: "successful creation", requestBody: valid, callsUseCase: true, expectedStatus: http.StatusCreated},
		{name: "duplicate email", requestBody: valid, mockError: user_management.ErrEmailAlreadyExists, callsUseCase: true, expectedStatus: http.StatusConflict},
		{name: "missing name", requestBody: `{"email":"wanjiku@fleet.co.ke","password":"Secret123!","role":"driver"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "bad email", requestBody: `{"name":"Wanjiku","email":"wanjiku","password":"Secret123!","role":"driver"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "short password", requestBody: `{"name":"Wanjiku","email":"wanjiku@fleet.co.ke","password":"short","role":"driver"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "unknown role", requestBody: `{"name":"Wanjiku","email":"wanjiku@fleet.co.ke","password":"Secret123!","role":"janitor"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "malformed body", requestBody: `{`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUserManagementUseCase)
			if tt.callsUseCase {
				matcher := mock.MatchedBy(func(req inbound.CreateUserRequest) bool {
					return req.Status == entity.UserStatusActive && req.Role == entity.RoleDriver
				})
				if tt.mockError != nil {
					uc.On("CreateUser", mock.Anything, matcher).Return(nil, tt.mockError)
				} else {
					uc.On("CreateUser", mock.Anything, matcher).Return(&inbound.GetUserDetailResponse{ID: "user-2", Role: entity.RoleDriver}, nil)
				}
			}

			rr := httptest.NewRecorder()
			userRouter(NewUserManagementHandler(uc)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(tt.requestBody)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if !tt.callsUseCase {
				uc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			}
			uc.AssertExpectations(t)
		})
	}
}

func TestUserManagementHandler_UpdateAndDelete(t *testing.T) {
	uc := new(MockUserManagementUseCase)
	uc.On("UpdateUser", mock.Anything, "user-2", inbound.UpdateUserRequest{Status: entity.UserStatusInactive}).Return(nil)
	uc.On("UpdateUser", mock.Anything, "admin-1", inbound.UpdateUserRequest{Role: entity.RoleDriver}).Return(user_management.ErrLastAdmin)
	uc.On("DeleteUser", mock.Anything, "ghost").Return(user_management.ErrUserNotFound)
	router := userRouter(NewUserManagementHandler(uc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/users/user-2", bytes.NewBufferString(`{"status":"inactive"}`)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/users/admin-1", bytes.NewBufferString(`{"role":"driver"}`)))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, decodeEnvelope(t, rr).Success)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/users/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	uc.AssertExpectations(t)
}

func TestUserManagementHandler_ListUsers_Filters(t *testing.T) {
	uc := new(MockUserManagementUseCase)
	uc.On("ListUsers", mock.Anything, inbound.ListUsersRequest{
		Page:   1,
		Limit:  25,
		Filter: inbound.ListUsersFilter{Role: "driver", Status: "active"},
	}).Return(&inbound.ListUsersResponse{Users: []inbound.UserListItem{}}, nil)

	rr := httptest.NewRecorder()
	userRouter(NewUserManagementHandler(uc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users?limit=25&role=driver&status=active", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	uc.AssertExpectations(t)
}

func TestUserManagementHandler_GetUserDetail(t *testing.T) {
	uc := new(MockUserManagementUseCase)
	uc.On("GetUserDetail", mock.Anything, "user-2").Return(&inbound.GetUserDetailResponse{ID: "user-2", Name: "Wanjiku"}, nil)

	rr := httptest.NewRecorder()
	userRouter(NewUserManagementHandler(uc)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/user-2", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	data, _ := decodeEnvelope(t, rr).Data.(map[string]interface{})
	assert.Equal(t, "Wanjiku", data["name"])
}
