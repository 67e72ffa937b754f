package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

// MockVehicleUseCase is a mock implementation of VehicleUseCase
type MockVehicleUseCase struct {
	mock.Mock
}

func (m *MockVehicleUseCase) CreateVehicle(ctx context.Context, req inbound.CreateVehicleRequest) (*entity.Vehicle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleUseCase) UpdateVehicle(ctx context.Context, id string, req inbound.UpdateVehicleRequest) (*entity.Vehicle, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleUseCase) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleUseCase) GetVehicle(ctx context.Context, id string) (*entity.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleUseCase) ListVehicles(ctx context.Context, req inbound.ListVehiclesRequest) (*inbound.VehicleListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.VehicleListResponse), args.Error(1)
}

// MockRentalUseCase is a mock implementation of RentalUseCase
type MockRentalUseCase struct {
	mock.Mock
}

func (m *MockRentalUseCase) rental(args mock.Arguments) (*entity.Rental, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Rental), args.Error(1)
}

func (m *MockRentalUseCase) CreateRental(ctx context.Context, req inbound.CreateRentalRequest) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, req))
}

func (m *MockRentalUseCase) UpdateRental(ctx context.Context, id string, req inbound.UpdateRentalRequest) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id, req))
}

func (m *MockRentalUseCase) GetRental(ctx context.Context, id string) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id))
}

func (m *MockRentalUseCase) ListRentals(ctx context.Context, req inbound.ListRentalsRequest) (*inbound.RentalListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RentalListResponse), args.Error(1)
}

func (m *MockRentalUseCase) AssignDriver(ctx context.Context, id string, req inbound.AssignDriverRequest) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id, req))
}

func (m *MockRentalUseCase) StartRental(ctx context.Context, id string, actor inbound.ActingUser) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id, actor))
}

func (m *MockRentalUseCase) CompleteRental(ctx context.Context, id string, actor inbound.ActingUser) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id, actor))
}

func (m *MockRentalUseCase) CancelRental(ctx context.Context, id string) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, id))
}

func (m *MockRentalUseCase) SendContract(ctx context.Context, id string) (*outbound.ContractResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.ContractResult), args.Error(1)
}

func (m *MockRentalUseCase) NotifyCustomer(ctx context.Context, id string, req inbound.NotifyCustomerRequest) (*inbound.NotifyCustomerResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.NotifyCustomerResponse), args.Error(1)
}

func (m *MockRentalUseCase) RequestBooking(ctx context.Context, req inbound.BookingRequest) (*entity.Rental, error) {
	return m.rental(m.Called(ctx, req))
}

// MockPaymentUseCase is a mock implementation of PaymentUseCase
type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) RecordPayment(ctx context.Context, req inbound.RecordPaymentRequest) (*entity.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentUseCase) InitiateSTKPush(ctx context.Context, req inbound.STKPushRequest) (*inbound.STKPushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.STKPushResponse), args.Error(1)
}

func (m *MockPaymentUseCase) HandleMpesaCallback(ctx context.Context, cb inbound.MpesaCallback) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func (m *MockPaymentUseCase) ListPayments(ctx context.Context, req inbound.ListPaymentsRequest) (*inbound.PaymentListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PaymentListResponse), args.Error(1)
}

// MockAuditQueryUseCase is a mock implementation of AuditQueryUseCase
type MockAuditQueryUseCase struct {
	mock.Mock
}

func (m *MockAuditQueryUseCase) ListAuditLogs(ctx context.Context, req inbound.ListAuditLogsRequest) (*inbound.AuditLogListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.AuditLogListResponse), args.Error(1)
}

func (m *MockAuditQueryUseCase) GetAuditLog(ctx context.Context, id string) (*domain.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, map[string]interface{})        {}
func (nopLogger) Info(context.Context, string, map[string]interface{})         {}
func (nopLogger) Warn(context.Context, string, map[string]interface{})         {}
func (nopLogger) Error(context.Context, string, error, map[string]interface{}) {}
func (l nopLogger) WithFields(map[string]interface{}) logger.Logger            { return l }

// MockCustomerUseCase is a mock implementation of CustomerUseCase
type MockCustomerUseCase struct {
	mock.Mock
}

func (m *MockCustomerUseCase) customer(args mock.Arguments) (*entity.Customer, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerUseCase) CreateCustomer(ctx context.Context, req inbound.CreateCustomerRequest) (*entity.Customer, error) {
	return m.customer(m.Called(ctx, req))
}

func (m *MockCustomerUseCase) UpdateCustomer(ctx context.Context, id string, req inbound.UpdateCustomerRequest) (*entity.Customer, error) {
	return m.customer(m.Called(ctx, id, req))
}

func (m *MockCustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerUseCase) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return m.customer(m.Called(ctx, id))
}

func (m *MockCustomerUseCase) ListCustomers(ctx context.Context, req inbound.ListCustomersRequest) (*inbound.CustomerListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.CustomerListResponse), args.Error(1)
}

// MockUserManagementUseCase is a mock implementation of UserManagementUseCase
type MockUserManagementUseCase struct {
	mock.Mock
}

func (m *MockUserManagementUseCase) CreateUser(ctx context.Context, req inbound.CreateUserRequest) (*inbound.GetUserDetailResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.GetUserDetailResponse), args.Error(1)
}

func (m *MockUserManagementUseCase) UpdateUser(ctx context.Context, userID string, req inbound.UpdateUserRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockUserManagementUseCase) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserManagementUseCase) GetUserDetail(ctx context.Context, userID string) (*inbound.GetUserDetailResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.GetUserDetailResponse), args.Error(1)
}

func (m *MockUserManagementUseCase) ListUsers(ctx context.Context, req inbound.ListUsersRequest) (*inbound.ListUsersResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ListUsersResponse), args.Error(1)
}

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.LoginResponse), args.Error(1)
}

func (m *MockAuthUseCase) Me(ctx context.Context, userID string) (*inbound.MeResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.MeResponse), args.Error(1)
}

// MockDashboardUseCase is a mock implementation of DashboardUseCase
type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) Summary(ctx context.Context, scope entity.DashboardScope) (*entity.DashboardSummary, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DashboardSummary), args.Error(1)
}
