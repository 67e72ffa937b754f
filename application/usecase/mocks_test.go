package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.UserFilters) ([]*entity.User, int, error) {
	args := m.Called(ctx, offset, limit, filters)
	return args.Get(0).([]*entity.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVehicleRepository) List(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Vehicle), args.Int(1), args.Error(2)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(string) *entity.Customer); ok {
		return fn(id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter entity.CustomerFilter) ([]*entity.Customer, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Customer), args.Int(1), args.Error(2)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *MockRentalRepository) FindByID(ctx context.Context, id string) (*entity.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Rental), args.Error(1)
}

func (m *MockRentalRepository) Update(ctx context.Context, rental *entity.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *MockRentalRepository) List(ctx context.Context, filter entity.RentalFilter) ([]*entity.Rental, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Rental), args.Int(1), args.Error(2)
}

func (m *MockRentalRepository) HasOverlap(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter entity.PaymentFilter) ([]*entity.Payment, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Payment), args.Int(1), args.Error(2)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, record *domain.AuditRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id string) (*domain.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.AuditRecord), args.Int(1), args.Error(2)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg outbound.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type MockContractSigner struct {
	mock.Mock
}

func (m *MockContractSigner) SendForSignature(ctx context.Context, req outbound.ContractRequest) (*outbound.ContractResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.ContractResult), args.Error(1)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendText(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitiateSTKPush(ctx context.Context, req outbound.STKPushRequest) (*outbound.STKPushResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.STKPushResult), args.Error(1)
}

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) VehicleCountsByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockDashboardRepository) RentalCountsByStatus(ctx context.Context, ownerID, driverID string) (map[string]int, error) {
	args := m.Called(ctx, ownerID, driverID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockDashboardRepository) CustomerCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepository) RevenueSince(ctx context.Context, since time.Time, ownerID string) (float64, error) {
	args := m.Called(ctx, since, ownerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDashboardRepository) UpcomingRentalsForDriver(ctx context.Context, driverID string, limit int) ([]*entity.Rental, error) {
	args := m.Called(ctx, driverID, limit)
	return args.Get(0).([]*entity.Rental), args.Error(1)
}

type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) Get(ctx context.Context, key string) (*entity.DashboardSummary, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.DashboardSummary), args.Bool(1), args.Error(2)
}

func (m *MockDashboardCache) Set(ctx context.Context, key string, summary *entity.DashboardSummary, ttl time.Duration) error {
	return m.Called(ctx, key, summary, ttl).Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(claims outbound.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.TokenClaims), args.Error(1)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

// Minimal no-op logger

type testLogger struct{}

func (l *testLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {}
func (l *testLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
}
func (l *testLogger) Warn(ctx context.Context, message string, fields map[string]interface{})  {}
func (l *testLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {}
func (l *testLogger) WithFields(fields map[string]interface{}) logger.Logger                   { return l }
