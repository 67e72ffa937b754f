package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/handler"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserManagementHandler
	Vehicles  *handler.VehicleHandler
	Customers *handler.CustomerHandler
	Rentals   *handler.RentalHandler
	Payments  *handler.PaymentHandler
	Dashboard *handler.DashboardHandler
	AuditLogs *handler.AuditLogHandler
	Health    *handler.HealthHandler
}

// Middlewares groups the request pipeline pieces shared across routes
type Middlewares struct {
	Auth        *middleware.AuthMiddleware
	Audit       *middleware.AuditMiddleware
	RateLimit   *middleware.RateLimitMiddleware
	BotVerifier inbound.BotVerifier
}

type RouterConfig struct {
	LoginPolicy          middleware.RateLimitPolicy
	BookingPolicy        middleware.RateLimitPolicy
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CorrelationIDHeader  string
	EnableRequestLog     bool
	MetricsEnabled       bool
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type Server struct {
	server *http.Server
	logger logger.Logger
}

func NewServer(config ServerConfig, httpHandler http.Handler, log logger.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      httpHandler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: log,
	}
}

// Start blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.server.Addr})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

// NewRouter mounts every route. Role checks run before the audit interceptor
// so rejected requests never reach it.
func NewRouter(cfg RouterConfig, h Handlers, m Middlewares, log logger.Logger) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()

	staff := []string{entity.RoleAdmin, entity.RoleDirector}
	anyRole := entity.ValidRoles

	route := func(path, method string, fn http.HandlerFunc, roles []string, action domain.AuditAction, entityType domain.AuditEntityType) {
		var next http.Handler = fn
		if action != "" {
			next = m.Audit.Track(action, entityType)(next)
		}
		next = m.Auth.RequireRole(roles...)(next)
		api.Handle(path, next).Methods(method)
	}

	// Auth
	api.Handle("/auth/login", m.RateLimit.Limit(cfg.LoginPolicy)(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	route("/auth/me", http.MethodGet, h.Auth.Me, anyRole, "", "")

	// Users
	admin := []string{entity.RoleAdmin}
	route("/users", http.MethodGet, h.Users.ListUsers, admin, "", "")
	route("/users", http.MethodPost, h.Users.CreateUser, admin, domain.ActionUserCreated, domain.EntityUser)
	route("/users/{id}", http.MethodGet, h.Users.GetUserDetail, admin, "", "")
	route("/users/{id}", http.MethodPut, h.Users.UpdateUser, admin, domain.ActionUserUpdated, domain.EntityUser)
	route("/users/{id}", http.MethodDelete, h.Users.DeleteUser, admin, domain.ActionUserDeleted, domain.EntityUser)

	// Vehicles
	route("/vehicles", http.MethodGet, h.Vehicles.ListVehicles, anyRole, "", "")
	route("/vehicles", http.MethodPost, h.Vehicles.CreateVehicle, staff, domain.ActionVehicleCreated, domain.EntityVehicle)
	route("/vehicles/{id}", http.MethodGet, h.Vehicles.GetVehicle, anyRole, "", "")
	route("/vehicles/{id}", http.MethodPut, h.Vehicles.UpdateVehicle, staff, domain.ActionVehicleUpdated, domain.EntityVehicle)
	route("/vehicles/{id}", http.MethodDelete, h.Vehicles.DeleteVehicle, admin, domain.ActionVehicleDeleted, domain.EntityVehicle)
	route("/owner/vehicles", http.MethodGet, h.Vehicles.ListOwnerVehicles, []string{entity.RoleOwner}, "", "")

	// Customers
	route("/customers", http.MethodGet, h.Customers.ListCustomers, staff, "", "")
	route("/customers", http.MethodPost, h.Customers.CreateCustomer, staff, domain.ActionCustomerCreated, domain.EntityCustomer)
	route("/customers/{id}", http.MethodGet, h.Customers.GetCustomer, staff, "", "")
	route("/customers/{id}", http.MethodPut, h.Customers.UpdateCustomer, staff, domain.ActionCustomerUpdated, domain.EntityCustomer)
	route("/customers/{id}", http.MethodDelete, h.Customers.DeleteCustomer, staff, domain.ActionCustomerDeleted, domain.EntityCustomer)

	// Rentals
	withDriver := []string{entity.RoleAdmin, entity.RoleDirector, entity.RoleDriver}
	route("/rentals", http.MethodGet, h.Rentals.ListRentals, staff, "", "")
	route("/rentals", http.MethodPost, h.Rentals.CreateRental, staff, domain.ActionBookingCreated, domain.EntityRental)
	route("/rentals/{id}", http.MethodGet, h.Rentals.GetRental, staff, "", "")
	route("/rentals/{id}", http.MethodPut, h.Rentals.UpdateRental, staff, domain.ActionBookingUpdated, domain.EntityRental)
	route("/rentals/{id}/assign-driver", http.MethodPost, h.Rentals.AssignDriver, staff, domain.ActionDriverAssigned, domain.EntityRental)
	route("/rentals/{id}/start", http.MethodPost, h.Rentals.StartRental, withDriver, domain.ActionBookingStarted, domain.EntityRental)
	route("/rentals/{id}/complete", http.MethodPost, h.Rentals.CompleteRental, withDriver, domain.ActionBookingCompleted, domain.EntityRental)
	route("/rentals/{id}/cancel", http.MethodPost, h.Rentals.CancelRental, staff, domain.ActionBookingCancelled, domain.EntityRental)
	route("/rentals/{id}/contract", http.MethodPost, h.Rentals.SendContract, staff, domain.ActionContractSent, domain.EntityContract)
	route("/rentals/{id}/notify", http.MethodPost, h.Rentals.NotifyCustomer, staff, domain.ActionCustomerNotified, domain.EntityRental)
	route("/driver/rentals", http.MethodGet, h.Rentals.ListDriverRentals, []string{entity.RoleDriver}, "", "")

	// Public booking form. Audited only when a signed-in user submits it.
	api.Handle("/bookings/request", m.RateLimit.Limit(cfg.BookingPolicy)(
		m.Auth.OptionalAuth(
			middleware.HumanCheck(m.BotVerifier, log)(
				m.Audit.Track(domain.ActionBookingCreated, domain.EntityRental)(http.HandlerFunc(h.Rentals.RequestBooking)),
			),
		),
	)).Methods(http.MethodPost)

	// Payments
	route("/payments", http.MethodGet, h.Payments.ListPayments, staff, "", "")
	route("/payments", http.MethodPost, h.Payments.RecordPayment, staff, domain.ActionPaymentReceived, domain.EntityPayment)
	route("/payments/mpesa/stk-push", http.MethodPost, h.Payments.InitiateSTKPush, staff, domain.ActionPaymentInitiated, domain.EntityPayment)
	api.HandleFunc("/payments/mpesa/callback", h.Payments.MpesaCallback).Methods(http.MethodPost)

	// Dashboard and audit trail
	route("/dashboard", http.MethodGet, h.Dashboard.Summary, anyRole, "", "")
	route("/audit-logs", http.MethodGet, h.AuditLogs.ListAuditLogs, staff, "", "")
	route("/audit-logs/{id}", http.MethodGet, h.AuditLogs.GetAuditLog, staff, "", "")

	router.Use(middleware.RecoveryMiddleware(log))
	if cfg.MetricsEnabled {
		router.Use(middleware.MetricsMiddleware)
	}

	var root http.Handler = router
	if cfg.EnableRequestLog {
		root = middleware.RequestLogMiddleware(log)(root)
	}
	if cfg.CORSEnabled {
		root = middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)(root)
	}
	return middleware.CorrelationIDMiddleware(cfg.CorrelationIDHeader)(root)
}
