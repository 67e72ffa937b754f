package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/application/usecase"
	"github.com/fleetcrm/fleetcrm/application/usecase/user_management"
	mongoadapter "github.com/fleetcrm/fleetcrm/infrastructure/adapter/mongo"
	"github.com/fleetcrm/fleetcrm/infrastructure/adapter/postgres"
	redisadapter "github.com/fleetcrm/fleetcrm/infrastructure/adapter/redis"
	"github.com/fleetcrm/fleetcrm/infrastructure/config"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/handler"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/middleware"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/server"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/audit"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/email"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/esign"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/jwt"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/mpesa"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/password"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/ratelimit"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/recaptcha"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/whatsapp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		CorrelationIDHeader: cfg.LogCorrelationIDHeader,
		EnableRequestLog:    cfg.LogEnableRequestLog,
		ServiceName:         "fleetcrm-api",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":         cfg.Environment,
		"audit_store": cfg.AuditStore,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Redis backs rate limiting and the dashboard cache. Both degrade when it
	// is unreachable.
	redisClient, err := redisadapter.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		structuredLogger.Warn(ctx, "Redis unavailable, rate limiting and dashboard cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	rlLogger := logrus.New()
	rateLimitService := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, redisClient, rlLogger)

	dashboardCache := redisadapter.NewNoopDashboardCache()
	if cfg.DashboardCacheEnabled && redisClient != nil {
		dashboardCache = redisadapter.NewDashboardCache(redisClient)
	}

	// Audit trail
	auditRepo, closeAuditStore, err := openAuditStore(ctx, cfg, db)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to open audit store", err, map[string]interface{}{"store": cfg.AuditStore})
		log.Fatalf("Failed to open audit store: %v", err)
	}
	defer closeAuditStore()
	recorder := audit.NewRecorder(auditRepo, structuredLogger, cfg.AuditWriteTimeout)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	rentalRepo := postgres.NewRentalRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	dashboardRepo := postgres.NewDashboardRepository(db)

	// Services
	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(10)
	emailSender, contractSigner, messenger, gateway := externalAdapters(ctx, cfg, structuredLogger)

	// Use cases
	authUseCase := usecase.NewLoginUseCase(userRepo, tokenService, passwordService, cfg.AccessTokenTTL)
	userManagementUseCase := user_management.NewUserManagementUseCase(userRepo, passwordService)
	vehicleUseCase := usecase.NewVehicleUseCase(vehicleRepo)
	customerUseCase := usecase.NewCustomerUseCase(customerRepo)
	rentalUseCase := usecase.NewRentalUseCase(rentalRepo, vehicleRepo, customerRepo, userRepo,
		emailSender, contractSigner, messenger, structuredLogger)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, rentalRepo, gateway, structuredLogger)
	dashboardUseCase := usecase.NewDashboardUseCase(dashboardRepo, dashboardCache, cfg.DashboardCacheTTL, structuredLogger)
	auditQueryUseCase := usecase.NewAuditQueryUseCase(auditRepo)

	healthChecks := map[string]handler.HealthCheck{"postgres": db.PingContext}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase, structuredLogger),
		Users:     handler.NewUserManagementHandler(userManagementUseCase),
		Vehicles:  handler.NewVehicleHandler(vehicleUseCase),
		Customers: handler.NewCustomerHandler(customerUseCase),
		Rentals:   handler.NewRentalHandler(rentalUseCase),
		Payments:  handler.NewPaymentHandler(paymentUseCase, structuredLogger),
		Dashboard: handler.NewDashboardHandler(dashboardUseCase),
		AuditLogs: handler.NewAuditLogHandler(auditQueryUseCase),
		Health:    handler.NewHealthHandler(healthChecks),
	}
	if err := middleware.TrustProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	middlewares := server.Middlewares{
		Auth:        middleware.NewAuthMiddleware(tokenService, structuredLogger),
		Audit:       middleware.NewAuditMiddleware(recorder, structuredLogger),
		RateLimit:   middleware.NewRateLimitMiddleware(rateLimitService, structuredLogger),
		BotVerifier: botVerifier(cfg, structuredLogger),
	}

	router := server.NewRouter(server.RouterConfig{
		LoginPolicy: middleware.RateLimitPolicy{
			Name:          "login",
			Limit:         cfg.RateLimitIPAttempts,
			Window:        cfg.RateLimitIPWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		},
		BookingPolicy: middleware.RateLimitPolicy{
			Name:          "booking",
			Limit:         cfg.RateLimitIPAttempts,
			Window:        cfg.RateLimitIPWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		},
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
		CorrelationIDHeader:  cfg.LogCorrelationIDHeader,
		EnableRequestLog:     cfg.LogEnableRequestLog,
		MetricsEnabled:       cfg.MetricsEnabled,
	}, handlers, middlewares, structuredLogger)

	srv := server.NewServer(server.ServerConfig{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, router, structuredLogger)

	go func() {
		if err := srv.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed", err, map[string]interface{}{
				"host": cfg.ServerHost,
				"port": cfg.ServerPort,
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	// In-flight audit writes finish before the stores close
	if err := recorder.Close(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Audit trail not fully drained", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}

// openAuditStore returns the configured audit repository and a func that
// releases its connection
func openAuditStore(ctx context.Context, cfg *config.Config, db *sql.DB) (outbound.AuditRepository, func(), error) {
	if cfg.AuditStore != config.AuditStoreMongo {
		return postgres.NewAuditRepository(db), func() {}, nil
	}

	client, err := mongoadapter.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mongoadapter.EnsureIndexes(indexCtx, collection); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	return mongoadapter.NewAuditRepository(collection), func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}, nil
}

func botVerifier(cfg *config.Config, log logger.Logger) inbound.BotVerifier {
	if !cfg.RecaptchaConfigured() {
		return recaptcha.NewNoopVerifier()
	}
	return recaptcha.NewVerifier(recaptcha.Config{
		SecretKey:      cfg.RecaptchaSecret,
		MinScore:       cfg.RecaptchaMinScore,
		ExpectedAction: cfg.RecaptchaAction,
		Timeout:        cfg.ExternalHTTPTimeout,
	}, log)
}

// externalAdapters returns live clients for every integration with
// credentials configured and noop stand-ins for the rest
func externalAdapters(ctx context.Context, cfg *config.Config, log logger.Logger) (
	outbound.EmailSender, outbound.ContractSigner, outbound.WhatsAppMessenger, outbound.PaymentGateway,
) {
	emailSender := email.NewNoopSender(log)
	if cfg.SMTPConfigured() {
		emailSender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.ExternalHTTPTimeout,
		}, log)
	}

	contractSigner := esign.NewNoopSigner(log)
	if cfg.ESignConfigured() {
		contractSigner = esign.NewClient(esign.Config{
			BaseURL: cfg.ESignBaseURL,
			APIKey:  cfg.ESignAPIKey,
			Timeout: cfg.ExternalHTTPTimeout,
		}, log)
	}

	messenger := whatsapp.NewNoopMessenger(log)
	if cfg.WhatsAppConfigured() {
		messenger = whatsapp.NewCloudAPIClient(whatsapp.Config{
			BaseURL:       cfg.WhatsAppBaseURL,
			Token:         cfg.WhatsAppToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			Timeout:       cfg.ExternalHTTPTimeout,
		}, log)
	}

	gateway := mpesa.NewNoopGateway(log)
	if cfg.MpesaConfigured() {
		gateway = mpesa.NewDarajaClient(mpesa.Config{
			BaseURL:        cfg.MpesaBaseURL,
			ConsumerKey:    cfg.MpesaConsumerKey,
			ConsumerSecret: cfg.MpesaConsumerSecret,
			ShortCode:      cfg.MpesaShortCode,
			Passkey:        cfg.MpesaPasskey,
			CallbackURL:    cfg.MpesaCallbackURL,
			Timeout:        cfg.ExternalHTTPTimeout,
		}, log)
	}

	log.Info(ctx, "External adapters configured", map[string]interface{}{
		"smtp":     cfg.SMTPConfigured(),
		"esign":    cfg.ESignConfigured(),
		"whatsapp": cfg.WhatsAppConfigured(),
		"mpesa":    cfg.MpesaConfigured(),
	})
	return emailSender, contractSigner, messenger, gateway
}
