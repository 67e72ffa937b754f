package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuditStorePostgres = "postgres"
	AuditStoreMongo    = "mongo"
)

type Config struct {
	DatabaseURL    string
	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	ServerPort     string
	ServerHost     string
	Environment    string

	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Networks allowed to set X-Forwarded-For / X-Real-IP
	TrustedProxies []string

	// Audit trail
	AuditStore        string
	AuditWriteTimeout time.Duration
	MongoURI          string
	MongoDatabase     string
	MongoCollection   string

	// Dashboard cache
	DashboardCacheEnabled bool
	DashboardCacheTTL     time.Duration

	MetricsEnabled bool

	// External adapters. Each falls back to a noop implementation when
	// its credentials are missing.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortCode      string
	MpesaPasskey        string
	MpesaCallbackURL    string

	ESignBaseURL string
	ESignAPIKey  string

	WhatsAppBaseURL       string
	WhatsAppToken         string
	WhatsAppPhoneNumberID string

	RecaptchaSecret   string
	RecaptchaMinScore float64
	RecaptchaAction   string

	ExternalHTTPTimeout time.Duration
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret    = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL     = errors.New("invalid token TTL format")
	ErrInvalidJWTAlgorithm = errors.New("invalid JWT algorithm")
	ErrInvalidAuditStore   = errors.New("AUDIT_STORE must be postgres or mongo")
	ErrMissingMongoURI     = errors.New("MONGO_URI is required when AUDIT_STORE=mongo")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALG", "HS256"),
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:   getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		Environment:  getEnvOrDefault("ENV", "development"),

		RedisURL:            getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:    getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitIPAttempts: getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 10),

		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),

		TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),

		AuditStore:        strings.ToLower(getEnvOrDefault("AUDIT_STORE", AuditStorePostgres)),
		AuditWriteTimeout: getEnvOrDefaultDuration("AUDIT_WRITE_TIMEOUT", 5*time.Second),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getEnvOrDefault("MONGO_DATABASE", "fleetcrm"),
		MongoCollection:   getEnvOrDefault("MONGO_AUDIT_COLLECTION", "audit_logs"),

		DashboardCacheEnabled: getEnvOrDefaultBool("DASHBOARD_CACHE_ENABLED", true),
		DashboardCacheTTL:     getEnvOrDefaultDuration("DASHBOARD_CACHE_TTL", 60*time.Second),

		MetricsEnabled: getEnvOrDefaultBool("METRICS_ENABLED", true),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvOrDefaultInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "bookings@fleetcrm.local"),

		MpesaBaseURL:        getEnvOrDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaShortCode:      os.Getenv("MPESA_SHORTCODE"),
		MpesaPasskey:        os.Getenv("MPESA_PASSKEY"),
		MpesaCallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),

		ESignBaseURL: os.Getenv("ESIGN_BASE_URL"),
		ESignAPIKey:  os.Getenv("ESIGN_API_KEY"),

		WhatsAppBaseURL:       getEnvOrDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppToken:         os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),

		RecaptchaSecret:   os.Getenv("RECAPTCHA_SECRET"),
		RecaptchaMinScore: getEnvOrDefaultFloat("RECAPTCHA_MIN_SCORE", 0.5),
		RecaptchaAction:   getEnvOrDefault("RECAPTCHA_ACTION", "booking"),

		ExternalHTTPTimeout: getEnvOrDefaultDuration("EXTERNAL_HTTP_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTAlgorithm != "HS256" {
		return nil, ErrInvalidJWTAlgorithm
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "28800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	ipWindow, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_IP_WINDOW", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitIPWindow = ipWindow

	blockDuration, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitBlockDuration = blockDuration

	switch cfg.AuditStore {
	case AuditStorePostgres:
	case AuditStoreMongo:
		if cfg.MongoURI == "" {
			return nil, ErrMissingMongoURI
		}
	default:
		return nil, ErrInvalidAuditStore
	}

	return cfg, nil
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}

func (c *Config) MpesaConfigured() bool {
	return c.MpesaConsumerKey != "" && c.MpesaConsumerSecret != "" && c.MpesaShortCode != "" && c.MpesaPasskey != ""
}

func (c *Config) ESignConfigured() bool {
	return c.ESignBaseURL != "" && c.ESignAPIKey != ""
}

func (c *Config) RecaptchaConfigured() bool {
	return c.RecaptchaSecret != ""
}

func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneNumberID != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvOrDefaultDuration accepts plain seconds ("30") or a Go duration ("1m30s")
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
