package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

// RateLimitPolicy bounds how often one client IP may hit a group of routes
type RateLimitPolicy struct {
	Name          string
	Limit         int
	Window        time.Duration
	BlockDuration time.Duration
}

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           log,
	}
}

// Limit applies policy per client IP. Limiter errors fail open.
func (m *RateLimitMiddleware) Limit(policy RateLimitPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.rateLimitService == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			clientIP := ClientIP(r)
			key := fmt.Sprintf("%s:ip:%s", policy.Name, clientIP)
			fields := map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"key":       key,
				"userAgent": r.UserAgent(),
			}

			blocked, err := m.rateLimitService.IsBlocked(ctx, key)
			if err != nil {
				m.logger.Error(ctx, "Failed to check block status", err, fields)
			}
			if blocked {
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", fields)
				tooManyRequests(w, policy.BlockDuration)
				return
			}

			allowed, err := m.rateLimitService.CheckLimit(ctx, key, policy.Limit, policy.Window)
			if err != nil {
				m.logger.Error(ctx, "Failed to check rate limit", err, fields)
				allowed = true
			}
			if !allowed {
				if err := m.rateLimitService.Block(ctx, key, policy.BlockDuration, "Rate limit exceeded"); err != nil {
					m.logger.Error(ctx, "Failed to block IP", err, fields)
				}
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", fields)
				tooManyRequests(w, policy.BlockDuration)
				return
			}

			if err := m.rateLimitService.Increment(ctx, key, policy.Window); err != nil {
				m.logger.Error(ctx, "Failed to increment rate limit", err, fields)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	response.TooManyRequests(w, "Too many requests. Please try again later.")
}
