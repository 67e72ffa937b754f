package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

type authContextKey struct{}

type AuthMiddleware struct {
	tokenService outbound.TokenService
	logger       logger.Logger
}

func NewAuthMiddleware(tokenService outbound.TokenService, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		logger:       log,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			logger.LogSecurityEvent(r.Context(), m.logger, "invalid_token", "MEDIUM", map[string]interface{}{
				"path": r.URL.Path,
				"ip":   ClientIP(r),
			})
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is sent and otherwise lets
// the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole authenticates the request and checks the caller's role
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserClaims(r.Context())
			if _, ok := allowed[claims.Role]; !ok {
				logger.LogSecurityEvent(r.Context(), m.logger, "forbidden_role", "MEDIUM", map[string]interface{}{
					"path":    r.URL.Path,
					"user_id": claims.UserID,
					"role":    claims.Role,
				})
				response.Forbidden(w, "You do not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithClaims stores the authenticated user's claims in ctx
func WithClaims(ctx context.Context, claims *outbound.TokenClaims) context.Context {
	return context.WithValue(ctx, authContextKey{}, claims)
}

// GetUserClaims retrieves user claims from context
func GetUserClaims(ctx context.Context) *outbound.TokenClaims {
	if claims, ok := ctx.Value(authContextKey{}).(*outbound.TokenClaims); ok {
		return claims
	}
	return nil
}

// ActorFromContext returns the audit actor for an authenticated request, or nil
func ActorFromContext(ctx context.Context) *domain.AuditActor {
	claims := GetUserClaims(ctx)
	if claims == nil || claims.UserID == "" {
		return nil
	}
	return &domain.AuditActor{
		ID:   claims.UserID,
		Role: claims.Role,
		Name: claims.Name,
	}
}
