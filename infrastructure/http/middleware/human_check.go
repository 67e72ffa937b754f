package middleware

import (
	"errors"
	"net/http"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/recaptcha"
)

const RecaptchaTokenHeader = "X-Recaptcha-Token"

// HumanCheck guards anonymous public forms. Requests already carrying staff
// claims skip verification, so it must run after OptionalAuth. Verifier
// outages fail open.
func HumanCheck(verifier inbound.BotVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil || !verifier.Enabled() || GetUserClaims(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			err := verifier.Verify(r.Context(), r.Header.Get(RecaptchaTokenHeader), ip)
			switch {
			case err == nil:
			case errors.Is(err, recaptcha.ErrVerifierUnavailable):
				log.Warn(r.Context(), "Human verification skipped, verifier unavailable", map[string]interface{}{
					"ip":   ip,
					"path": r.URL.Path,
				})
			default:
				logger.LogSecurityEvent(r.Context(), log, "human_check_failed", "LOW", map[string]interface{}{
					"ip":   ip,
					"path": r.URL.Path,
				})
				response.Forbidden(w, "Human verification failed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
