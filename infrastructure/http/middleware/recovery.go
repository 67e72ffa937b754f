package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

// RecoveryMiddleware turns handler panics into a 500 response
func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					log.Error(r.Context(), "Panic while handling request", fmt.Errorf("%v", p), map[string]interface{}{
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(debug.Stack()),
					})
					response.InternalServerError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogMiddleware logs one line per request
func RequestLogMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.LogPerformance(r.Context(), log, r.Method+" "+r.URL.Path, time.Since(start), map[string]interface{}{
				"status":     rec.status,
				"ip":         ClientIP(r),
				"user_agent": r.UserAgent(),
			})
		})
	}
}
