package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxAuditBody caps how much of a request body is buffered for the changes field
const maxAuditBody = 1 << 20

// AuditMiddleware records successful mutations made by authenticated users
type AuditMiddleware struct {
	trail  inbound.AuditTrail
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewAuditMiddleware(trail inbound.AuditTrail, log logger.Logger) *AuditMiddleware {
	return &AuditMiddleware{
		trail:  trail,
		logger: log,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Track wraps a route so that a qualifying request produces one audit record
// for action on entityType. The response is never altered.
func (m *AuditMiddleware) Track(action domain.AuditAction, entityType domain.AuditEntityType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := m.bufferBody(r)
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			m.afterResponse(r, rec.status, body, action, entityType)
		})
	}
}

// bufferBody reads at most maxAuditBody+1 bytes ahead of the handler and
// splices them back in front of the unread remainder. The returned slice is
// nil when the body is larger than maxAuditBody.
func (m *AuditMiddleware) bufferBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	prefix, err := io.ReadAll(io.LimitReader(r.Body, maxAuditBody+1))
	r.Body = splicedBody{Reader: io.MultiReader(bytes.NewReader(prefix), r.Body), Closer: r.Body}
	if err != nil {
		m.logger.Warn(r.Context(), "Failed to buffer request body for audit", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		return nil
	}
	if len(prefix) > maxAuditBody {
		return nil
	}
	return prefix
}

// splicedBody replays the buffered prefix and closes the original body
type splicedBody struct {
	io.Reader
	io.Closer
}

func (m *AuditMiddleware) afterResponse(r *http.Request, status int, rawBody []byte, action domain.AuditAction, entityType domain.AuditEntityType) {
	ctx := r.Context()
	defer func() {
		if p := recover(); p != nil {
			m.logger.Error(ctx, "Audit hook panicked", fmt.Errorf("%v", p), map[string]interface{}{
				"action": string(action),
				"path":   r.URL.Path,
			})
		}
	}()

	actor := ActorFromContext(ctx)
	if !domain.ShouldAudit(actor, status) {
		return
	}

	record := domain.NewAuditRecord(m.newID(), domain.AuditRequest{
		Action:     action,
		EntityType: entityType,
		Actor:      actor,
		RouteID:    mux.Vars(r)["id"],
		Body:       decodeAuditBody(rawBody),
		IPAddress:  ClientIP(r),
		UserAgent:  r.UserAgent(),
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: status,
	}, m.now())

	m.trail.Record(ctx, record)
}

// decodeAuditBody returns the JSON object sent by the client. Anything that
// is not a JSON object, or was too large to buffer, yields an empty map.
func decodeAuditBody(raw []byte) map[string]interface{} {
	if len(raw) == 0 || len(raw) > maxAuditBody {
		return map[string]interface{}{}
	}
	body, err := domain.DecodeChanges(raw)
	if err != nil {
		return map[string]interface{}{}
	}
	return body
}
