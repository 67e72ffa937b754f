package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/audit"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, map[string]interface{})         {}
func (nopLogger) Warn(context.Context, string, map[string]interface{})         {}
func (nopLogger) Debug(context.Context, string, map[string]interface{})        {}
func (nopLogger) Error(context.Context, string, error, map[string]interface{}) {}
func (l nopLogger) WithFields(map[string]interface{}) logger.Logger            { return l }

// collectingTrail stores records synchronously
type collectingTrail struct {
	mu      sync.Mutex
	records []*domain.AuditRecord
}

func (c *collectingTrail) Record(_ context.Context, rec *domain.AuditRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

func (c *collectingTrail) all() []*domain.AuditRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.AuditRecord(nil), c.records...)
}

type panickingTrail struct{}

func (panickingTrail) Record(context.Context, *domain.AuditRecord) { panic("boom") }

// failingRepo simulates an unreachable audit store
type failingRepo struct {
	delay time.Duration
	calls sync.WaitGroup
}

func (f *failingRepo) Insert(ctx context.Context, _ *domain.AuditRecord) error {
	defer f.calls.Done()
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}
	return errors.New("audit store unavailable")
}

func (f *failingRepo) FindByID(context.Context, string) (*domain.AuditRecord, error) {
	return nil, outbound.ErrAuditRecordNotFound
}

func (f *failingRepo) List(context.Context, domain.AuditFilter) ([]*domain.AuditRecord, int, error) {
	return nil, 0, nil
}

// withActor plays the part of the auth middleware using test headers
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Test-User"); id != "" {
			r = r.WithContext(WithClaims(r.Context(), &outbound.TokenClaims{
				UserID: id,
				Role:   r.Header.Get("X-Test-Role"),
				Name:   "User " + id,
			}))
		}
		next.ServeHTTP(w, r)
	})
}

// echoHandler reads the full body and echoes its length with the given status
func echoHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"success":%t,"received":%d}`, status < 400, len(raw))
	}
}

func newAuditRouter(trail *AuditMiddleware, status int) *mux.Router {
	r := mux.NewRouter()
	r.Use(withActor)
	r.Handle("/api/rentals", trail.Track(domain.ActionBookingCreated, domain.EntityRental)(echoHandler(status))).Methods(http.MethodPost)
	r.Handle("/api/rentals/{id}/cancel", trail.Track(domain.ActionBookingCancelled, domain.EntityRental)(echoHandler(status))).Methods(http.MethodPost)
	r.Handle("/api/vehicles", trail.Track(domain.ActionVehicleCreated, domain.EntityVehicle)(echoHandler(status))).Methods(http.MethodPost)
	return r
}

func newTestAuditMiddleware(trail inbound.AuditTrail) *AuditMiddleware {
	m := NewAuditMiddleware(trail, nopLogger{})
	m.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	return m
}

func postJSON(path, body, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "fleet-portal/1.0")
	req.RemoteAddr = "10.1.2.3:55123"
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
		req.Header.Set("X-Test-Role", "director")
	}
	return req
}

func TestTrack_QualifyingRequestProducesOneRecord(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusCreated)

	body := `{"vehicle_id":"veh-9","customer_id":"cus-1","notes":"airport"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postJSON("/api/rentals", body, "user-1"))

	require.Equal(t, http.StatusCreated, rr.Code)
	records := trail.all()
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.ActionBookingCreated, rec.Action)
	assert.Equal(t, domain.EntityRental, rec.EntityType)
	assert.Equal(t, "veh-9", rec.EntityID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "director", rec.UserRole)
	assert.Equal(t, "User user-1", rec.UserName)
	assert.Equal(t, "10.1.2.3", rec.IPAddress)
	assert.Equal(t, "fleet-portal/1.0", rec.UserAgent)
	assert.Equal(t, map[string]interface{}{"vehicle_id": "veh-9", "customer_id": "cus-1", "notes": "airport"}, rec.Changes)
	assert.Equal(t, domain.AuditMetadata{Method: http.MethodPost, Path: "/api/rentals", StatusCode: http.StatusCreated}, rec.Metadata)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC), rec.Timestamp)
	assert.NotEmpty(t, rec.ID)
}

func TestTrack_HandlerReadsFullBody(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusCreated)

	body := `{"vehicle_id":"veh-1","notes":"` + strings.Repeat("x", 4096) + `"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postJSON("/api/rentals", body, "user-1"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, float64(len(body)), got["received"])
}

func TestTrack_NoActorProducesNoRecord(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusCreated)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postJSON("/api/rentals", `{"vehicle_id":"veh-1"}`, ""))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, trail.all())
}

func TestTrack_ErrorStatusProducesNoRecord(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			trail := &collectingTrail{}
			router := newAuditRouter(newTestAuditMiddleware(trail), status)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, postJSON("/api/rentals", `{"vehicle_id":"veh-1"}`, "user-1"))

			assert.Equal(t, status, rr.Code)
			assert.Empty(t, trail.all())
		})
	}
}

func TestTrack_ImplicitOKIsAudited(t *testing.T) {
	trail := &collectingTrail{}
	m := newTestAuditMiddleware(trail)
	r := mux.NewRouter()
	r.Use(withActor)
	r.Handle("/api/vehicles", m.Track(domain.ActionVehicleCreated, domain.EntityVehicle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, postJSON("/api/vehicles", `{"id":"veh-3"}`, "user-1"))

	records := trail.all()
	require.Len(t, records, 1)
	assert.Equal(t, http.StatusOK, records[0].Metadata.StatusCode)
	assert.Equal(t, "veh-3", records[0].EntityID)
}

func TestTrack_RouteIDBeatsBodyRentalID(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusOK)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postJSON("/api/rentals/rent-route/cancel", `{"rental_id":"rent-body","reason":"no show"}`, "user-1"))

	records := trail.all()
	require.Len(t, records, 1)
	assert.Equal(t, "rent-route", records[0].EntityID)
	assert.Equal(t, "rent-body", records[0].Changes["rental_id"])
}

func TestTrack_NoIdentifierFallsBackToSentinel(t *testing.T) {
	cases := map[string]string{
		"no id keys": `{"make":"Toyota","model":"Prado"}`,
		"empty body": ``,
		"not json":   `registration=KDA123A`,
		"json array": `[{"id":"veh-1"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			trail := &collectingTrail{}
			router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusCreated)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, postJSON("/api/vehicles", body, "user-1"))

			records := trail.all()
			require.Len(t, records, 1)
			assert.Equal(t, domain.EntityIDUnknown, records[0].EntityID)
			assert.NotNil(t, records[0].Changes)
		})
	}
}

func TestTrack_StoreOutageDoesNotAffectResponse(t *testing.T) {
	body := `{"vehicle_id":"veh-1"}`

	baseline := httptest.NewRecorder()
	newAuditRouter(newTestAuditMiddleware(&collectingTrail{}), http.StatusCreated).
		ServeHTTP(baseline, postJSON("/api/rentals", body, "user-1"))

	repo := &failingRepo{delay: 200 * time.Millisecond}
	repo.calls.Add(1)
	recorder := audit.NewRecorder(repo, nopLogger{}, time.Second)
	router := newAuditRouter(newTestAuditMiddleware(recorder), http.StatusCreated)

	rr := httptest.NewRecorder()
	start := time.Now()
	router.ServeHTTP(rr, postJSON("/api/rentals", body, "user-1"))
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 100*time.Millisecond)
	assert.Equal(t, baseline.Code, rr.Code)
	assert.Equal(t, baseline.Body.String(), rr.Body.String())

	repo.calls.Wait()
	require.NoError(t, recorder.Close(context.Background()))
}

func TestTrack_PanickingTrailIsContained(t *testing.T) {
	router := newAuditRouter(newTestAuditMiddleware(panickingTrail{}), http.StatusCreated)

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(rr, postJSON("/api/rentals", `{"vehicle_id":"veh-1"}`, "user-1"))
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestTrack_ConcurrentActorsAreAttributedIndependently(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusOK)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			rental := fmt.Sprintf("rent-%d", i)
			body := fmt.Sprintf(`{"reason":"by %s"}`, user)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, postJSON("/api/rentals/"+rental+"/cancel", body, user))
		}(i)
	}
	wg.Wait()

	records := trail.all()
	require.Len(t, records, n)
	seen := make(map[string]bool, n)
	for _, rec := range records {
		var i int
		_, err := fmt.Sscanf(rec.UserID, "user-%d", &i)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("rent-%d", i), rec.EntityID)
		assert.Equal(t, "by "+rec.UserID, rec.Changes["reason"])
		assert.False(t, seen[rec.ID], "duplicate audit id")
		seen[rec.ID] = true
	}
}

func TestTrack_LargeIntegersAreKeptExact(t *testing.T) {
	trail := &collectingTrail{}
	router := newAuditRouter(newTestAuditMiddleware(trail), http.StatusCreated)

	body := `{"vehicle_id": 9007199254740993, "id_number": 12345678901234567}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, postJSON("/api/rentals", body, "user-1"))

	records := trail.all()
	require.Len(t, records, 1)
	assert.Equal(t, "9007199254740993", records[0].EntityID)
	assert.Equal(t, json.Number("12345678901234567"), records[0].Changes["id_number"])

	stored, err := json.Marshal(records[0].Changes)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(stored))
}

// countingBody streams size bytes of filler and counts what has been read
type countingBody struct {
	size, read int
}

func (c *countingBody) Read(p []byte) (int, error) {
	if c.read >= c.size {
		return 0, io.EOF
	}
	n := len(p)
	if rest := c.size - c.read; n > rest {
		n = rest
	}
	for i := range p[:n] {
		p[i] = 'a'
	}
	c.read += n
	return n, nil
}

func (c *countingBody) Close() error { return nil }

func TestTrack_BuffersAtMostTheCapBeforeHandler(t *testing.T) {
	trail := &collectingTrail{}
	m := newTestAuditMiddleware(trail)

	src := &countingBody{size: 64 << 20}
	var readBeforeHandler, handlerSaw int
	handler := m.Track(domain.ActionBookingCreated, domain.EntityRental)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		readBeforeHandler = src.read
		n, _ := io.Copy(io.Discard, r.Body)
		handlerSaw = int(n)
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/request", nil)
	req.Body = src
	req = req.WithContext(WithClaims(req.Context(), &outbound.TokenClaims{UserID: "user-1", Role: "director"}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.LessOrEqual(t, readBeforeHandler, maxAuditBody+1)
	assert.Equal(t, src.size, handlerSaw)

	records := trail.all()
	require.Len(t, records, 1)
	assert.Equal(t, map[string]interface{}{}, records[0].Changes)
	assert.Equal(t, domain.EntityIDUnknown, records[0].EntityID)
}

func TestDecodeAuditBody(t *testing.T) {
	assert.Equal(t, map[string]interface{}{}, decodeAuditBody(nil))
	assert.Equal(t, map[string]interface{}{}, decodeAuditBody([]byte("null")))
	assert.Equal(t, map[string]interface{}{"id": "x"}, decodeAuditBody([]byte(`{"id":"x"}`)))
	assert.Equal(t, map[string]interface{}{}, decodeAuditBody(bytes.Repeat([]byte("a"), maxAuditBody+1)))
}
