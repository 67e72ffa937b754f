package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	})
	rr := httptest.NewRecorder()
	healthy.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	degraded := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
	})
	rr = httptest.NewRecorder()
	degraded.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, map[string]interface{}{"postgres": "up", "redis": "down"}, env.Data)
}
