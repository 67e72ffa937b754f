package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestStructuredLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "debug", Format: "json", ServiceName: "fleetcrm", Output: &buf})

	ctx := WithCorrelationID(context.Background(), "cid-42")
	log.WithFields(map[string]interface{}{"component": "test"}).Error(ctx, "boom", errors.New("disk full"), map[string]interface{}{"rental_id": "r-1"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "boom", line["msg"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "fleetcrm", line["service"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "cid-42", line["correlation_id"])
	assert.Equal(t, "disk full", line["error"])
	assert.Equal(t, "r-1", line["rental_id"])
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "warn", Format: "json", Output: &buf})

	log.Info(context.Background(), "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "shown", nil)
	assert.NotZero(t, buf.Len())
}

func TestLogAuditEvent(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "debug", Format: "json", Output: &buf})

	LogAuditEvent(context.Background(), log, "booking_created", "rental", "r-1", "u-1", errors.New("mongo timeout"), nil)

	line := decodeLine(t, &buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "audit", line["event_type"])
	assert.Equal(t, "booking_created", line["action"])
	assert.Equal(t, "mongo timeout", line["error"])
}
