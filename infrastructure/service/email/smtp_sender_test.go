package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.NewStructuredLogger(logger.LoggerConfig{Level: "error", Format: "text", ServiceName: "email-test"})
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	raw := string(buildMessage("bookings@fleet.co.ke", outbound.EmailMessage{
		To:      "jane@example.com",
		Subject: "Booking confirmed\r\nBcc: evil@example.com",
		Body:    "Line one\nLine two",
	}, now))

	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Subject: Booking confirmed  Bcc: evil@example.com\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nLine one\r\nLine two"))
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.test", Port: 587, From: "bookings@fleet.co.ke"}, testLogger()).(*smtpSender)

	var gotFrom, gotTo string
	var gotMsg []byte
	sender.deliver = func(_ context.Context, from, to string, msg []byte) error {
		gotFrom, gotTo, gotMsg = from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), outbound.EmailMessage{To: "jane@example.com", Subject: "Hi", Body: "<p>Hi</p>", HTML: true})
	require.NoError(t, err)
	assert.Equal(t, "bookings@fleet.co.ke", gotFrom)
	assert.Equal(t, "jane@example.com", gotTo)
	assert.Contains(t, string(gotMsg), "text/html")

	sender.deliver = func(context.Context, string, string, []byte) error { return errors.New("relay down") }
	assert.Error(t, sender.Send(context.Background(), outbound.EmailMessage{To: "jane@example.com"}))
	assert.Error(t, sender.Send(context.Background(), outbound.EmailMessage{}))
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, NewNoopSender(testLogger()).Send(context.Background(), outbound.EmailMessage{To: "x@example.com"}))
}
