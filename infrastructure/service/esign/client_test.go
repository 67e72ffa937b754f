package esign

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logger.Logger {
	return logger.NewStructuredLogger(logger.LoggerConfig{Level: "error", Format: "text", ServiceName: "esign-test"})
}

func TestClient_SendForSignature(t *testing.T) {
	var got envelopeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, envelopesPath, r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(envelopeResponse{ID: "env-77", Status: "sent"})
	}))
	defer srv.Close()

	signer := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "api-key"}, testLogger())
	res, err := signer.SendForSignature(context.Background(), outbound.ContractRequest{
		RentalID:    "rent-1",
		SignerName:  "Jane Wanjiku",
		SignerEmail: "jane@example.com",
		Title:       "Rental agreement",
		Body:        "Terms",
	})

	require.NoError(t, err)
	assert.Equal(t, &outbound.ContractResult{EnvelopeID: "env-77", Status: "sent"}, res)
	assert.Equal(t, "rent-1", got.ExternalID)
	assert.Equal(t, []envelopeSigner{{Name: "Jane Wanjiku", Email: "jane@example.com"}}, got.Signers)
}

func TestClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(envelopeResponse{Error: "signer email invalid"})
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"}, testLogger()).
		SendForSignature(context.Background(), outbound.ContractRequest{RentalID: "rent-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer email invalid")
}

func TestNoopSigner(t *testing.T) {
	res, err := NewNoopSigner(testLogger()).SendForSignature(context.Background(), outbound.ContractRequest{RentalID: "rent-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusNotSent, res.Status)
	assert.True(t, strings.HasPrefix(res.EnvelopeID, "local-"))
}
