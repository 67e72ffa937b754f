package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/metrics"
)

const envelopesPath = "/v1/envelopes"

// Config points the client at an e-signature provider's envelope API
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type client struct {
	config     Config
	logger     logger.Logger
	httpClient *http.Client
}

type envelopeSigner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type envelopeRequest struct {
	ExternalID  string           `json:"external_id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Signers     []envelopeSigner `json:"signers"`
	RedirectURL string           `json:"redirect_url,omitempty"`
}

type envelopeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func NewClient(cfg Config, log logger.Logger) outbound.ContractSigner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &client{
		config:     cfg,
		logger:     log,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// SendForSignature creates an envelope addressed to the signer
func (c *client) SendForSignature(ctx context.Context, req outbound.ContractRequest) (*outbound.ContractResult, error) {
	result, err := c.send(ctx, req)
	metrics.ObserveExternalCall("esign", err)
	return result, err
}

func (c *client) send(ctx context.Context, req outbound.ContractRequest) (*outbound.ContractResult, error) {
	body, err := json.Marshal(envelopeRequest{
		ExternalID:  req.RentalID,
		Title:       req.Title,
		Content:     req.Body,
		Signers:     []envelopeSigner{{Name: req.SignerName, Email: req.SignerEmail}},
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+envelopesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "E-signature request failed", err, map[string]interface{}{"rental_id": req.RentalID})
		return nil, fmt.Errorf("e-signature service unavailable: %w", err)
	}
	defer resp.Body.Close()

	var out envelopeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode envelope response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("e-signature provider returned %d: %s", resp.StatusCode, out.Error)
	}

	c.logger.Info(ctx, "Contract sent for signature", map[string]interface{}{
		"rental_id":   req.RentalID,
		"envelope_id": out.ID,
		"status":      out.Status,
	})

	return &outbound.ContractResult{EnvelopeID: out.ID, Status: out.Status}, nil
}
