package whatsapp

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

// Config for the WhatsApp Cloud API
type Config struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
}

type cloudAPIClient struct {
	config     Config
	logger     logger.Logger
	httpClient *http.Client
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func NewCloudAPIClient(cfg Config, log logger.Logger) outbound.WhatsAppMessenger {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &cloudAPIClient{
		config:     cfg,
		logger:     log,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// SendText sends a plain text message and returns the provider's message id
func (c *cloudAPIClient) SendText(ctx context.Context, phone, message string) (string, error) {
	id, err := c.sendText(ctx, phone, message)
	metrics.ObserveExternalCall("whatsapp", err)
	return id, err
}

func (c *cloudAPIClient) sendText(ctx context.Context, phone, message string) (string, error) {
	msg := textMessage{MessagingProduct: "whatsapp", To: phone, Type: "text"}
	msg.Text.Body = message

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.config.BaseURL, "/"), c.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "WhatsApp request failed", err, map[string]interface{}{"to": phone})
		return "", fmt.Errorf("whatsapp unavailable: %w", err)
	}
	defer resp.Body.Close()

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode whatsapp response: %w", err)
	}

	if resp.StatusCode >= 400 || out.Error != nil {
		reason := http.StatusText(resp.StatusCode)
		if out.Error != nil {
			reason = out.Error.Message
		}
		c.logger.Warn(ctx, "WhatsApp message rejected", map[string]interface{}{
			"to":     phone,
			"status": resp.StatusCode,
			"reason": reason,
		})
		return "", fmt.Errorf("whatsapp rejected message: %s", reason)
	}
	if len(out.Messages) == 0 {
		return "", fmt.Errorf("whatsapp response carried no message id")
	}

	c.logger.Info(ctx, "WhatsApp message sent", map[string]interface{}{
		"to":         phone,
		"message_id": out.Messages[0].ID,
	})
	return out.Messages[0].ID, nil
}
