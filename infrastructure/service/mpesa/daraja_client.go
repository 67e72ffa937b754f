package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/metrics"
)

const (
	oauthPath         = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath       = "/mpesa/stkpush/v1/processrequest"
	timestampLayout   = "20060102150405"
	transactionType   = "CustomerPayBillOnline"
	tokenExpiryMargin = time.Minute
)

var ErrSTKPushRejected = errors.New("stk push rejected")

// Config holds the Daraja credentials for one paybill shortcode
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

type darajaClient struct {
	config     Config
	logger     logger.Logger
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

func NewDarajaClient(cfg Config, log logger.Logger) outbound.PaymentGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &darajaClient{
		config:     cfg,
		logger:     log,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

func (c *darajaClient) InitiateSTKPush(ctx context.Context, req outbound.STKPushRequest) (*outbound.STKPushResult, error) {
	result, err := c.initiate(ctx, req)
	metrics.ObserveExternalCall("mpesa", err)
	return result, err
}

func (c *darajaClient) initiate(ctx context.Context, req outbound.STKPushRequest) (*outbound.STKPushResult, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format(timestampLayout)
	payload := stkPushPayload{
		BusinessShortCode: c.config.ShortCode,
		Password:          base64.StdEncoding.EncodeToString([]byte(c.config.ShortCode + c.config.Passkey + timestamp)),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            int64(math.Ceil(req.Amount)),
		PartyA:            req.Phone,
		PartyB:            c.config.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stk push: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(stkPushPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create stk push request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "M-Pesa STK push request failed", err, nil)
		return nil, fmt.Errorf("mpesa unavailable: %w", err)
	}
	defer resp.Body.Close()

	var result stkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode stk push response: %w", err)
	}

	fields := map[string]interface{}{
		"status":              resp.StatusCode,
		"checkout_request_id": result.CheckoutRequestID,
		"response_code":       result.ResponseCode,
		"account_reference":   req.AccountReference,
	}

	if resp.StatusCode >= 400 || result.ResponseCode != "0" {
		msg := result.ErrorMessage
		if msg == "" {
			msg = result.ResponseDescription
		}
		fields["error_code"] = result.ErrorCode
		c.logger.Warn(ctx, "M-Pesa STK push rejected", fields)
		return nil, fmt.Errorf("%w: %s", ErrSTKPushRejected, msg)
	}

	c.logger.Info(ctx, "M-Pesa STK push accepted", fields)
	return &outbound.STKPushResult{
		MerchantRequestID: result.MerchantRequestID,
		CheckoutRequestID: result.CheckoutRequestID,
		CustomerMessage:   result.CustomerMessage,
	}, nil
}

// token returns a cached OAuth token, fetching a new one shortly before expiry
func (c *darajaClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(oauthPath), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create oauth request: %w", err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "M-Pesa OAuth request failed", err, nil)
		return "", fmt.Errorf("mpesa oauth unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mpesa oauth failed with status %d", resp.StatusCode)
	}

	var out oauthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode oauth response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("mpesa oauth returned an empty token")
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	c.accessToken = out.AccessToken
	c.expiresAt = c.now().Add(ttl - tokenExpiryMargin)

	return c.accessToken, nil
}

func (c *darajaClient) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}
