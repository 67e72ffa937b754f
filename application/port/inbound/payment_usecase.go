package inbound

import (
	"context"

	"github.com/fleetcrm/fleetcrm/domain/entity"
)

type RecordPaymentRequest struct {
	RentalID  string  `json:"rental_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference,omitempty"`
}

// STKPushRequest charges the rental total when Amount is zero
type STKPushRequest struct {
	RentalID string  `json:"rental_id"`
	Phone    string  `json:"phone"`
	Amount   float64 `json:"amount,omitempty"`
}

type STKPushResponse struct {
	Payment         *entity.Payment `json:"payment"`
	CustomerMessage string          `json:"customer_message"`
}

// MpesaCallback is the Daraja STK callback payload
type MpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []MpesaCallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type MpesaCallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// Receipt returns the MpesaReceiptNumber item, if any
func (c MpesaCallback) Receipt() string {
	for _, item := range c.Body.StkCallback.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

type ListPaymentsRequest struct {
	Page     int
	Limit    int
	RentalID string
	Status   string
}

type PaymentListResponse struct {
	Payments   []*entity.Payment `json:"payments"`
	Pagination PaginationInfo    `json:"pagination"`
}

type PaymentUseCase interface {
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*entity.Payment, error)
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
	HandleMpesaCallback(ctx context.Context, cb MpesaCallback) error
	ListPayments(ctx context.Context, req ListPaymentsRequest) (*PaymentListResponse, error)
}
