package outbound

import "context"

// EmailMessage is a single outbound email
type EmailMessage struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// ContractRequest asks the e-signature provider to send a rental agreement for signing
type ContractRequest struct {
	RentalID    string
	SignerName  string
	SignerEmail string
	Title       string
	Body        string
	RedirectURL string
}

type ContractResult struct {
	EnvelopeID string `json:"envelope_id"`
	Status     string `json:"status"`
}

type ContractSigner interface {
	SendForSignature(ctx context.Context, req ContractRequest) (*ContractResult, error)
}

type WhatsAppMessenger interface {
	SendText(ctx context.Context, phone, message string) (messageID string, err error)
}

// STKPushRequest prompts the customer's phone for an M-Pesa PIN
type STKPushRequest struct {
	Phone            string
	Amount           float64
	AccountReference string
	Description      string
}

type STKPushResult struct {
	MerchantRequestID string `json:"merchant_request_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

type PaymentGateway interface {
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResult, error)
}
