package handler

import (
	"net/http"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/validator"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

type PaymentHandler struct {
	paymentUseCase inbound.PaymentUseCase
	logger         logger.Logger
}

func NewPaymentHandler(paymentUseCase inbound.PaymentUseCase, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         log,
	}
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req inbound.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	if !validator.ValidateRequired(req.RentalID) {
		response.UnprocessableEntity(w, "rental_id is required")
		return
	}
	if !validator.ValidatePositiveAmount(req.Amount) {
		response.UnprocessableEntity(w, "Amount must be positive")
		return
	}

	payment, err := h.paymentUseCase.RecordPayment(r.Context(), req)
	if err != nil {
		writeError(w, err, paymentErrors)
		return
	}

	response.Success(w, http.StatusCreated, "Payment recorded successfully", payment)
}

func (h *PaymentHandler) InitiateSTKPush(w http.ResponseWriter, r *http.Request) {
	var req inbound.STKPushRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	if !validator.ValidateRequired(req.RentalID) || !validator.ValidateRequired(req.Phone) {
		response.UnprocessableEntity(w, "rental_id and phone are required")
		return
	}

	res, err := h.paymentUseCase.InitiateSTKPush(r.Context(), req)
	if err != nil {
		writeError(w, err, paymentErrors)
		return
	}

	response.Success(w, http.StatusAccepted, "STK push sent", res)
}

// MpesaCallback always acknowledges with ResultCode 0 so Daraja stops
// retrying. Failures are logged.
func (h *PaymentHandler) MpesaCallback(w http.ResponseWriter, r *http.Request) {
	var cb inbound.MpesaCallback
	if err := decodeJSON(r, &cb); err != nil {
		h.logger.Warn(r.Context(), "Malformed M-Pesa callback", nil)
	} else if err := h.paymentUseCase.HandleMpesaCallback(r.Context(), cb); err != nil {
		h.logger.Error(r.Context(), "Failed to process M-Pesa callback", err, map[string]interface{}{
			"checkout_request_id": cb.Body.StkCallback.CheckoutRequestID,
		})
	}

	response.WriteJSONRaw(w, http.StatusOK, map[string]interface{}{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
	})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	payments, err := h.paymentUseCase.ListPayments(r.Context(), inbound.ListPaymentsRequest{
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 10),
		RentalID: q.Get("rental_id"),
		Status:   q.Get("status"),
	})
	if err != nil {
		writeError(w, err, paymentErrors)
		return
	}

	response.Success(w, http.StatusOK, "success", payments)
}
