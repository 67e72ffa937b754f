package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

func mpesaCallback(checkoutID string, resultCode int, receipt string) inbound.MpesaCallback {
	var cb inbound.MpesaCallback
	cb.Body.StkCallback.CheckoutRequestID = checkoutID
	cb.Body.StkCallback.ResultCode = resultCode
	if receipt != "" {
		cb.Body.StkCallback.CallbackMetadata.Item = []inbound.MpesaCallbackItem{
			{Name: "Amount", Value: 25500.0},
			{Name: "MpesaReceiptNumber", Value: receipt},
		}
	}
	return cb
}

func TestPaymentUseCase_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("cash payment is completed immediately", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		rentals := new(MockRentalRepository)
		rentals.On("FindByID", ctx, "rent-1").Return(pendingRental(), nil)
		payments.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil)

		uc := NewPaymentUseCase(payments, rentals, new(MockPaymentGateway), &testLogger{})
		p, err := uc.RecordPayment(ctx, inbound.RecordPaymentRequest{RentalID: "rent-1", Amount: 5000, Method: "cash"})
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusCompleted, p.Status)
		assert.NotNil(t, p.PaidAt)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		rentals := new(MockRentalRepository)
		rentals.On("FindByID", ctx, "rent-1").Return(pendingRental(), nil)

		uc := NewPaymentUseCase(new(MockPaymentRepository), rentals, new(MockPaymentGateway), &testLogger{})
		_, err := uc.RecordPayment(ctx, inbound.RecordPaymentRequest{RentalID: "rent-1", Amount: 5000, Method: "cheque"})
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("rejects cancelled rental", func(t *testing.T) {
		r := pendingRental()
		require.NoError(t, r.Cancel())
		rentals := new(MockRentalRepository)
		rentals.On("FindByID", ctx, "rent-1").Return(r, nil)

		uc := NewPaymentUseCase(new(MockPaymentRepository), rentals, new(MockPaymentGateway), &testLogger{})
		_, err := uc.RecordPayment(ctx, inbound.RecordPaymentRequest{RentalID: "rent-1", Amount: 5000, Method: "cash"})
		assert.ErrorIs(t, err, ErrRentalCancelled)
	})
}

func TestPaymentUseCase_STKPush(t *testing.T) {
	ctx := context.Background()
	payments := new(MockPaymentRepository)
	rentals := new(MockRentalRepository)
	gateway := new(MockPaymentGateway)

	rentals.On("FindByID", ctx, "rent-1").Return(pendingRental(), nil)
	gateway.On("InitiateSTKPush", ctx, outbound.STKPushRequest{
		Phone:            "254712345678",
		Amount:           25500,
		AccountReference: "RENT-1",
		Description:      "Car rental payment",
	}).Return(&outbound.STKPushResult{CheckoutRequestID: "ws_CO_1", CustomerMessage: "Success. Request accepted"}, nil)
	payments.On("Create", ctx, mock.AnythingOfType("*entity.Payment")).Return(nil)

	uc := NewPaymentUseCase(payments, rentals, gateway, &testLogger{})
	resp, err := uc.InitiateSTKPush(ctx, inbound.STKPushRequest{RentalID: "rent-1", Phone: "0712 345 678"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, resp.Payment.Status)
	assert.Equal(t, "ws_CO_1", resp.Payment.CheckoutRequestID)
	assert.Equal(t, entity.PaymentMethodMpesa, resp.Payment.Method)
	gateway.AssertExpectations(t)
}

func TestPaymentUseCase_HandleMpesaCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("success settles payment", func(t *testing.T) {
		pending, _ := entity.NewPendingMpesaPayment("pay-1", "rent-1", 25500, "254712345678", "ws_CO_1")
		payments := new(MockPaymentRepository)
		payments.On("FindByCheckoutRequestID", ctx, "ws_CO_1").Return(pending, nil)
		payments.On("Update", ctx, pending).Return(nil)

		uc := NewPaymentUseCase(payments, new(MockRentalRepository), new(MockPaymentGateway), &testLogger{})
		require.NoError(t, uc.HandleMpesaCallback(ctx, mpesaCallback("ws_CO_1", 0, "QKJ4ABC123")))
		assert.Equal(t, entity.PaymentStatusCompleted, pending.Status)
		assert.Equal(t, "QKJ4ABC123", pending.Reference)
	})

	t.Run("cancelled by user marks failed", func(t *testing.T) {
		pending, _ := entity.NewPendingMpesaPayment("pay-1", "rent-1", 25500, "254712345678", "ws_CO_2")
		payments := new(MockPaymentRepository)
		payments.On("FindByCheckoutRequestID", ctx, "ws_CO_2").Return(pending, nil)
		payments.On("Update", ctx, pending).Return(nil)

		uc := NewPaymentUseCase(payments, new(MockRentalRepository), new(MockPaymentGateway), &testLogger{})
		require.NoError(t, uc.HandleMpesaCallback(ctx, mpesaCallback("ws_CO_2", 1032, "")))
		assert.Equal(t, entity.PaymentStatusFailed, pending.Status)
	})

	t.Run("duplicate callback is ignored", func(t *testing.T) {
		settled, _ := entity.NewPendingMpesaPayment("pay-1", "rent-1", 25500, "254712345678", "ws_CO_3")
		settled.Settle(true, "QKJ4ABC123")
		payments := new(MockPaymentRepository)
		payments.On("FindByCheckoutRequestID", ctx, "ws_CO_3").Return(settled, nil)

		uc := NewPaymentUseCase(payments, new(MockRentalRepository), new(MockPaymentGateway), &testLogger{})
		require.NoError(t, uc.HandleMpesaCallback(ctx, mpesaCallback("ws_CO_3", 0, "OTHER")))
		assert.Equal(t, "QKJ4ABC123", settled.Reference)
		payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown checkout id", func(t *testing.T) {
		payments := new(MockPaymentRepository)
		payments.On("FindByCheckoutRequestID", ctx, "ws_CO_X").Return(nil, outbound.ErrPaymentNotFound)

		uc := NewPaymentUseCase(payments, new(MockRentalRepository), new(MockPaymentGateway), &testLogger{})
		assert.ErrorIs(t, uc.HandleMpesaCallback(ctx, mpesaCallback("ws_CO_X", 0, "")), ErrPaymentNotFound)
	})
}
