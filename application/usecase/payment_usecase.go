package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
	"github.com/fleetcrm/fleetcrm/infrastructure/service/logger"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrRentalCancelled      = errors.New("rental is cancelled")
)

type PaymentUseCase struct {
	paymentRepo outbound.PaymentRepository
	rentalRepo  outbound.RentalRepository
	gateway     outbound.PaymentGateway
	logger      logger.Logger
}

func NewPaymentUseCase(
	paymentRepo outbound.PaymentRepository,
	rentalRepo outbound.RentalRepository,
	gateway outbound.PaymentGateway,
	log logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		paymentRepo: paymentRepo,
		rentalRepo:  rentalRepo,
		gateway:     gateway,
		logger:      log,
	}
}

func (uc *PaymentUseCase) RecordPayment(ctx context.Context, req inbound.RecordPaymentRequest) (*entity.Payment, error) {
	if _, err := uc.payableRental(ctx, req.RentalID); err != nil {
		return nil, err
	}

	payment, err := entity.NewReceivedPayment(uuid.New().String(), req.RentalID, req.Amount, entity.PaymentMethod(req.Method), req.Reference)
	if err != nil {
		return nil, mapPaymentDomainError(err)
	}

	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

func (uc *PaymentUseCase) InitiateSTKPush(ctx context.Context, req inbound.STKPushRequest) (*inbound.STKPushResponse, error) {
	rental, err := uc.payableRental(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}

	phone := valueobject.NormalizePhone(req.Phone)
	if !valueobject.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	amount := req.Amount
	if amount == 0 {
		amount = rental.TotalAmount
	}
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	// M-Pesa only accepts whole shillings
	amount = math.Ceil(amount)

	result, err := uc.gateway.InitiateSTKPush(ctx, outbound.STKPushRequest{
		Phone:            phone,
		Amount:           amount,
		AccountReference: shortID(rental.ID),
		Description:      "Car rental payment",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: initiate stk push: %v", ErrExternalService, err)
	}

	payment, err := entity.NewPendingMpesaPayment(uuid.New().String(), rental.ID, amount, phone, result.CheckoutRequestID)
	if err != nil {
		return nil, mapPaymentDomainError(err)
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record pending payment: %w", err)
	}

	return &inbound.STKPushResponse{
		Payment:         payment,
		CustomerMessage: result.CustomerMessage,
	}, nil
}

// HandleMpesaCallback settles the pending payment matching the checkout id.
// Callbacks for settled payments are ignored so retries from M-Pesa are harmless.
func (uc *PaymentUseCase) HandleMpesaCallback(ctx context.Context, cb inbound.MpesaCallback) error {
	stk := cb.Body.StkCallback
	if stk.CheckoutRequestID == "" {
		return ErrPaymentNotFound
	}

	payment, err := uc.paymentRepo.FindByCheckoutRequestID(ctx, stk.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, outbound.ErrPaymentNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to find payment: %w", err)
	}
	if payment.Status != entity.PaymentStatusPending {
		uc.logger.Warn(ctx, "Duplicate M-Pesa callback ignored", map[string]interface{}{
			"payment_id":          payment.ID,
			"checkout_request_id": stk.CheckoutRequestID,
		})
		return nil
	}

	payment.Settle(stk.ResultCode == 0, cb.Receipt())
	if err := uc.paymentRepo.Update(ctx, payment); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	uc.logger.Info(ctx, "M-Pesa payment settled", map[string]interface{}{
		"payment_id":  payment.ID,
		"rental_id":   payment.RentalID,
		"status":      payment.Status,
		"result_code": stk.ResultCode,
		"result_desc": stk.ResultDesc,
	})
	return nil
}

func (uc *PaymentUseCase) ListPayments(ctx context.Context, req inbound.ListPaymentsRequest) (*inbound.PaymentListResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	filter := entity.PaymentFilter{Limit: limit, Offset: offset}
	if req.RentalID != "" {
		filter.RentalID = &req.RentalID
	}
	if req.Status != "" {
		status := entity.PaymentStatus(req.Status)
		filter.Status = &status
	}

	payments, total, err := uc.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &inbound.PaymentListResponse{
		Payments:   payments,
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}, nil
}

func (uc *PaymentUseCase) payableRental(ctx context.Context, rentalID string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, outbound.ErrRentalNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to find rental: %w", err)
	}
	if rental.Status == entity.RentalStatusCancelled {
		return nil, ErrRentalCancelled
	}
	return rental, nil
}

func mapPaymentDomainError(err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalidPaymentAmount):
		return ErrInvalidPaymentAmount
	case errors.Is(err, entity.ErrInvalidPaymentMethod):
		return ErrInvalidPaymentMethod
	}
	return err
}
