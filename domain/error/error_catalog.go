package error

import "net/http"

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeUserNotFound       ErrorCode = "AUTH_1002"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1003"
	ErrCodeAccountInactive    ErrorCode = "AUTH_1004"
	ErrCodeForbidden          ErrorCode = "AUTH_1005"

	// Validation Errors (2xxx)
	ErrCodeInvalidRequest ErrorCode = "VALID_2001"
	ErrCodeInvalidField   ErrorCode = "VALID_2002"
	ErrCodeMissingField   ErrorCode = "VALID_2003"

	// Fleet Errors (3xxx)
	ErrCodeVehicleNotFound    ErrorCode = "FLEET_3001"
	ErrCodeVehicleUnavailable ErrorCode = "FLEET_3002"
	ErrCodeDuplicateVehicle   ErrorCode = "FLEET_3003"
	ErrCodeCustomerNotFound   ErrorCode = "FLEET_3004"
	ErrCodeRentalNotFound     ErrorCode = "FLEET_3005"
	ErrCodeInvalidTransition  ErrorCode = "FLEET_3006"
	ErrCodeDuplicateUser      ErrorCode = "FLEET_3007"

	// Payment Errors (4xxx)
	ErrCodePaymentNotFound ErrorCode = "PAY_4001"
	ErrCodePaymentInvalid  ErrorCode = "PAY_4002"

	// Rate Limiting Errors (5xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_5001"

	// Server Errors (6xxx)
	ErrCodeInternalServerError  ErrorCode = "SERVER_6001"
	ErrCodeExternalServiceError ErrorCode = "SERVER_6002"

	// Audit Errors (7xxx)
	ErrCodeAuditRecordNotFound ErrorCode = "AUDIT_7001"
)

var statusByCode = map[ErrorCode]int{
	ErrCodeInvalidCredentials:   http.StatusUnauthorized,
	ErrCodeUserNotFound:         http.StatusNotFound,
	ErrCodeInvalidToken:         http.StatusUnauthorized,
	ErrCodeAccountInactive:      http.StatusForbidden,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeInvalidRequest:       http.StatusBadRequest,
	ErrCodeInvalidField:         http.StatusUnprocessableEntity,
	ErrCodeMissingField:         http.StatusUnprocessableEntity,
	ErrCodeVehicleNotFound:      http.StatusNotFound,
	ErrCodeVehicleUnavailable:   http.StatusConflict,
	ErrCodeDuplicateVehicle:     http.StatusConflict,
	ErrCodeCustomerNotFound:     http.StatusNotFound,
	ErrCodeRentalNotFound:       http.StatusNotFound,
	ErrCodeInvalidTransition:    http.StatusConflict,
	ErrCodeDuplicateUser:        http.StatusConflict,
	ErrCodePaymentNotFound:      http.StatusNotFound,
	ErrCodePaymentInvalid:       http.StatusUnprocessableEntity,
	ErrCodeRateLimitExceeded:    http.StatusTooManyRequests,
	ErrCodeInternalServerError:  http.StatusInternalServerError,
	ErrCodeExternalServiceError: http.StatusBadGateway,
	ErrCodeAuditRecordNotFound:  http.StatusNotFound,
}

// HTTPStatus returns the status code a response carrying this code should use
func (c ErrorCode) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
