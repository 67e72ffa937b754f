package error

import (
	"errors"

	domainerror "github.com/fleetcrm/fleetcrm/domain/error"
)

type AppError struct {
	Code    domainerror.ErrorCode `json:"code"`
	Message string                `json:"message"`
	Status  int                   `json:"status"`
	Cause   error                 `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code domainerror.ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: code.HTTPStatus()}
}

func NewBadRequest(message string) *AppError {
	return New(domainerror.ErrCodeInvalidRequest, message)
}

func NewUnauthorized(message string) *AppError {
	return New(domainerror.ErrCodeInvalidToken, message)
}

func NewForbidden(message string) *AppError {
	return New(domainerror.ErrCodeForbidden, message)
}

func NewUnprocessable(message string) *AppError {
	return New(domainerror.ErrCodeInvalidField, message)
}

func NewTooManyRequests(message string) *AppError {
	return New(domainerror.ErrCodeRateLimitExceeded, message)
}

func NewInternalServer(message string) *AppError {
	return New(domainerror.ErrCodeInternalServerError, message)
}

// Mapping ties a sentinel error to the code it is reported with
type Mapping struct {
	Target error
	Code   domainerror.ErrorCode
}

// MapError converts err into an AppError. An *AppError anywhere in the chain
// wins; otherwise the first mapping whose Target matches errors.Is is used and
// the sentinel's message is kept. Anything else is an internal error.
func MapError(err error, mappings ...Mapping) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return &AppError{
				Code:    m.Code,
				Message: capitalize(m.Target.Error()),
				Status:  m.Code.HTTPStatus(),
				Cause:   err,
			}
		}
	}

	return &AppError{
		Code:    domainerror.ErrCodeInternalServerError,
		Message: "An unexpected error occurred",
		Status:  domainerror.ErrCodeInternalServerError.HTTPStatus(),
		Cause:   err,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
