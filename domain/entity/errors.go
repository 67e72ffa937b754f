package entity

// DomainError represents a business rule violation
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

var (
	ErrVehicleNotFound      = NewDomainError("vehicle not found")
	ErrVehicleUnavailable   = NewDomainError("vehicle is not available")
	ErrRegistrationTaken    = NewDomainError("registration already exists")
	ErrCustomerNotFound     = NewDomainError("customer not found")
	ErrRentalNotFound       = NewDomainError("rental not found")
	ErrInvalidRentalPeriod  = NewDomainError("end date must not be before start date")
	ErrInvalidTransition    = NewDomainError("invalid rental status transition")
	ErrRentalClosed         = NewDomainError("rental is already closed")
	ErrPaymentNotFound      = NewDomainError("payment not found")
	ErrInvalidPaymentAmount = NewDomainError("payment amount must be positive")
	ErrInvalidPaymentMethod = NewDomainError("invalid payment method")
	ErrNotADriver           = NewDomainError("assignee is not an active driver")
)
