package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fleetcrm/fleetcrm/application/usecase"
	"github.com/fleetcrm/fleetcrm/application/usecase/user_management"
	domainerror "github.com/fleetcrm/fleetcrm/domain/error"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/response"
	"github.com/fleetcrm/fleetcrm/infrastructure/http/validator"
	pkgerror "github.com/fleetcrm/fleetcrm/pkg/error"
)

var errInvalidBody = pkgerror.NewBadRequest("Invalid request body")

var authErrors = []pkgerror.Mapping{
	{Target: usecase.ErrInvalidCredentials, Code: domainerror.ErrCodeInvalidCredentials},
	{Target: valueobject.ErrInvalidEmail, Code: domainerror.ErrCodeInvalidCredentials},
	{Target: valueobject.ErrPasswordTooShort, Code: domainerror.ErrCodeInvalidCredentials},
	{Target: usecase.ErrAccountInactive, Code: domainerror.ErrCodeAccountInactive},
	{Target: usecase.ErrUserNotFound, Code: domainerror.ErrCodeUserNotFound},
}

var userErrors = []pkgerror.Mapping{
	{Target: user_management.ErrUserNotFound, Code: domainerror.ErrCodeUserNotFound},
	{Target: user_management.ErrEmailAlreadyExists, Code: domainerror.ErrCodeDuplicateUser},
	{Target: user_management.ErrEmptyUserID, Code: domainerror.ErrCodeInvalidRequest},
	{Target: user_management.ErrInvalidName, Code: domainerror.ErrCodeInvalidField},
	{Target: user_management.ErrInvalidEmail, Code: domainerror.ErrCodeInvalidField},
	{Target: user_management.ErrInvalidPassword, Code: domainerror.ErrCodeInvalidField},
	{Target: user_management.ErrInvalidRole, Code: domainerror.ErrCodeInvalidField},
	{Target: user_management.ErrInvalidStatus, Code: domainerror.ErrCodeInvalidField},
	{Target: user_management.ErrLastAdmin, Code: domainerror.ErrCodeInvalidTransition},
}

var vehicleErrors = []pkgerror.Mapping{
	{Target: usecase.ErrVehicleNotFound, Code: domainerror.ErrCodeVehicleNotFound},
	{Target: usecase.ErrRegistrationTaken, Code: domainerror.ErrCodeDuplicateVehicle},
	{Target: usecase.ErrVehicleInUse, Code: domainerror.ErrCodeVehicleUnavailable},
	{Target: usecase.ErrInvalidRegistration, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidVehicleModel, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidVehicleYear, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidDailyRate, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidVehicleState, Code: domainerror.ErrCodeInvalidField},
}

var customerErrors = []pkgerror.Mapping{
	{Target: usecase.ErrCustomerNotFound, Code: domainerror.ErrCodeCustomerNotFound},
	{Target: usecase.ErrInvalidCustomerName, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidPhone, Code: domainerror.ErrCodeInvalidField},
	{Target: valueobject.ErrInvalidEmail, Code: domainerror.ErrCodeInvalidField},
}

var rentalErrors = append([]pkgerror.Mapping{
	{Target: usecase.ErrRentalNotFound, Code: domainerror.ErrCodeRentalNotFound},
	{Target: usecase.ErrVehicleNotFound, Code: domainerror.ErrCodeVehicleNotFound},
	{Target: usecase.ErrVehicleUnavailable, Code: domainerror.ErrCodeVehicleUnavailable},
	{Target: usecase.ErrInvalidRentalPeriod, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrMissingRentalDates, Code: domainerror.ErrCodeMissingField},
	{Target: usecase.ErrMissingCustomerInfo, Code: domainerror.ErrCodeMissingField},
	{Target: usecase.ErrDriverNotFound, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrInvalidTransition, Code: domainerror.ErrCodeInvalidTransition},
	{Target: usecase.ErrRentalClosed, Code: domainerror.ErrCodeInvalidTransition},
	{Target: usecase.ErrNotAssignedDriver, Code: domainerror.ErrCodeForbidden},
	{Target: usecase.ErrExternalService, Code: domainerror.ErrCodeExternalServiceError},
}, customerErrors...)

var paymentErrors = []pkgerror.Mapping{
	{Target: usecase.ErrPaymentNotFound, Code: domainerror.ErrCodePaymentNotFound},
	{Target: usecase.ErrRentalNotFound, Code: domainerror.ErrCodeRentalNotFound},
	{Target: usecase.ErrRentalCancelled, Code: domainerror.ErrCodeInvalidTransition},
	{Target: usecase.ErrInvalidPaymentAmount, Code: domainerror.ErrCodePaymentInvalid},
	{Target: usecase.ErrInvalidPaymentMethod, Code: domainerror.ErrCodePaymentInvalid},
	{Target: usecase.ErrInvalidPhone, Code: domainerror.ErrCodeInvalidField},
	{Target: usecase.ErrExternalService, Code: domainerror.ErrCodeExternalServiceError},
}

var auditErrors = []pkgerror.Mapping{
	{Target: usecase.ErrAuditRecordNotFound, Code: domainerror.ErrCodeAuditRecordNotFound},
	{Target: usecase.ErrInvalidAuditFilter, Code: domainerror.ErrCodeInvalidRequest},
}

func writeError(w http.ResponseWriter, err error, mappings []pkgerror.Mapping) {
	response.AppError(w, pkgerror.MapError(err, mappings...))
}

// decodeJSON reads a JSON object body. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errInvalidBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// queryDate parses an optional date query parameter
func queryDate(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	t, ok := validator.ParseDate(v)
	if !ok {
		return nil, pkgerror.New(domainerror.ErrCodeInvalidField, "Invalid date for "+key)
	}
	return &t, nil
}

// parseDateField parses a required body date
func parseDateField(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, pkgerror.New(domainerror.ErrCodeMissingField, name+" is required")
	}
	t, ok := validator.ParseDate(value)
	if !ok {
		return time.Time{}, pkgerror.New(domainerror.ErrCodeInvalidField, name+" must be YYYY-MM-DD or RFC3339")
	}
	return t, nil
}
