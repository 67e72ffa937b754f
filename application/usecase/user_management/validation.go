package user_management

import (
	"errors"
	"strings"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
)

var (
	ErrInvalidName        = errors.New("name must be between 2 and 255 characters")
	ErrInvalidEmail       = errors.New("email address is malformed")
	ErrInvalidPassword    = errors.New("password needs at least 8 characters")
	ErrInvalidRole        = errors.New("role must be one of admin, director, driver, owner")
	ErrInvalidStatus      = errors.New("status must be active or inactive")
	ErrEmailAlreadyExists = errors.New("a staff account already uses this email")
	ErrUserNotFound       = errors.New("staff account not found")
	ErrEmptyUserID        = errors.New("staff id is required")
	// ErrLastAdmin blocks removing, demoting or deactivating the only active admin.
	ErrLastAdmin = errors.New("at least one active admin must remain")
)

func checkName(name string) error {
	if n := len(strings.TrimSpace(name)); n < 2 || n > 255 {
		return ErrInvalidName
	}
	return nil
}

func checkStatus(status string) error {
	if status != entity.UserStatusActive && status != entity.UserStatusInactive {
		return ErrInvalidStatus
	}
	return nil
}

func checkRole(role string) error {
	if !entity.IsValidRole(role) {
		return ErrInvalidRole
	}
	return nil
}

func validateNewStaff(req inbound.CreateUserRequest) error {
	if err := checkName(req.Name); err != nil {
		return err
	}
	if valueobject.ValidateEmail(req.Email) != nil {
		return ErrInvalidEmail
	}
	if len(req.Password) < valueobject.MinPasswordLength {
		return ErrInvalidPassword
	}
	if err := checkRole(req.Role); err != nil {
		return err
	}
	return checkStatus(req.Status)
}

// validateStaffPatch checks only the fields present in the patch.
func validateStaffPatch(req inbound.UpdateUserRequest) error {
	if req.Name != "" {
		if err := checkName(req.Name); err != nil {
			return err
		}
	}
	if req.Role != "" {
		if err := checkRole(req.Role); err != nil {
			return err
		}
	}
	if req.Status != "" {
		return checkStatus(req.Status)
	}
	return nil
}
