package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}

	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func ValidateMinLength(value string, min int) bool {
	return len(value) >= min
}

// ValidateOneOf reports whether value is one of allowed
func ValidateOneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func ValidateUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func ValidatePositiveAmount(amount float64) bool {
	return amount > 0
}

// ValidateDateRange requires both dates and end after start
func ValidateDateRange(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return end.After(start)
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func ValidateJWT(token string) bool {
	if token == "" {
		return false
	}

	// header.payload.signature
	parts := strings.Split(token, ".")
	return len(parts) == 3
}
