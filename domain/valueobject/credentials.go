package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

const MinPasswordLength = 8

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Credentials is a login attempt: a normalized email and a raw password.
type Credentials struct {
	email    string
	password string
}

// NewCredentials lower-cases and trims the email before checking it.
func NewCredentials(email, password string) (*Credentials, error) {
	normalized := NormalizeEmail(email)
	if err := ValidateEmail(normalized); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	return &Credentials{email: normalized, password: password}, nil
}

func (c *Credentials) Email() string    { return c.email }
func (c *Credentials) Password() string { return c.password }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
