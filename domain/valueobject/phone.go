package valueobject

import (
	"strings"
	"unicode"
)

// NormalizePhone converts local Kenyan numbers to the 2547XXXXXXXX form
// expected by M-Pesa and WhatsApp. Other numbers keep their digits only.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return "254" + digits[1:]
	case len(digits) == 9 && (digits[0] == '7' || digits[0] == '1'):
		return "254" + digits
	}
	return digits
}

// IsValidPhone expects an already normalized number
func IsValidPhone(phone string) bool {
	if len(phone) < 10 || len(phone) > 15 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
