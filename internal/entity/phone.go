package entity

import (
	"errors"
	"regexp"
	"strings"
)

const uaeCountryCode = "971"

var (
	ErrInvalidPhoneFormat = errors.New("phone must be a UAE mobile number in the format 971XXXXXXXXX")

	uaePhonePattern = regexp.MustCompile(`^971\d{9}$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// NormalizePhone rewrites raw input into the 12 digit 971XXXXXXXXX form
// where it can. Input it cannot recognize comes back as its cleaned digits
// and fails ValidatePhone.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")
	digits := nonDigits.ReplaceAllString(raw, "")

	switch {
	case plus && strings.HasPrefix(digits, uaeCountryCode):
		return digits
	case plus:
		// Explicit foreign prefix; never re-home it as a local number.
		return digits
	case strings.HasPrefix(digits, "00"+uaeCountryCode):
		return digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		return uaeCountryCode + digits[1:]
	case len(digits) == 9:
		return uaeCountryCode + digits
	}
	return digits
}

func ValidatePhone(phone string) error {
	if !uaePhonePattern.MatchString(phone) {
		return ErrInvalidPhoneFormat
	}
	return nil
}

// NormalizeAndValidatePhone is NormalizePhone followed by ValidatePhone.
func NormalizeAndValidatePhone(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if err := ValidatePhone(phone); err != nil {
		return "", err
	}
	return phone, nil
}
