package services

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

const minPasswordLength = 8

// ValidatePasswordStrength requires at least eight characters mixing upper and
// lower case letters, a digit and a symbol.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSymbol := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSymbol = true
		}
	}

	if hasUpper && hasLower && hasDigit && hasSymbol {
		return nil
	}
	return ErrWeakPassword
}
