package services

import (
	"fmt"

	"github.com/terraincognita07/fertitrack/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordLength = 16

type PasswordResetRepository interface {
	UpdateByID(userID uint, updates map[string]any) error
}

// IssueTemporaryPassword stores a fresh temporary password for userID, flags
// the account for a forced password change and returns the plaintext. Existing
// sessions stop validating because the password hash changes.
func IssueTemporaryPassword(users PasswordResetRepository, userID uint, cost int) (string, error) {
	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash temporary password: %w", err)
	}

	if err := users.UpdateByID(userID, map[string]any{
		"password_hash":        string(passwordHash),
		"must_change_password": true,
	}); err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return temporaryPassword, nil
}
