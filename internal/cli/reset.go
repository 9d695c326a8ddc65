package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/db"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrResetEmailInvalid = errors.New("a valid email is required")

type resetUserRepository interface {
	FindByNormalizedEmail(email string) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
}

// RunResetPasswordCommand opens the database at dbPath and replaces the
// password of the account registered under email with a temporary one.
func RunResetPasswordCommand(dbPath string, email string, out io.Writer, log logrus.FieldLogger) error {
	database, err := db.OpenSQLite(dbPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	temporaryPassword, err := ResetPassword(db.NewUserRepository(database), email, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	log.WithField("email", services.NormalizeAuthEmail(email)).Info("password reset")

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

// ResetPassword issues a temporary password for the account registered under
// email.
func ResetPassword(users resetUserRepository, email string, cost int) (string, error) {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return "", ErrResetEmailInvalid
	}

	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user %s not found", normalizedEmail)
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	return services.IssueTemporaryPassword(users, user.ID, cost)
}
