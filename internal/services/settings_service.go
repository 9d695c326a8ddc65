package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/fertitrack/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const maxProfileNameLength = 64

var (
	ErrProfileNameTooLong       = errors.New("profile name too long")
	ErrProfileBirthDateInFuture = errors.New("birth date in future")
	ErrProfileWeightOutOfRange  = errors.New("weight out of range")

	ErrPasswordChangeIncomplete = errors.New("password change fields required")
	ErrPasswordConfirmMismatch  = errors.New("password confirmation mismatch")
	ErrCurrentPasswordInvalid   = errors.New("current password invalid")
	ErrNewPasswordUnchanged     = errors.New("new password must differ")
)

type SettingsUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
}

type ProfileInput struct {
	FirstName string
	LastName  string
	BirthDate *time.Time
	WeightKg  *float64
}

type SettingsService struct {
	users SettingsUserRepository
}

func NewSettingsService(users SettingsUserRepository) *SettingsService {
	return &SettingsService{users: users}
}

func (service *SettingsService) UpdatePreferences(userID uint, preferences models.UserPreferences) (models.UserPreferences, error) {
	if err := ValidatePreferences(preferences); err != nil {
		return models.UserPreferences{}, err
	}
	if err := service.users.UpdateByID(userID, map[string]any{
		"typical_cycle_length":  preferences.TypicalCycleLength,
		"typical_period_length": preferences.TypicalPeriodLength,
	}); err != nil {
		return models.UserPreferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return preferences, nil
}

func (service *SettingsService) UpdateProfile(userID uint, input ProfileInput, today time.Time) (models.User, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if utf8.RuneCountInString(firstName) > maxProfileNameLength || utf8.RuneCountInString(lastName) > maxProfileNameLength {
		return models.User{}, ErrProfileNameTooLong
	}

	updates := map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
	}
	if input.BirthDate != nil {
		birthDate := CalendarDate(*input.BirthDate)
		if birthDate.After(CalendarDate(today)) {
			return models.User{}, ErrProfileBirthDateInFuture
		}
		updates["birth_date"] = birthDate
	}
	if input.WeightKg != nil {
		if *input.WeightKg <= 0 || *input.WeightKg > 500 {
			return models.User{}, ErrProfileWeightOutOfRange
		}
		updates["weight_kg"] = *input.WeightKg
	}

	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, fmt.Errorf("save profile: %w", err)
	}
	return service.users.FindByID(userID)
}

// CalculateAge returns completed years between birthDate and today.
func CalculateAge(birthDate time.Time, today time.Time) int {
	birth := CalendarDate(birthDate)
	current := CalendarDate(today)
	age := current.Year() - birth.Year()
	if current.Month() < birth.Month() || (current.Month() == birth.Month() && current.Day() < birth.Day()) {
		age--
	}
	return age
}

func (service *SettingsService) ChangePassword(user models.User, currentPassword string, newPassword string, confirmPassword string) error {
	current := strings.TrimSpace(currentPassword)
	next := strings.TrimSpace(newPassword)
	switch {
	case current == "" || next == "" || strings.TrimSpace(confirmPassword) == "":
		return ErrPasswordChangeIncomplete
	case next != strings.TrimSpace(confirmPassword):
		return ErrPasswordConfirmMismatch
	case bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil:
		return ErrCurrentPasswordInvalid
	case current == next:
		return ErrNewPasswordUnchanged
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdateByID(user.ID, map[string]any{
		"password_hash":        string(passwordHash),
		"must_change_password": false,
	})
}
