package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAuthEmailExists      = errors.New("email already registered")
	ErrAuthPasswordMismatch = errors.New("password mismatch")
	ErrAuthUserNotFound     = errors.New("user not found")
	ErrAuthAccountInactive  = errors.New("account deactivated")
)

type AuthUserRepository interface {
	CountUsers() (int64, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	RecordLogin(userID uint, at time.Time) error
}

type RegistrationInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	BirthDate       *time.Time
	WeightKg        *float64
}

type AuthService struct {
	users AuthUserRepository
	log   logrus.FieldLogger
}

func NewAuthService(users AuthUserRepository, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, log: log}
}

func (service *AuthService) Register(input RegistrationInput, now time.Time) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if password != strings.TrimSpace(input.ConfirmPassword) {
		return models.User{}, ErrAuthPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	if input.BirthDate != nil && CalendarDate(*input.BirthDate).After(CalendarDate(now)) {
		return models.User{}, ErrProfileBirthDateInFuture
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return models.User{}, ErrAuthEmailExists
	}

	// The first account administers the installation.
	usersCount, err := service.users.CountUsers()
	if err != nil {
		return models.User{}, fmt.Errorf("count users: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:               email,
		PasswordHash:        string(passwordHash),
		FirstName:           strings.TrimSpace(input.FirstName),
		LastName:            strings.TrimSpace(input.LastName),
		WeightKg:            input.WeightKg,
		TypicalCycleLength:  models.DefaultCycleLength,
		TypicalPeriodLength: models.DefaultPeriodLength,
		IsAdmin:             usersCount == 0,
		IsActive:            true,
		CreatedAt:           now.UTC(),
	}
	if input.BirthDate != nil {
		birthDate := CalendarDate(*input.BirthDate)
		user.BirthDate = &birthDate
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	service.log.WithFields(logrus.Fields{"user_id": user.ID, "admin": user.IsAdmin}).Info("user registered")
	return user, nil
}

// Authenticate verifies credentials and stamps the login. Unknown emails and
// wrong passwords both return ErrAuthCredentialsInvalid; a deactivated account
// with the right password returns ErrAuthAccountInactive.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string, now time.Time) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthCredentialsInvalid
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if !IsActiveUser(&user) {
		return models.User{}, ErrAuthAccountInactive
	}

	if err := service.users.RecordLogin(user.ID, now.UTC()); err != nil {
		service.log.WithError(err).WithField("user_id", user.ID).Warn("record login failed")
	} else {
		user.LoginCount++
		loginAt := now.UTC()
		user.LastLoginAt = &loginAt
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
