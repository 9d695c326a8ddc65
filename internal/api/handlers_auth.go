package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	birthDate, err := parseOptionalDate(input.BirthDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "birth_date must be a YYYY-MM-DD date")
	}

	user, err := handler.authService.Register(services.RegistrationInput{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		BirthDate:       birthDate,
		WeightKg:        input.WeightKg,
	}, handler.now())
	if err != nil {
		status, message := mapAuthError(err)
		if status >= fiber.StatusInternalServerError {
			return err
		}
		return apiError(c, status, message)
	}

	handler.audit(user.ID, models.EventUserRegistered, models.EventCategoryAuth, nil)

	token, err := handler.issueSession(c, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  newUserResponse(user, handler.today()),
		"token": token,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := clientKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := loginInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password, now)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.fail(limiterKey, now)
			handler.log.WithField("client", limiterKey).Info("login rejected")
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		if errors.Is(err, services.ErrAuthAccountInactive) {
			handler.log.WithField("client", limiterKey).Info("login rejected for deactivated account")
			return apiError(c, fiber.StatusForbidden, "account is deactivated")
		}
		return err
	}
	handler.loginLimiter.reset(limiterKey)
	handler.audit(user.ID, models.EventUserLogin, models.EventCategoryAuth, map[string]any{"login_count": user.LoginCount})

	token, err := handler.issueSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"user":  newUserResponse(user, handler.today()),
		"token": token,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if user, ok := currentUser(c); ok {
		handler.audit(user.ID, models.EventUserLogout, models.EventCategoryAuth, nil)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(newUserResponse(*user, handler.today()))
}

func mapAuthError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fiber.StatusBadRequest, "valid email and password are required"
	case errors.Is(err, services.ErrAuthPasswordMismatch):
		return fiber.StatusBadRequest, "passwords do not match"
	case errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest, "password must be at least 8 characters and include upper and lower case letters, a digit and a symbol"
	case errors.Is(err, services.ErrProfileBirthDateInFuture):
		return fiber.StatusBadRequest, "birth date cannot be in the future"
	case errors.Is(err, services.ErrAuthEmailExists):
		return fiber.StatusConflict, "email already registered"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
