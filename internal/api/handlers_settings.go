package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"profile":     newUserResponse(*user, handler.today()),
		"preferences": user.Preferences(),
	})
}

func (handler *Handler) UpdatePreferences(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := preferencesInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	preferences, err := handler.settingsService.UpdatePreferences(user.ID, models.UserPreferences{
		TypicalCycleLength:  input.TypicalCycleLength,
		TypicalPeriodLength: input.TypicalPeriodLength,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPreferences) {
			return apiError(c, fiber.StatusBadRequest, "cycle length must be 15-45 days and period length 1-10 days")
		}
		return err
	}
	handler.audit(user.ID, models.EventPreferencesUpdated, models.EventCategoryProfile, map[string]any{
		"typical_cycle_length":  preferences.TypicalCycleLength,
		"typical_period_length": preferences.TypicalPeriodLength,
	})
	return c.JSON(preferences)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := profileInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	birthDate, err := parseOptionalDate(input.BirthDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "birth_date must be a YYYY-MM-DD date")
	}

	today := handler.today()
	updated, err := handler.settingsService.UpdateProfile(user.ID, services.ProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BirthDate: birthDate,
		WeightKg:  input.WeightKg,
	}, today)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNameTooLong):
			return apiError(c, fiber.StatusBadRequest, "name is too long")
		case errors.Is(err, services.ErrProfileBirthDateInFuture):
			return apiError(c, fiber.StatusBadRequest, "birth date cannot be in the future")
		case errors.Is(err, services.ErrProfileWeightOutOfRange):
			return apiError(c, fiber.StatusBadRequest, "weight is out of range")
		default:
			return err
		}
	}
	handler.audit(user.ID, models.EventProfileUpdated, models.EventCategoryProfile, nil)
	return c.JSON(newUserResponse(updated, today))
}

// ChangePassword stays reachable for accounts flagged with a temporary
// password. Success reissues the session under the new password state.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := changePasswordInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	err := handler.settingsService.ChangePassword(*user, input.CurrentPassword, input.NewPassword, input.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordChangeIncomplete):
			return apiError(c, fiber.StatusBadRequest, "all password fields are required")
		case errors.Is(err, services.ErrPasswordConfirmMismatch):
			return apiError(c, fiber.StatusBadRequest, "passwords do not match")
		case errors.Is(err, services.ErrCurrentPasswordInvalid):
			return apiError(c, fiber.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, services.ErrNewPasswordUnchanged):
			return apiError(c, fiber.StatusBadRequest, "new password must differ from the current one")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters and include upper and lower case letters, a digit and a symbol")
		default:
			return err
		}
	}

	handler.audit(user.ID, models.EventPasswordChanged, models.EventCategoryAuth, map[string]any{"was_temporary": user.MustChangePassword})

	refreshed, err := handler.authService.FindByID(user.ID)
	if err != nil {
		return err
	}
	token, err := handler.issueSession(c, refreshed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "token": token})
}
