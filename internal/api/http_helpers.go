package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// bindAndValidate decodes the JSON body into target and applies its validate
// tags. The returned message is safe to show to clients.
func (handler *Handler) bindAndValidate(c *fiber.Ctx, target any) (string, bool) {
	if err := c.BodyParser(target); err != nil {
		return "invalid input", false
	}
	if err := handler.validate.Struct(target); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid input"
	}
	first := validationErrors[0]
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", first.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", first.Field())
	default:
		return fmt.Sprintf("%s is invalid", first.Field())
	}
}

func parseRecordID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseOptionalDate reads a validated YYYY-MM-DD string. Empty input is nil.
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := services.ParseCalendarDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// queryInt reads an integer query parameter, returning fallback when absent.
func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
