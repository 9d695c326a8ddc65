package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

const (
	authCookieName = "fertitrack_auth"
	contextUserKey = "current_user"
	bearerPrefix   = "bearer "
)

var errUnauthorized = errors.New("unauthorized")

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	switch {
	case err == nil:
		c.Locals(contextUserKey, user)
		return c.Next()
	case errors.Is(err, services.ErrSessionTokenMissing):
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, errUnauthorized),
		errors.Is(err, services.ErrSessionTokenInvalid),
		errors.Is(err, services.ErrSessionTokenExpired),
		errors.Is(err, services.ErrSessionTokenInvalidPasswordState):
		handler.clearAuthCookie(c)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	default:
		return err
	}
}

// PasswordChangeGate blocks accounts holding a temporary password until they
// choose a new one.
func (handler *Handler) PasswordChangeGate(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.MustChangePassword {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}
	return c.Next()
}

func (handler *Handler) AdminRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !services.IsAdminUser(user) {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawToken := requestSessionToken(c)
	if rawToken == "" {
		return nil, services.ErrSessionTokenMissing
	}

	claims, err := services.ParseSessionToken(handler.secretKey, rawToken, handler.now())
	if err != nil {
		return nil, err
	}

	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrAuthUserNotFound) {
			return nil, errUnauthorized
		}
		return nil, err
	}
	if !services.IsPasswordStateFingerprintMatch(claims.PasswordState, user.PasswordHash) {
		return nil, services.ErrSessionTokenInvalidPasswordState
	}
	if !services.IsActiveUser(&user) {
		return nil, errUnauthorized
	}
	return &user, nil
}

// requestSessionToken prefers the auth cookie and falls back to a bearer
// Authorization header.
func requestSessionToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(authCookieName)); token != "" {
		return token
	}
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}
