package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) issueSession(c *fiber.Ctx, user models.User) (string, error) {
	now := handler.now()
	token, err := services.BuildSessionToken(handler.secretKey, user.ID, user.PasswordHash, handler.sessionTTL, now)
	if err != nil {
		return "", err
	}
	handler.setAuthCookie(c, token, now.Add(handler.sessionTTL))
	return token, nil
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
