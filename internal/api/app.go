package api

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestBodyLimit = 1 << 20

// NewApp builds the Fiber application with the middleware chain and every
// route registered. Access logs go to accessLog; nil disables them.
func NewApp(handler *Handler, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "fertitrack",
		BodyLimit:             requestBodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if accessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			Output: accessLog,
		}))
	}
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	RegisterRoutes(app, handler)
	return app
}

func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	if status >= fiber.StatusInternalServerError {
		handler.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return apiError(c, status, message)
}
