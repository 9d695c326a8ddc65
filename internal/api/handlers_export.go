package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, message, ok := exportRange(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	content, err := handler.exportService.BuildCSV(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to export")
	}
	handler.audit(user.ID, models.EventDataExportCompleted, models.EventCategoryGeneral, map[string]any{"format": "csv"})
	return sendAttachment(c, "text/csv; charset=utf-8", services.ExportFileName("cycles", "csv", handler.today()), content)
}

func (handler *Handler) ExportReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	today := handler.today()
	report, err := handler.exportService.BuildReport(*user, today)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to export")
	}
	handler.audit(user.ID, models.EventDataExportCompleted, models.EventCategoryGeneral, map[string]any{"format": "report"})
	return sendAttachment(c, "text/plain; charset=utf-8", services.ExportFileName("report", "txt", today), []byte(report))
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, message, ok := exportRange(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	summary, err := handler.exportService.BuildSummary(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load export summary")
	}
	return c.JSON(summary)
}

func exportRange(c *fiber.Ctx) (*time.Time, *time.Time, string, bool) {
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	switch {
	case err == nil:
		return from, to, "", true
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return nil, nil, "invalid from date", false
	case errors.Is(err, services.ErrExportToDateInvalid):
		return nil, nil, "invalid to date", false
	default:
		return nil, nil, "invalid range", false
	}
}

func sendAttachment(c *fiber.Ctx, contentType string, filename string, content []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}
