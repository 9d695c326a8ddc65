package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	records, err := handler.cycleService.ListRecords(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(newCycleRecordResponses(records))
}

func (handler *Handler) CreateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, message, ok := handler.parseCycleRecordInput(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	record, err := handler.cycleService.AddRecord(user.ID, input, user.Preferences())
	if err != nil {
		status, message := mapCycleRecordError(err)
		return apiError(c, status, message)
	}
	handler.audit(user.ID, models.EventPeriodAdded, models.EventCategoryCycle, cycleEventDetails(record))
	return c.Status(fiber.StatusCreated).JSON(newCycleRecordResponse(record))
}

func (handler *Handler) UpdateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, ok := parseRecordID(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	input, message, ok := handler.parseCycleRecordInput(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	record, err := handler.cycleService.UpdateRecord(user.ID, recordID, input, user.Preferences())
	if err != nil {
		status, message := mapCycleRecordError(err)
		return apiError(c, status, message)
	}
	handler.audit(user.ID, models.EventPeriodUpdated, models.EventCategoryCycle, cycleEventDetails(record))
	return c.JSON(newCycleRecordResponse(record))
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, ok := parseRecordID(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := handler.cycleService.DeleteRecord(user.ID, recordID); err != nil {
		status, message := mapCycleRecordError(err)
		return apiError(c, status, message)
	}
	handler.audit(user.ID, models.EventPeriodDeleted, models.EventCategoryCycle, map[string]any{"record_id": recordID})
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) QuickStartCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := handler.cycleService.QuickStartPeriod(user.ID, user.Preferences(), handler.today())
	if err != nil {
		status, message := mapCycleRecordError(err)
		return apiError(c, status, message)
	}
	details := cycleEventDetails(record)
	details["quick_start"] = true
	handler.audit(user.ID, models.EventPeriodAdded, models.EventCategoryCycle, details)
	return c.Status(fiber.StatusCreated).JSON(newCycleRecordResponse(record))
}

func (handler *Handler) parseCycleRecordInput(c *fiber.Ctx) (services.CycleRecordInput, string, bool) {
	payload := cycleRecordInput{}
	if message, ok := handler.bindAndValidate(c, &payload); !ok {
		return services.CycleRecordInput{}, message, false
	}

	startDate, err := services.ParseCalendarDate(payload.StartDate)
	if err != nil {
		return services.CycleRecordInput{}, "start_date must be a YYYY-MM-DD date", false
	}
	endDate, err := parseOptionalDate(payload.EndDate)
	if err != nil {
		return services.CycleRecordInput{}, "end_date must be a YYYY-MM-DD date", false
	}

	return services.CycleRecordInput{
		StartDate: startDate,
		EndDate:   endDate,
		Flow:      payload.Flow,
		Symptoms:  payload.Symptoms,
		Notes:     payload.Notes,
	}, "", true
}

func cycleEventDetails(record models.CycleRecord) map[string]any {
	return map[string]any{
		"record_id":  record.ID,
		"start_date": services.FormatCalendarDate(record.StartDate),
	}
}

func mapCycleRecordError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrCycleRecordNotFound):
		return fiber.StatusNotFound, "cycle not found"
	case errors.Is(err, services.ErrInvalidCycleRecord):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidPreferences):
		return fiber.StatusUnprocessableEntity, "invalid preferences"
	case errors.Is(err, services.ErrCycleRecordLoadFailed):
		return fiber.StatusInternalServerError, "failed to load cycles"
	case errors.Is(err, services.ErrCycleRecordCreateFailed):
		return fiber.StatusInternalServerError, "failed to save cycle"
	case errors.Is(err, services.ErrCycleRecordUpdateFailed):
		return fiber.StatusInternalServerError, "failed to update cycle"
	case errors.Is(err, services.ErrCycleRecordDeleteFailed):
		return fiber.StatusInternalServerError, "failed to delete cycle"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
