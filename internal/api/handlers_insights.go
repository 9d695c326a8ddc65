package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) GetPredictions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	count, ok := predictionCount(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "count must be between 1 and 12")
	}

	predictions, err := handler.insightsService.Predictions(*user, count)
	if err != nil {
		return handler.insightsError(c, err)
	}
	return c.JSON(newPredictionResponses(predictions))
}

func (handler *Handler) GetLateStatus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	status, available, err := handler.insightsService.LateStatus(*user, handler.today())
	if err != nil {
		return handler.insightsError(c, err)
	}
	if !available {
		return c.JSON(newLateStatusResponse(nil))
	}
	return c.JSON(newLateStatusResponse(&status))
}

func (handler *Handler) GetConceptionPlan(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if c.Query("month") == "" || c.Query("year") == "" {
		return apiError(c, fiber.StatusBadRequest, "month and year are required")
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}
	year, err := queryInt(c, "year", 0)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid year")
	}
	today := handler.today()
	minYear, maxYear := services.ConceptionPlanYearRange(today)
	if year < minYear || year > maxYear {
		return apiError(c, fiber.StatusBadRequest, fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}

	plan, err := handler.insightsService.ConceptionPlan(*user, month, year, today)
	if err != nil {
		return handler.insightsError(c, err)
	}
	return c.JSON(newConceptionPlanResponse(plan))
}

func (handler *Handler) GetDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	count, ok := predictionCount(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "count must be between 1 and 12")
	}

	dashboard, err := handler.insightsService.Dashboard(*user, handler.today(), count)
	if err != nil {
		return handler.insightsError(c, err)
	}
	return c.JSON(newDashboardResponse(dashboard))
}

func (handler *Handler) GetAnalytics(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	analytics, err := handler.insightsService.Analytics(*user)
	if err != nil {
		return handler.insightsError(c, err)
	}
	return c.JSON(analytics)
}

func predictionCount(c *fiber.Ctx) (int, bool) {
	count, err := queryInt(c, "count", services.DefaultPredictionCount)
	if err != nil || count < 1 || count > services.MaxPredictionCount {
		return 0, false
	}
	return count, true
}

func (handler *Handler) insightsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsufficientCycleData):
		return apiError(c, fiber.StatusUnprocessableEntity, "insufficient data")
	case errors.Is(err, services.ErrInvalidTargetMonth):
		return apiError(c, fiber.StatusBadRequest, "month must be between 1 and 12")
	case errors.Is(err, services.ErrInvalidPreferences):
		return apiError(c, fiber.StatusUnprocessableEntity, "invalid preferences")
	case errors.Is(err, services.ErrInvalidCycleRecord):
		return apiError(c, fiber.StatusUnprocessableEntity, "stored cycle data is invalid")
	default:
		return err
	}
}
