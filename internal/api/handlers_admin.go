package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func (handler *Handler) AdminListUsers(c *fiber.Ctx) error {
	admin, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	users, err := handler.adminService.ListUsers(c.Query("search"), c.Query("status"))
	if err != nil {
		if errors.Is(err, services.ErrAdminStatusFilterInvalid) {
			return apiError(c, fiber.StatusBadRequest, "status must be one of all, active, inactive, admin")
		}
		return err
	}
	handler.audit(admin.ID, models.EventAdminPanelAccessed, models.EventCategoryAdmin, map[string]any{"total_users": len(users)})

	today := handler.today()
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, newUserResponse(user, today))
	}
	return c.JSON(fiber.Map{"users": responses, "total": len(responses)})
}

func (handler *Handler) AdminSetUserAdmin(c *fiber.Ctx) error {
	admin, targetID, ok := adminTarget(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}
	input := adminStatusInput{}
	if message, ok := handler.bindAndValidate(c, &input); !ok {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	user, err := handler.adminService.SetAdmin(admin.ID, targetID, *input.IsAdmin)
	if err != nil {
		return handler.adminError(c, err)
	}
	handler.auditAdminAction(admin, models.EventUserAdminStatusChanged, user, map[string]any{"is_admin": user.IsAdmin})
	return c.JSON(newUserResponse(user, handler.today()))
}

func (handler *Handler) AdminDeactivateUser(c *fiber.Ctx) error {
	admin, targetID, ok := adminTarget(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	user, err := handler.adminService.Deactivate(admin.ID, targetID)
	if err != nil {
		return handler.adminError(c, err)
	}
	handler.auditAdminAction(admin, models.EventUserDeactivated, user, nil)
	return c.JSON(newUserResponse(user, handler.today()))
}

func (handler *Handler) AdminReactivateUser(c *fiber.Ctx) error {
	admin, targetID, ok := adminTarget(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	user, err := handler.adminService.Reactivate(targetID)
	if err != nil {
		return handler.adminError(c, err)
	}
	handler.auditAdminAction(admin, models.EventUserReactivated, user, nil)
	return c.JSON(newUserResponse(user, handler.today()))
}

// AdminResetUserPassword shows the temporary password once; only its hash is
// stored.
func (handler *Handler) AdminResetUserPassword(c *fiber.Ctx) error {
	admin, targetID, ok := adminTarget(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	user, temporaryPassword, err := handler.adminService.ResetPassword(targetID)
	if err != nil {
		return handler.adminError(c, err)
	}
	handler.auditAdminAction(admin, models.EventPasswordResetCompleted, user, nil)
	return c.JSON(fiber.Map{
		"user":               newUserResponse(user, handler.today()),
		"temporary_password": temporaryPassword,
	})
}

func (handler *Handler) AdminListEvents(c *fiber.Ctx) error {
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid user_id")
		}
		userID = uint(parsed)
	}
	return handler.listEvents(c, userID)
}

// ListOwnEvents returns the caller's own audit trail.
func (handler *Handler) ListOwnEvents(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return handler.listEvents(c, user.ID)
}

func (handler *Handler) listEvents(c *fiber.Ctx, userID uint) error {
	limit, err := queryInt(c, "limit", services.DefaultAuditEventLimit)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	events, err := handler.auditService.ListEvents(userID, strings.TrimSpace(c.Query("category")), limit)
	if err != nil {
		if errors.Is(err, services.ErrAuditCategoryInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid category")
		}
		return err
	}
	return c.JSON(newUserEventResponses(events))
}

func (handler *Handler) auditAdminAction(admin *models.User, action string, target models.User, details map[string]any) {
	if details == nil {
		details = make(map[string]any, 2)
	}
	details["target_user_id"] = target.ID
	details["target_email"] = target.Email
	handler.audit(admin.ID, action, models.EventCategoryAdmin, details)
}

func (handler *Handler) adminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAuthUserNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrAdminSelfAction):
		return apiError(c, fiber.StatusBadRequest, "you cannot remove your own admin access or deactivate yourself")
	default:
		return err
	}
}

func adminTarget(c *fiber.Ctx) (*models.User, uint, bool) {
	admin, ok := currentUser(c)
	if !ok {
		return nil, 0, false
	}
	targetID, ok := parseRecordID(c)
	return admin, targetID, ok
}
