package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	DefaultAuditEventLimit = 50
	MaxAuditEventLimit     = 200
)

var ErrAuditCategoryInvalid = errors.New("invalid event category")

type UserEventRepository interface {
	Create(event *models.UserEvent) error
	ListRecent(userID uint, category string, limit int) ([]models.UserEvent, error)
}

type AuditService struct {
	events UserEventRepository
	log    logrus.FieldLogger
}

func NewAuditService(events UserEventRepository, log logrus.FieldLogger) *AuditService {
	return &AuditService{events: events, log: log}
}

// Record appends an event to the trail of userID. A failed write is logged
// and never fails the action being audited.
func (service *AuditService) Record(userID uint, action string, category string, details map[string]any, at time.Time) {
	if userID == 0 || action == "" {
		return
	}
	if category == "" {
		category = models.EventCategoryGeneral
	}

	event := models.UserEvent{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		CreatedAt: at.UTC(),
	}
	if err := service.events.Create(&event); err != nil {
		service.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"action":  action,
		}).Warn("record user event failed")
	}
}

// ListEvents returns the newest events first. userID 0 lists every account.
func (service *AuditService) ListEvents(userID uint, category string, limit int) ([]models.UserEvent, error) {
	if !isKnownEventCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrAuditCategoryInvalid, category)
	}
	switch {
	case limit <= 0:
		limit = DefaultAuditEventLimit
	case limit > MaxAuditEventLimit:
		limit = MaxAuditEventLimit
	}

	events, err := service.events.ListRecent(userID, category, limit)
	if err != nil {
		return nil, fmt.Errorf("load user events: %w", err)
	}
	return events, nil
}

func isKnownEventCategory(category string) bool {
	switch category {
	case "", models.EventCategoryAuth, models.EventCategoryCycle, models.EventCategoryProfile,
		models.EventCategoryGeneral, models.EventCategoryAdmin:
		return true
	default:
		return false
	}
}
