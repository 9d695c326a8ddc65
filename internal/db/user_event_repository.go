package db

import (
	"github.com/terraincognita07/fertitrack/internal/models"
	"gorm.io/gorm"
)

type UserEventRepository struct {
	database *gorm.DB
}

func NewUserEventRepository(database *gorm.DB) *UserEventRepository {
	return &UserEventRepository{database: database}
}

func (repo *UserEventRepository) Create(event *models.UserEvent) error {
	return repo.database.Create(event).Error
}

// ListRecent returns the newest events first. A zero userID or an empty
// category matches every event.
func (repo *UserEventRepository) ListRecent(userID uint, category string, limit int) ([]models.UserEvent, error) {
	query := repo.database.Model(&models.UserEvent{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	events := make([]models.UserEvent, 0)
	if err := query.Order("created_at DESC").Order("id DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
