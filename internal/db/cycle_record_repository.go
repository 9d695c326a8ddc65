package db

import (
	"github.com/terraincognita07/fertitrack/internal/models"
	"gorm.io/gorm"
)

type CycleRecordRepository struct {
	database *gorm.DB
}

func NewCycleRecordRepository(database *gorm.DB) *CycleRecordRepository {
	return &CycleRecordRepository{database: database}
}

// ListByUser returns the user's records newest first; ties on start date keep
// the most recently inserted record first.
func (repo *CycleRecordRepository) ListByUser(userID uint) ([]models.CycleRecord, error) {
	records := make([]models.CycleRecord, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *CycleRecordRepository) FindByUserAndID(userID uint, recordID uint) (models.CycleRecord, bool, error) {
	record := models.CycleRecord{}
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, recordID).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.CycleRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CycleRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *CycleRecordRepository) Create(record *models.CycleRecord) error {
	return repo.database.Create(record).Error
}

func (repo *CycleRecordRepository) Save(record *models.CycleRecord) error {
	return repo.database.Save(record).Error
}

func (repo *CycleRecordRepository) DeleteByUserAndID(userID uint, recordID uint) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, recordID).Delete(&models.CycleRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
