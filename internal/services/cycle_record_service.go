package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

var (
	ErrCycleRecordNotFound     = errors.New("cycle record not found")
	ErrCycleRecordLoadFailed   = errors.New("load cycle records failed")
	ErrCycleRecordCreateFailed = errors.New("create cycle record failed")
	ErrCycleRecordUpdateFailed = errors.New("update cycle record failed")
	ErrCycleRecordDeleteFailed = errors.New("delete cycle record failed")
)

const quickStartNote = "Period started (late period logged quickly)"

type CycleRecordRepository interface {
	ListByUser(userID uint) ([]models.CycleRecord, error)
	FindByUserAndID(userID uint, recordID uint) (models.CycleRecord, bool, error)
	Create(record *models.CycleRecord) error
	Save(record *models.CycleRecord) error
	DeleteByUserAndID(userID uint, recordID uint) (bool, error)
}

type CycleRecordInput struct {
	StartDate time.Time
	EndDate   *time.Time
	Flow      string
	Symptoms  []string
	Notes     string
}

type CycleRecordService struct {
	records CycleRecordRepository
}

func NewCycleRecordService(records CycleRecordRepository) *CycleRecordService {
	return &CycleRecordService{records: records}
}

// ListRecords returns the user's snapshot ordered newest first by start date.
func (service *CycleRecordService) ListRecords(userID uint) ([]models.CycleRecord, error) {
	records, err := service.records.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleRecordLoadFailed, err)
	}
	return records, nil
}

func (service *CycleRecordService) AddRecord(userID uint, input CycleRecordInput, preferences models.UserPreferences) (models.CycleRecord, error) {
	record, err := BuildCycleRecord(input, preferences)
	if err != nil {
		return models.CycleRecord{}, err
	}
	record.UserID = userID
	if err := service.records.Create(&record); err != nil {
		return models.CycleRecord{}, ErrCycleRecordCreateFailed
	}
	return record, nil
}

func (service *CycleRecordService) UpdateRecord(userID uint, recordID uint, input CycleRecordInput, preferences models.UserPreferences) (models.CycleRecord, error) {
	existing, found, err := service.records.FindByUserAndID(userID, recordID)
	if err != nil {
		return models.CycleRecord{}, ErrCycleRecordLoadFailed
	}
	if !found {
		return models.CycleRecord{}, ErrCycleRecordNotFound
	}

	updated, err := BuildCycleRecord(input, preferences)
	if err != nil {
		return models.CycleRecord{}, err
	}

	existing.StartDate = updated.StartDate
	existing.EndDate = updated.EndDate
	existing.PeriodLength = updated.PeriodLength
	existing.Flow = updated.Flow
	existing.Symptoms = updated.Symptoms
	existing.Notes = updated.Notes
	if err := service.records.Save(&existing); err != nil {
		return models.CycleRecord{}, ErrCycleRecordUpdateFailed
	}
	return existing, nil
}

func (service *CycleRecordService) DeleteRecord(userID uint, recordID uint) error {
	deleted, err := service.records.DeleteByUserAndID(userID, recordID)
	if err != nil {
		return ErrCycleRecordDeleteFailed
	}
	if !deleted {
		return ErrCycleRecordNotFound
	}
	return nil
}

// QuickStartPeriod logs a period beginning today with the user's typical
// period length.
func (service *CycleRecordService) QuickStartPeriod(userID uint, preferences models.UserPreferences, today time.Time) (models.CycleRecord, error) {
	return service.AddRecord(userID, CycleRecordInput{
		StartDate: today,
		Flow:      models.FlowMedium,
		Notes:     quickStartNote,
	}, preferences)
}

// BuildCycleRecord derives the stored shape of a logged period. With an end
// date the period length is the inclusive day count; without one the typical
// period length decides the end date. The typical cycle length is stamped for
// reference only.
func BuildCycleRecord(input CycleRecordInput, preferences models.UserPreferences) (models.CycleRecord, error) {
	preferences, err := ResolvePreferences(preferences)
	if err != nil {
		return models.CycleRecord{}, err
	}
	if input.StartDate.IsZero() {
		return models.CycleRecord{}, fmt.Errorf("%w: start date is required", ErrInvalidCycleRecord)
	}

	start := CalendarDate(input.StartDate)
	var end time.Time
	periodLength := preferences.TypicalPeriodLength
	if input.EndDate != nil {
		end = CalendarDate(*input.EndDate)
		if end.Before(start) {
			return models.CycleRecord{}, fmt.Errorf("%w: end date before start date", ErrInvalidCycleRecord)
		}
		periodLength = DaysBetween(start, end) + 1
	} else {
		end = AddDays(start, periodLength-1)
	}

	flow := strings.ToLower(strings.TrimSpace(input.Flow))
	if flow == "" {
		flow = models.FlowMedium
	}
	cycleLength := preferences.TypicalCycleLength

	record := models.CycleRecord{
		StartDate:    start,
		EndDate:      &end,
		PeriodLength: &periodLength,
		CycleLength:  &cycleLength,
		Flow:         flow,
		Symptoms:     NormalizeSymptoms(input.Symptoms),
		Notes:        strings.TrimSpace(input.Notes),
	}
	if err := ValidateCycleRecord(record); err != nil {
		return models.CycleRecord{}, err
	}
	return record, nil
}

func NormalizeSymptoms(raw []string) []string {
	symptoms := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, value := range raw {
		symptom := strings.TrimSpace(value)
		key := strings.ToLower(symptom)
		if symptom == "" || seen[key] {
			continue
		}
		seen[key] = true
		symptoms = append(symptoms, symptom)
	}
	return symptoms
}
