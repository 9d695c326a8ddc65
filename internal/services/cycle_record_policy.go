package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/fertitrack/internal/models"
)

var ErrInvalidCycleRecord = errors.New("invalid cycle record")

func ValidateCycleRecord(record models.CycleRecord) error {
	if record.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidCycleRecord)
	}
	if record.EndDate != nil && CalendarDate(*record.EndDate).Before(CalendarDate(record.StartDate)) {
		return fmt.Errorf("%w: end date %s before start date %s", ErrInvalidCycleRecord,
			FormatCalendarDate(*record.EndDate), FormatCalendarDate(record.StartDate))
	}
	if record.PeriodLength != nil && *record.PeriodLength < 1 {
		return fmt.Errorf("%w: period length %d must be at least 1", ErrInvalidCycleRecord, *record.PeriodLength)
	}
	if record.CycleLength != nil && *record.CycleLength < 1 {
		return fmt.Errorf("%w: cycle length %d must be at least 1", ErrInvalidCycleRecord, *record.CycleLength)
	}
	if record.Flow != "" && !models.IsKnownFlow(record.Flow) {
		return fmt.Errorf("%w: unknown flow %q", ErrInvalidCycleRecord, record.Flow)
	}
	return nil
}

// ValidateCycleRecords checks every record of a snapshot before it reaches the
// engine. Ordering and overlap are trusted as supplied.
func ValidateCycleRecords(records []models.CycleRecord) error {
	for index, record := range records {
		if err := ValidateCycleRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}
	}
	return nil
}
