package services

import (
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

type LateStatus struct {
	IsLate              bool      `json:"is_late"`
	DaysLate            int       `json:"days_late,omitempty"`
	ExpectedDate        time.Time `json:"expected_date,omitzero"`
	LastPeriodDate      time.Time `json:"last_period_date,omitzero"`
	DaysSinceLastPeriod int       `json:"days_since_last_period"`
}

// CheckLatePeriod compares today with the expected next period. The boolean is
// false when there is no record to compare against. Today being exactly the
// expected date is not late.
func CheckLatePeriod(records []models.CycleRecord, typicalCycleLength int, today time.Time) (LateStatus, bool, error) {
	if typicalCycleLength == 0 {
		typicalCycleLength = models.DefaultCycleLength
	}
	if !IsValidTypicalCycleLength(typicalCycleLength) {
		return LateStatus{}, false, ValidatePreferences(models.UserPreferences{
			TypicalCycleLength:  typicalCycleLength,
			TypicalPeriodLength: models.DefaultPeriodLength,
		})
	}
	if err := ValidateCycleRecords(records); err != nil {
		return LateStatus{}, false, err
	}
	if len(records) == 0 {
		return LateStatus{}, false, nil
	}

	lastPeriod := CalendarDate(records[0].StartDate)
	expected := AddDays(lastPeriod, typicalCycleLength)
	daysSince := DaysBetween(lastPeriod, today)
	daysLate := DaysBetween(expected, today)

	if daysLate <= 0 {
		return LateStatus{DaysSinceLastPeriod: daysSince}, true, nil
	}
	return LateStatus{
		IsLate:              true,
		DaysLate:            daysLate,
		ExpectedDate:        expected,
		LastPeriodDate:      lastPeriod,
		DaysSinceLastPeriod: daysSince,
	}, true, nil
}
