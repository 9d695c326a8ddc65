package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	MinTypicalCycleLength  = 15
	MaxTypicalCycleLength  = 45
	MinTypicalPeriodLength = 1
	MaxTypicalPeriodLength = 10
)

var ErrInvalidPreferences = errors.New("invalid preferences")

func IsValidTypicalCycleLength(value int) bool {
	return value >= MinTypicalCycleLength && value <= MaxTypicalCycleLength
}

func IsValidTypicalPeriodLength(value int) bool {
	return value >= MinTypicalPeriodLength && value <= MaxTypicalPeriodLength
}

func ValidatePreferences(preferences models.UserPreferences) error {
	if !IsValidTypicalCycleLength(preferences.TypicalCycleLength) {
		return fmt.Errorf("%w: typical cycle length %d outside %d-%d", ErrInvalidPreferences,
			preferences.TypicalCycleLength, MinTypicalCycleLength, MaxTypicalCycleLength)
	}
	if !IsValidTypicalPeriodLength(preferences.TypicalPeriodLength) {
		return fmt.Errorf("%w: typical period length %d outside %d-%d", ErrInvalidPreferences,
			preferences.TypicalPeriodLength, MinTypicalPeriodLength, MaxTypicalPeriodLength)
	}
	return nil
}

// ResolvePreferences fills zero values with defaults and validates the result.
func ResolvePreferences(preferences models.UserPreferences) (models.UserPreferences, error) {
	if preferences.TypicalCycleLength == 0 {
		preferences.TypicalCycleLength = models.DefaultCycleLength
	}
	if preferences.TypicalPeriodLength == 0 {
		preferences.TypicalPeriodLength = models.DefaultPeriodLength
	}
	if err := ValidatePreferences(preferences); err != nil {
		return models.UserPreferences{}, err
	}
	return preferences, nil
}
