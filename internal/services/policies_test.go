package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/fertitrack/internal/models"
)

func TestResolvePreferences(t *testing.T) {
	resolved, err := ResolvePreferences(models.UserPreferences{TypicalPeriodLength: 7})
	if err != nil {
		t.Fatalf("ResolvePreferences() unexpected error: %v", err)
	}
	if resolved.TypicalCycleLength != models.DefaultCycleLength || resolved.TypicalPeriodLength != 7 {
		t.Fatalf("unexpected resolved preferences %#v", resolved)
	}

	for _, prefs := range []models.UserPreferences{
		{TypicalCycleLength: 0, TypicalPeriodLength: -1},
		{TypicalCycleLength: 1000, TypicalPeriodLength: 5},
	} {
		if _, err := ResolvePreferences(prefs); !errors.Is(err, ErrInvalidPreferences) {
			t.Fatalf("expected ErrInvalidPreferences for %#v, got %v", prefs, err)
		}
	}
}

func TestPreferenceDomainBounds(t *testing.T) {
	tests := []struct {
		value      int
		cycleValid bool
		periodOK   bool
	}{
		{value: 0, cycleValid: false, periodOK: false},
		{value: 1, cycleValid: false, periodOK: true},
		{value: 10, cycleValid: false, periodOK: true},
		{value: 11, cycleValid: false, periodOK: false},
		{value: 15, cycleValid: true, periodOK: false},
		{value: 45, cycleValid: true, periodOK: false},
		{value: 46, cycleValid: false, periodOK: false},
	}
	for _, tc := range tests {
		if got := IsValidTypicalCycleLength(tc.value); got != tc.cycleValid {
			t.Fatalf("IsValidTypicalCycleLength(%d) = %v", tc.value, got)
		}
		if got := IsValidTypicalPeriodLength(tc.value); got != tc.periodOK {
			t.Fatalf("IsValidTypicalPeriodLength(%d) = %v", tc.value, got)
		}
	}
}

func TestValidateCycleRecordsReportsIndex(t *testing.T) {
	records := recordsNewestFirst(t, "2024-03-01", "2024-02-01")
	records[1].PeriodLength = intPtr(0)

	err := ValidateCycleRecords(records)
	if !errors.Is(err, ErrInvalidCycleRecord) {
		t.Fatalf("expected ErrInvalidCycleRecord, got %v", err)
	}
	if err.Error()[:8] != "record 1" {
		t.Fatalf("expected record index in message, got %q", err.Error())
	}
}

func TestValidateCycleRecordAcceptsEmptyFlow(t *testing.T) {
	record := models.CycleRecord{StartDate: mustParseDay(t, "2024-03-01"), EndDate: dayPtr(t, "2024-03-01")}
	if err := ValidateCycleRecord(record); err != nil {
		t.Fatalf("expected single-day record without flow to be valid, got %v", err)
	}
}
