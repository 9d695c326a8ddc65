package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}

// recordsNewestFirst builds records from start dates already listed newest first.
func recordsNewestFirst(t *testing.T, starts ...string) []models.CycleRecord {
	t.Helper()
	records := make([]models.CycleRecord, 0, len(starts))
	for _, start := range starts {
		records = append(records, models.CycleRecord{StartDate: mustParseDay(t, start)})
	}
	return records
}

func intPtr(value int) *int {
	return &value
}

func assertDay(t *testing.T, label string, got time.Time, want string) {
	t.Helper()
	if formatted := FormatCalendarDate(got); formatted != want {
		t.Fatalf("expected %s %s, got %s", label, want, formatted)
	}
}

func dayPtr(t *testing.T, raw string) *time.Time {
	t.Helper()
	day := mustParseDay(t, raw)
	return &day
}

type stubRecordLister struct {
	records []models.CycleRecord
	err     error
	calls   int
}

func (stub *stubRecordLister) ListRecords(uint) ([]models.CycleRecord, error) {
	stub.calls++
	if stub.err != nil {
		return nil, stub.err
	}
	result := make([]models.CycleRecord, len(stub.records))
	copy(result, stub.records)
	return result, nil
}
