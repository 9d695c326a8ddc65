package services

import (
	"errors"
	"testing"
	"time"
)

func TestPlanConceptionForTargetMonth(t *testing.T) {
	t.Parallel()

	records := recordsNewestFirst(t, "2024-01-01")
	plan, err := PlanConception(records, 28, 5, 2025, mustParseDay(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("PlanConception returned error: %v", err)
	}

	assertDay(t, "target delivery", plan.TargetDeliveryDate, "2025-05-15")
	assertDay(t, "conception date", plan.OptimalConceptionDate, "2024-08-08")
	assertDay(t, "period start", plan.PeriodStart, "2024-07-15")
	assertDay(t, "ovulation date", plan.OvulationDate, "2024-07-29")
	assertDay(t, "fertile window start", plan.FertileWindowStart, "2024-07-24")
	assertDay(t, "fertile window end", plan.FertileWindowEnd, "2024-07-30")
	if plan.CycleNumber != 8 {
		t.Fatalf("expected cycle number 8, got %d", plan.CycleNumber)
	}
	if plan.DaysFromNow != 68 {
		t.Fatalf("expected 68 days from now, got %d", plan.DaysFromNow)
	}
}

func TestPlanConceptionReportsPassedTargets(t *testing.T) {
	t.Parallel()

	records := recordsNewestFirst(t, "2024-01-01")
	plan, err := PlanConception(records, 28, 1, 2024, mustParseDay(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("PlanConception returned error: %v", err)
	}
	if plan.DaysFromNow >= 0 {
		t.Fatalf("expected negative days from now, got %d", plan.DaysFromNow)
	}
	if !plan.PeriodStart.Before(plan.OptimalConceptionDate) {
		t.Fatalf("expected period start before conception, got %+v", plan)
	}
}

func TestPlanConceptionCycleStartInvariant(t *testing.T) {
	t.Parallel()

	lastPeriods := []string{"2023-02-27", "2024-01-01", "2024-02-29", "2024-12-31"}
	today := mustParseDay(t, "2024-06-01")

	for _, lastPeriod := range lastPeriods {
		records := recordsNewestFirst(t, lastPeriod)
		for cycleLength := MinTypicalCycleLength; cycleLength <= MaxTypicalCycleLength; cycleLength++ {
			for year := 2023; year <= 2026; year++ {
				for month := 1; month <= 12; month++ {
					plan, err := PlanConception(records, cycleLength, month, year, today)
					if err != nil {
						t.Fatalf("PlanConception returned error: %v", err)
					}

					upper := plan.PeriodStart.AddDate(0, 0, cycleLength)
					if !plan.PeriodStart.Before(plan.OptimalConceptionDate) || plan.OptimalConceptionDate.After(upper) {
						t.Fatalf("invariant broken for last=%s L=%d target=%d/%d: start=%s conception=%s",
							lastPeriod, cycleLength, month, year,
							FormatCalendarDate(plan.PeriodStart), FormatCalendarDate(plan.OptimalConceptionDate))
					}
					if offset := DaysBetween(records[0].StartDate, plan.PeriodStart); offset%cycleLength != 0 {
						t.Fatalf("period start %s is not a whole number of cycles from %s",
							FormatCalendarDate(plan.PeriodStart), lastPeriod)
					}
				}
			}
		}
	}
}

func TestPlanConceptionMatchesStepwiseSearch(t *testing.T) {
	t.Parallel()

	lastPeriod := mustParseDay(t, "2024-01-10")
	records := recordsNewestFirst(t, "2024-01-10")
	today := mustParseDay(t, "2024-01-10")

	for _, cycleLength := range []int{15, 21, 28, 33, 45} {
		for month := 1; month <= 12; month++ {
			plan, err := PlanConception(records, cycleLength, month, 2025, today)
			if err != nil {
				t.Fatalf("PlanConception returned error: %v", err)
			}

			wantStart, wantNumber := stepwiseCycleSearch(lastPeriod, plan.OptimalConceptionDate, cycleLength)
			if !plan.PeriodStart.Equal(wantStart) || plan.CycleNumber != wantNumber {
				t.Fatalf("L=%d month=%d: expected start %s cycle %d, got %s cycle %d",
					cycleLength, month, FormatCalendarDate(wantStart), wantNumber,
					FormatCalendarDate(plan.PeriodStart), plan.CycleNumber)
			}
		}
	}
}

func TestPlanConceptionConceptionOnCycleBoundary(t *testing.T) {
	t.Parallel()

	// 2024-08-08 is exactly 8 cycles of 28 days after 2023-12-28.
	records := recordsNewestFirst(t, "2023-12-28")
	plan, err := PlanConception(records, 28, 5, 2025, mustParseDay(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("PlanConception returned error: %v", err)
	}
	assertDay(t, "period start", plan.PeriodStart, "2024-07-11")
	if plan.CycleNumber != 8 {
		t.Fatalf("expected cycle number 8, got %d", plan.CycleNumber)
	}
}

func TestPlanConceptionDistantTargetYears(t *testing.T) {
	t.Parallel()

	records := recordsNewestFirst(t, "2024-01-01")
	today := mustParseDay(t, "2024-06-01")

	for _, year := range []int{1, 1600, 2400, 3000} {
		plan, err := PlanConception(records, 28, 6, year, today)
		if err != nil {
			t.Fatalf("year %d: PlanConception returned error: %v", year, err)
		}

		upper := plan.PeriodStart.AddDate(0, 0, 28)
		if !plan.PeriodStart.Before(plan.OptimalConceptionDate) || plan.OptimalConceptionDate.After(upper) {
			t.Fatalf("year %d: start=%s conception=%s", year,
				FormatCalendarDate(plan.PeriodStart), FormatCalendarDate(plan.OptimalConceptionDate))
		}
		wantDays := int(plan.OptimalConceptionDate.Unix()-today.Unix()) / secondsPerDay
		if plan.DaysFromNow != wantDays {
			t.Fatalf("year %d: expected %d days from now, got %d", year, wantDays, plan.DaysFromNow)
		}
		if (year < 2024) != (plan.CycleNumber < 1) {
			t.Fatalf("year %d: unexpected cycle number %d", year, plan.CycleNumber)
		}
	}
}

func TestConceptionPlanYearRange(t *testing.T) {
	minYear, maxYear := ConceptionPlanYearRange(mustParseDay(t, "2025-03-20"))
	if minYear != 1925 || maxYear != 2125 {
		t.Fatalf("expected 1925..2125, got %d..%d", minYear, maxYear)
	}
}

func TestPlanConceptionErrors(t *testing.T) {
	t.Parallel()

	today := mustParseDay(t, "2024-01-01")
	records := recordsNewestFirst(t, "2024-01-01")

	if _, err := PlanConception(nil, 28, 5, 2025, today); !errors.Is(err, ErrInsufficientCycleData) {
		t.Fatalf("expected ErrInsufficientCycleData, got %v", err)
	}
	if _, err := PlanConception(records, 28, 13, 2025, today); !errors.Is(err, ErrInvalidTargetMonth) {
		t.Fatalf("expected ErrInvalidTargetMonth, got %v", err)
	}
	if _, err := PlanConception(records, 5, 5, 2025, today); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences, got %v", err)
	}
	if plan, err := PlanConception(records, 0, 5, 2025, today); err != nil || plan.PeriodStart.IsZero() {
		t.Fatalf("expected default cycle length to be applied, got plan=%+v err=%v", plan, err)
	}
}

// stepwiseCycleSearch advances one cycle at a time while the cycle start is
// before the conception date, then backs off by one cycle.
func stepwiseCycleSearch(lastPeriod time.Time, conception time.Time, cycleLength int) (time.Time, int) {
	cycleNumber := 1
	cycleStart := lastPeriod
	for cycleStart.Before(conception) {
		cycleStart = cycleStart.AddDate(0, 0, cycleLength)
		cycleNumber++
	}
	return cycleStart.AddDate(0, 0, -cycleLength), cycleNumber - 1
}
