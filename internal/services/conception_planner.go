package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	gestationDays       = 280
	deliveryDayOfMonth  = 15
	ovulationDayOfCycle = 14

	conceptionPlanYearSpan = 100
)

var (
	ErrInsufficientCycleData = errors.New("insufficient data")
	ErrInvalidTargetMonth    = errors.New("invalid target month")
)

type ConceptionPlan struct {
	TargetDeliveryDate    time.Time `json:"target_delivery_date"`
	OptimalConceptionDate time.Time `json:"optimal_conception_date"`
	CycleNumber           int       `json:"cycle_number"`
	PeriodStart           time.Time `json:"period_start"`
	FertileWindowStart    time.Time `json:"fertile_window_start"`
	FertileWindowEnd      time.Time `json:"fertile_window_end"`
	OvulationDate         time.Time `json:"ovulation_date"`
	DaysFromNow           int       `json:"days_from_now"`
}

// ConceptionPlanYearRange bounds the target years accepted from clients.
func ConceptionPlanYearRange(today time.Time) (int, int) {
	year := CalendarDate(today).Year()
	return year - conceptionPlanYearSpan, year + conceptionPlanYearSpan
}

// PlanConception back-solves the cycle whose start is the last one strictly
// before the conception date (target delivery on the 15th minus 280 days),
// assuming every cycle lasts typicalCycleLength days.
//
// The returned PeriodStart always satisfies
// PeriodStart < OptimalConceptionDate <= PeriodStart + typicalCycleLength.
func PlanConception(records []models.CycleRecord, typicalCycleLength int, targetMonth int, targetYear int, today time.Time) (ConceptionPlan, error) {
	if typicalCycleLength == 0 {
		typicalCycleLength = models.DefaultCycleLength
	}
	if !IsValidTypicalCycleLength(typicalCycleLength) {
		return ConceptionPlan{}, fmt.Errorf("%w: typical cycle length %d", ErrInvalidPreferences, typicalCycleLength)
	}
	if targetMonth < 1 || targetMonth > 12 {
		return ConceptionPlan{}, fmt.Errorf("%w: %d", ErrInvalidTargetMonth, targetMonth)
	}
	if err := ValidateCycleRecords(records); err != nil {
		return ConceptionPlan{}, err
	}
	if len(records) == 0 {
		return ConceptionPlan{}, ErrInsufficientCycleData
	}

	delivery := time.Date(targetYear, time.Month(targetMonth), deliveryDayOfMonth, 0, 0, 0, 0, time.UTC)
	conception := AddDays(delivery, -gestationDays)
	lastPeriod := CalendarDate(records[0].StartDate)

	offset := cyclesBeforeConception(DaysBetween(lastPeriod, conception), typicalCycleLength)
	cycleStart := AddDays(lastPeriod, offset*typicalCycleLength)
	ovulation := AddDays(cycleStart, ovulationDayOfCycle)

	return ConceptionPlan{
		TargetDeliveryDate:    delivery,
		OptimalConceptionDate: conception,
		CycleNumber:           offset + 1,
		PeriodStart:           cycleStart,
		FertileWindowStart:    AddDays(ovulation, -fertileDaysBeforeOvulation),
		FertileWindowEnd:      AddDays(ovulation, fertileDaysAfterOvulation),
		OvulationDate:         ovulation,
		DaysFromNow:           DaysBetween(today, conception),
	}, nil
}

// cyclesBeforeConception returns the k for which
// k*cycleLength < daysUntilConception <= (k+1)*cycleLength. Stepping forward
// one cycle at a time and then backing off once lands on the same k; the
// closed form needs no iteration cap and also covers targets before the last
// logged period.
func cyclesBeforeConception(daysUntilConception int, cycleLength int) int {
	return ceilDiv(daysUntilConception, cycleLength) - 1
}

func ceilDiv(numerator int, denominator int) int {
	quotient := numerator / denominator
	if numerator%denominator != 0 && (numerator > 0) == (denominator > 0) {
		quotient++
	}
	return quotient
}
