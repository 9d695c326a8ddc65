package services

import (
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	DefaultPredictionCount = 4
	MaxPredictionCount     = 12

	lutealPhaseDays            = 14
	fertileDaysBeforeOvulation = 5
	fertileDaysAfterOvulation  = 1
	confidenceDecayPerCycle    = 8
	confidenceFloor            = 45
	sparseHistoryConfidence    = 75
	confidencePenaltyPerDay    = 10
	regularityMinimumRecords   = 3
)

type Prediction struct {
	CycleIndex         int       `json:"cycle_index"`
	StartDate          time.Time `json:"start_date"`
	Confidence         int       `json:"confidence"`
	OvulationDate      time.Time `json:"ovulation_date"`
	FertileWindowStart time.Time `json:"fertile_window_start"`
	FertileWindowEnd   time.Time `json:"fertile_window_end"`
	AvgCycleLengthUsed int       `json:"avg_cycle_length_used"`
}

// PredictPeriods projects count future period starts from the most recent
// record. An empty snapshot yields an empty slice.
//
// The ovulation date is anchored at start + cycle length - 14, which is the
// ovulation of the cycle that begins with the predicted period.
func PredictPeriods(records []models.CycleRecord, preferences models.UserPreferences, count int) ([]Prediction, error) {
	preferences, err := ResolvePreferences(preferences)
	if err != nil {
		return nil, err
	}
	if err := ValidateCycleRecords(records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Prediction{}, nil
	}
	if count <= 0 {
		count = DefaultPredictionCount
	}

	stats := EstimateCycleStatistics(records, preferences.TypicalCycleLength)
	base := regularityConfidence(stats, preferences.TypicalCycleLength)
	lastStart := CalendarDate(records[0].StartDate)

	predictions := make([]Prediction, 0, count)
	for index := 1; index <= count; index++ {
		start := AddDays(lastStart, stats.AverageCycleLength*index)
		ovulation := AddDays(start, stats.AverageCycleLength-lutealPhaseDays)
		predictions = append(predictions, Prediction{
			CycleIndex:         index,
			StartDate:          start,
			Confidence:         max(base-index*confidenceDecayPerCycle, confidenceFloor),
			OvulationDate:      ovulation,
			FertileWindowStart: AddDays(ovulation, -fertileDaysBeforeOvulation),
			FertileWindowEnd:   AddDays(ovulation, fertileDaysAfterOvulation),
			AvgCycleLengthUsed: stats.AverageCycleLength,
		})
	}
	return predictions, nil
}

// regularityConfidence penalises distance between the observed average and
// the user's typical length. Fewer than three records give a flat 75.
func regularityConfidence(stats CycleStatistics, typicalCycleLength int) int {
	if stats.WindowSize < regularityMinimumRecords {
		return sparseHistoryConfidence
	}
	drift := stats.AverageCycleLength - typicalCycleLength
	if drift < 0 {
		drift = -drift
	}
	return max(0, 100-drift*confidencePenaltyPerDay)
}
