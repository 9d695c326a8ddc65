package services

import (
	"math"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	statisticsWindowSize = 6
	minPlausibleDelta    = 15
	maxPlausibleDelta    = 45
)

type CycleStatistics struct {
	AverageCycleLength  int   `json:"average_cycle_length"`
	AveragePeriodLength int   `json:"average_period_length"`
	WindowSize          int   `json:"window_size"`
	ValidDeltas         []int `json:"valid_deltas"`
	UsedFallback        bool  `json:"used_fallback"`
}

// EstimateCycleStatistics derives effective cycle and period lengths from a
// newest-first snapshot. Only the six most recent records feed the cycle
// length; deltas outside (15, 45) are treated as logging gaps.
func EstimateCycleStatistics(records []models.CycleRecord, typicalCycleLength int) CycleStatistics {
	window := recentWindow(records)
	stats := CycleStatistics{
		AverageCycleLength:  typicalCycleLength,
		AveragePeriodLength: models.DefaultPeriodLength,
		WindowSize:          len(window),
		ValidDeltas:         PlausibleCycleDeltas(window),
		UsedFallback:        true,
	}

	if len(stats.ValidDeltas) > 0 {
		stats.AverageCycleLength = roundedMean(stats.ValidDeltas)
		stats.UsedFallback = false
	}

	if len(records) > 0 {
		periodLengths := make([]int, 0, len(records))
		for _, record := range records {
			periodLengths = append(periodLengths, record.EffectivePeriodLength())
		}
		stats.AveragePeriodLength = roundedMean(periodLengths)
	}

	return stats
}

// PlausibleCycleDeltas returns start-date deltas between adjacent records
// (newer minus older) that fall strictly inside (15, 45).
func PlausibleCycleDeltas(records []models.CycleRecord) []int {
	if len(records) < 2 {
		return []int{}
	}

	deltas := make([]int, 0, len(records)-1)
	for index := 0; index+1 < len(records); index++ {
		delta := DaysBetween(records[index+1].StartDate, records[index].StartDate)
		if delta > minPlausibleDelta && delta < maxPlausibleDelta {
			deltas = append(deltas, delta)
		}
	}
	return deltas
}

func recentWindow(records []models.CycleRecord) []models.CycleRecord {
	if len(records) <= statisticsWindowSize {
		return records
	}
	return records[:statisticsWindowSize]
}

// roundedMean rounds half away from zero; callers never pass an empty slice.
func roundedMean(values []int) int {
	total := 0
	for _, value := range values {
		total += value
	}
	return int(math.Round(float64(total) / float64(len(values))))
}
