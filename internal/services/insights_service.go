package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	flowUnknown         = "unknown"
	topSymptomsLimit    = 3
	analyticsCycleFloor = models.DefaultCycleLength
)

type InsightsRecordReader interface {
	ListRecords(userID uint) ([]models.CycleRecord, error)
}

type InsightsService struct {
	records InsightsRecordReader
}

type CycleSummary struct {
	TotalCycles         int      `json:"total_cycles"`
	AveragePeriodLength int      `json:"average_period_length"`
	MostCommonFlow      string   `json:"most_common_flow"`
	TopSymptoms         []string `json:"top_symptoms"`
}

// Dashboard is computed from a single snapshot so predictions, lateness and
// statistics always agree with each other.
type Dashboard struct {
	Preferences models.UserPreferences `json:"preferences"`
	Statistics  CycleStatistics        `json:"statistics"`
	Predictions []Prediction           `json:"predictions"`
	LateStatus  *LateStatus            `json:"late_status"`
	Summary     CycleSummary           `json:"summary"`
}

type Analytics struct {
	CycleLengths        []int          `json:"cycle_lengths"`
	PeriodLengths       []int          `json:"period_lengths"`
	AverageCycleLength  int            `json:"average_cycle_length"`
	AveragePeriodLength int            `json:"average_period_length"`
	FlowDistribution    map[string]int `json:"flow_distribution"`
	SymptomDistribution map[string]int `json:"symptom_distribution"`
}

func NewInsightsService(records InsightsRecordReader) *InsightsService {
	return &InsightsService{records: records}
}

func (service *InsightsService) Predictions(user models.User, count int) ([]Prediction, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return nil, err
	}
	return PredictPeriods(records, user.Preferences(), count)
}

func (service *InsightsService) LateStatus(user models.User, today time.Time) (LateStatus, bool, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return LateStatus{}, false, err
	}
	return CheckLatePeriod(records, user.TypicalCycleLength, today)
}

func (service *InsightsService) ConceptionPlan(user models.User, targetMonth int, targetYear int, today time.Time) (ConceptionPlan, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return ConceptionPlan{}, err
	}
	return PlanConception(records, user.TypicalCycleLength, targetMonth, targetYear, today)
}

func (service *InsightsService) Dashboard(user models.User, today time.Time, count int) (Dashboard, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(records, user.Preferences(), today, count)
}

func (service *InsightsService) Analytics(user models.User) (Analytics, error) {
	records, err := service.records.ListRecords(user.ID)
	if err != nil {
		return Analytics{}, err
	}
	if err := ValidateCycleRecords(records); err != nil {
		return Analytics{}, err
	}
	return BuildAnalytics(records), nil
}

func BuildDashboard(records []models.CycleRecord, preferences models.UserPreferences, today time.Time, count int) (Dashboard, error) {
	preferences, err := ResolvePreferences(preferences)
	if err != nil {
		return Dashboard{}, err
	}

	predictions, err := PredictPeriods(records, preferences, count)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		Preferences: preferences,
		Statistics:  EstimateCycleStatistics(records, preferences.TypicalCycleLength),
		Predictions: predictions,
		Summary:     SummarizeCycles(records),
	}

	status, ok, err := CheckLatePeriod(records, preferences.TypicalCycleLength, today)
	if err != nil {
		return Dashboard{}, err
	}
	if ok {
		dashboard.LateStatus = &status
	}
	return dashboard, nil
}

func SummarizeCycles(records []models.CycleRecord) CycleSummary {
	summary := CycleSummary{
		TotalCycles:         len(records),
		AveragePeriodLength: models.DefaultPeriodLength,
		MostCommonFlow:      models.FlowMedium,
		TopSymptoms:         []string{},
	}
	if len(records) == 0 {
		return summary
	}

	summary.AveragePeriodLength = EstimateCycleStatistics(records, models.DefaultCycleLength).AveragePeriodLength

	flowCounts := make(map[string]int)
	for _, record := range records {
		if record.Flow != "" {
			flowCounts[record.Flow]++
		}
	}
	if flow, ok := mostFrequent(flowCounts, 1); ok {
		summary.MostCommonFlow = flow[0]
	}

	if symptoms, ok := mostFrequent(symptomCounts(records), topSymptomsLimit); ok {
		summary.TopSymptoms = symptoms
	}
	return summary
}

func BuildAnalytics(records []models.CycleRecord) Analytics {
	analytics := Analytics{
		CycleLengths:        PlausibleCycleDeltas(records),
		PeriodLengths:       make([]int, 0, len(records)),
		AverageCycleLength:  analyticsCycleFloor,
		AveragePeriodLength: models.DefaultPeriodLength,
		FlowDistribution:    make(map[string]int),
		SymptomDistribution: symptomCounts(records),
	}

	for _, record := range records {
		analytics.PeriodLengths = append(analytics.PeriodLengths, record.EffectivePeriodLength())
		flow := record.Flow
		if flow == "" {
			flow = flowUnknown
		}
		analytics.FlowDistribution[flow]++
	}

	if len(analytics.CycleLengths) > 0 {
		analytics.AverageCycleLength = roundedMean(analytics.CycleLengths)
	}
	if len(analytics.PeriodLengths) > 0 {
		analytics.AveragePeriodLength = roundedMean(analytics.PeriodLengths)
	}
	return analytics
}

func symptomCounts(records []models.CycleRecord) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		for _, symptom := range record.Symptoms {
			counts[symptom]++
		}
	}
	return counts
}

// mostFrequent returns up to limit keys by descending count, ties broken
// alphabetically.
func mostFrequent(counts map[string]int, limit int) ([]string, bool) {
	if len(counts) == 0 {
		return nil, false
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})

	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, true
}
