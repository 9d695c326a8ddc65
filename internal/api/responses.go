package api

import (
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

// Response shapes render calendar days as YYYY-MM-DD strings.

type userResponse struct {
	ID                  uint       `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	BirthDate           string     `json:"birth_date,omitempty"`
	Age                 *int       `json:"age,omitempty"`
	WeightKg            *float64   `json:"weight_kg,omitempty"`
	TypicalCycleLength  int        `json:"typical_cycle_length"`
	TypicalPeriodLength int        `json:"typical_period_length"`
	LoginCount          int        `json:"login_count"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	MustChangePassword  bool       `json:"must_change_password"`
	IsAdmin             bool       `json:"is_admin"`
	IsActive            bool       `json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
}

func newUserResponse(user models.User, today time.Time) userResponse {
	response := userResponse{
		ID:                  user.ID,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		WeightKg:            user.WeightKg,
		TypicalCycleLength:  user.TypicalCycleLength,
		TypicalPeriodLength: user.TypicalPeriodLength,
		LoginCount:          user.LoginCount,
		LastLoginAt:         user.LastLoginAt,
		MustChangePassword:  user.MustChangePassword,
		IsAdmin:             user.IsAdmin,
		IsActive:            user.IsActive,
		CreatedAt:           user.CreatedAt,
	}
	if user.BirthDate != nil {
		response.BirthDate = services.FormatCalendarDate(*user.BirthDate)
		age := services.CalculateAge(*user.BirthDate, today)
		response.Age = &age
	}
	return response
}

type cycleRecordResponse struct {
	ID           uint      `json:"id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	PeriodLength *int      `json:"period_length,omitempty"`
	CycleLength  *int      `json:"cycle_length,omitempty"`
	Flow         string    `json:"flow,omitempty"`
	Symptoms     []string  `json:"symptoms"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newCycleRecordResponse(record models.CycleRecord) cycleRecordResponse {
	response := cycleRecordResponse{
		ID:           record.ID,
		StartDate:    services.FormatCalendarDate(record.StartDate),
		PeriodLength: record.PeriodLength,
		CycleLength:  record.CycleLength,
		Flow:         record.Flow,
		Symptoms:     record.Symptoms,
		Notes:        record.Notes,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if record.EndDate != nil {
		response.EndDate = services.FormatCalendarDate(*record.EndDate)
	}
	if response.Symptoms == nil {
		response.Symptoms = []string{}
	}
	return response
}

func newCycleRecordResponses(records []models.CycleRecord) []cycleRecordResponse {
	responses := make([]cycleRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, newCycleRecordResponse(record))
	}
	return responses
}

type predictionResponse struct {
	CycleIndex         int    `json:"cycle_index"`
	StartDate          string `json:"start_date"`
	Confidence         int    `json:"confidence"`
	OvulationDate      string `json:"ovulation_date"`
	FertileWindowStart string `json:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end"`
	AvgCycleLengthUsed int    `json:"avg_cycle_length_used"`
}

func newPredictionResponses(predictions []services.Prediction) []predictionResponse {
	responses := make([]predictionResponse, 0, len(predictions))
	for _, prediction := range predictions {
		responses = append(responses, predictionResponse{
			CycleIndex:         prediction.CycleIndex,
			StartDate:          services.FormatCalendarDate(prediction.StartDate),
			Confidence:         prediction.Confidence,
			OvulationDate:      services.FormatCalendarDate(prediction.OvulationDate),
			FertileWindowStart: services.FormatCalendarDate(prediction.FertileWindowStart),
			FertileWindowEnd:   services.FormatCalendarDate(prediction.FertileWindowEnd),
			AvgCycleLengthUsed: prediction.AvgCycleLengthUsed,
		})
	}
	return responses
}

type lateStatusResponse struct {
	Available           bool   `json:"available"`
	IsLate              bool   `json:"is_late,omitempty"`
	DaysLate            int    `json:"days_late,omitempty"`
	ExpectedDate        string `json:"expected_date,omitempty"`
	LastPeriodDate      string `json:"last_period_date,omitempty"`
	DaysSinceLastPeriod int    `json:"days_since_last_period,omitempty"`
}

func newLateStatusResponse(status *services.LateStatus) lateStatusResponse {
	if status == nil {
		return lateStatusResponse{Available: false}
	}
	return lateStatusResponse{
		Available:           true,
		IsLate:              status.IsLate,
		DaysLate:            status.DaysLate,
		ExpectedDate:        services.FormatCalendarDate(status.ExpectedDate),
		LastPeriodDate:      services.FormatCalendarDate(status.LastPeriodDate),
		DaysSinceLastPeriod: status.DaysSinceLastPeriod,
	}
}

type conceptionPlanResponse struct {
	TargetDeliveryDate    string `json:"target_delivery_date"`
	OptimalConceptionDate string `json:"optimal_conception_date"`
	CycleNumber           int    `json:"cycle_number"`
	PeriodStart           string `json:"period_start"`
	FertileWindowStart    string `json:"fertile_window_start"`
	FertileWindowEnd      string `json:"fertile_window_end"`
	OvulationDate         string `json:"ovulation_date"`
	DaysFromNow           int    `json:"days_from_now"`
}

func newConceptionPlanResponse(plan services.ConceptionPlan) conceptionPlanResponse {
	return conceptionPlanResponse{
		TargetDeliveryDate:    services.FormatCalendarDate(plan.TargetDeliveryDate),
		OptimalConceptionDate: services.FormatCalendarDate(plan.OptimalConceptionDate),
		CycleNumber:           plan.CycleNumber,
		PeriodStart:           services.FormatCalendarDate(plan.PeriodStart),
		FertileWindowStart:    services.FormatCalendarDate(plan.FertileWindowStart),
		FertileWindowEnd:      services.FormatCalendarDate(plan.FertileWindowEnd),
		OvulationDate:         services.FormatCalendarDate(plan.OvulationDate),
		DaysFromNow:           plan.DaysFromNow,
	}
}

type dashboardResponse struct {
	Preferences models.UserPreferences   `json:"preferences"`
	Statistics  services.CycleStatistics `json:"statistics"`
	Predictions []predictionResponse     `json:"predictions"`
	LateStatus  lateStatusResponse       `json:"late_status"`
	Summary     services.CycleSummary    `json:"summary"`
}

func newDashboardResponse(dashboard services.Dashboard) dashboardResponse {
	return dashboardResponse{
		Preferences: dashboard.Preferences,
		Statistics:  dashboard.Statistics,
		Predictions: newPredictionResponses(dashboard.Predictions),
		LateStatus:  newLateStatusResponse(dashboard.LateStatus),
		Summary:     dashboard.Summary,
	}
}

type userEventResponse struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	Action    string         `json:"action"`
	Category  string         `json:"category"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func newUserEventResponses(events []models.UserEvent) []userEventResponse {
	responses := make([]userEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, userEventResponse{
			ID:        event.ID,
			UserID:    event.UserID,
			Action:    event.Action,
			Category:  event.Category,
			Details:   event.Details,
			CreatedAt: event.CreatedAt,
		})
	}
	return responses
}
