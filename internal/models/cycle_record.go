package models

import "time"

const (
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// CycleRecord is one logged menstrual period. Optional lengths are nil when
// the user never supplied them.
type CycleRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index:idx_cycle_records_user_start" json:"-"`
	StartDate    time.Time  `gorm:"type:date;not null;index:idx_cycle_records_user_start" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	PeriodLength *int       `json:"period_length,omitempty"`
	CycleLength  *int       `json:"cycle_length,omitempty"`
	Flow         string     `gorm:"not null;default:''" json:"flow,omitempty"`
	Symptoms     []string   `gorm:"serializer:json" json:"symptoms"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EffectivePeriodLength falls back to DefaultPeriodLength for records logged
// without an explicit length.
func (record CycleRecord) EffectivePeriodLength() int {
	if record.PeriodLength == nil {
		return DefaultPeriodLength
	}
	return *record.PeriodLength
}

func IsKnownFlow(flow string) bool {
	switch flow {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}
