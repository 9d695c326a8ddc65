package models

import "time"

const (
	EventCategoryAuth    = "auth"
	EventCategoryCycle   = "cycle"
	EventCategoryProfile = "profile"
	EventCategoryGeneral = "general"
	EventCategoryAdmin   = "admin"
)

const (
	EventUserRegistered         = "user_registered"
	EventUserLogin              = "user_login"
	EventUserLogout             = "user_logout"
	EventPasswordChanged        = "password_changed_successfully"
	EventProfileUpdated         = "profile_updated"
	EventPreferencesUpdated     = "preferences_updated"
	EventPeriodAdded            = "period_added"
	EventPeriodUpdated          = "period_updated"
	EventPeriodDeleted          = "period_deleted"
	EventDataExportCompleted    = "data_export_completed"
	EventAdminPanelAccessed     = "admin_panel_accessed"
	EventUserAdminStatusChanged = "user_admin_status_changed"
	EventUserDeactivated        = "user_deactivated"
	EventUserReactivated        = "user_reactivated"
	EventPasswordResetCompleted = "password_reset_completed"
)

// UserEvent is one entry of a user's audit trail. UserID is the account that
// performed the action; admin actions name their target in Details.
type UserEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_user_events_user_created" json:"user_id"`
	Action    string         `gorm:"not null" json:"action"`
	Category  string         `gorm:"not null;default:'general'" json:"category"`
	Details   map[string]any `gorm:"serializer:json" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index:idx_user_events_user_created" json:"created_at"`
}
