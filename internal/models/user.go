package models

import "time"

type User struct {
	ID                  uint       `gorm:"primaryKey"`
	Email               string     `gorm:"uniqueIndex;not null"`
	PasswordHash        string     `gorm:"not null"`
	FirstName           string     `gorm:"not null;default:''"`
	LastName            string     `gorm:"not null;default:''"`
	BirthDate           *time.Time `gorm:"type:date"`
	WeightKg            *float64
	TypicalCycleLength  int `gorm:"not null;default:28"`
	TypicalPeriodLength int `gorm:"not null;default:5"`
	LoginCount          int `gorm:"not null;default:0"`
	LastLoginAt         *time.Time
	MustChangePassword  bool      `gorm:"not null;default:false"`
	IsAdmin             bool      `gorm:"not null;default:false"`
	IsActive            bool      `gorm:"not null;default:true"`
	CreatedAt           time.Time `gorm:"not null"`
}

// UserPreferences is the read-only view of a user's cycle settings consumed by
// the prediction engine.
type UserPreferences struct {
	TypicalCycleLength  int `json:"typical_cycle_length"`
	TypicalPeriodLength int `json:"typical_period_length"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		TypicalCycleLength:  DefaultCycleLength,
		TypicalPeriodLength: DefaultPeriodLength,
	}
}

func (user User) Preferences() UserPreferences {
	return UserPreferences{
		TypicalCycleLength:  user.TypicalCycleLength,
		TypicalPeriodLength: user.TypicalPeriodLength,
	}
}

func (user User) FullName() string {
	switch {
	case user.FirstName != "" && user.LastName != "":
		return user.FirstName + " " + user.LastName
	case user.FirstName != "":
		return user.FirstName
	default:
		return user.LastName
	}
}
