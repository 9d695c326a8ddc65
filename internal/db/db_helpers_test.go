package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/terraincognita07/fertitrack/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	database, err := OpenSQLite(filepath.Join(t.TempDir(), "fertitrack-test.db"), logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		Email:               email,
		PasswordHash:        "hash",
		TypicalCycleLength:  models.DefaultCycleLength,
		TypicalPeriodLength: models.DefaultPeriodLength,
		CreatedAt:           time.Now().UTC(),
	}
	if err := NewUserRepository(database).Create(&user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}
