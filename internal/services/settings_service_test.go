package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/fertitrack/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type stubSettingsUserRepo struct {
	user      models.User
	updates   map[string]any
	updateErr error
}

func (stub *stubSettingsUserRepo) FindByID(uint) (models.User, error) {
	return stub.user, nil
}

func (stub *stubSettingsUserRepo) UpdateByID(_ uint, updates map[string]any) error {
	if stub.updateErr != nil {
		return stub.updateErr
	}
	stub.updates = updates
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func floatPtr(value float64) *float64 {
	return &value
}

func TestSettingsUpdatePreferences(t *testing.T) {
	repo := &stubSettingsUserRepo{}
	service := NewSettingsService(repo)

	saved, err := service.UpdatePreferences(1, models.UserPreferences{TypicalCycleLength: 32, TypicalPeriodLength: 6})
	if err != nil {
		t.Fatalf("UpdatePreferences() unexpected error: %v", err)
	}
	if saved.TypicalCycleLength != 32 || repo.updates["typical_cycle_length"] != 32 || repo.updates["typical_period_length"] != 6 {
		t.Fatalf("unexpected saved preferences %#v updates=%v", saved, repo.updates)
	}
}

func TestSettingsUpdatePreferencesRejectsOutOfDomain(t *testing.T) {
	cases := []models.UserPreferences{
		{TypicalCycleLength: 14, TypicalPeriodLength: 5},
		{TypicalCycleLength: 46, TypicalPeriodLength: 5},
		{TypicalCycleLength: 28, TypicalPeriodLength: 0},
		{TypicalCycleLength: 28, TypicalPeriodLength: 11},
		{TypicalCycleLength: -3, TypicalPeriodLength: 5},
	}
	for _, prefs := range cases {
		repo := &stubSettingsUserRepo{}
		_, err := NewSettingsService(repo).UpdatePreferences(1, prefs)
		if !errors.Is(err, ErrInvalidPreferences) {
			t.Fatalf("expected ErrInvalidPreferences for %#v, got %v", prefs, err)
		}
		if repo.updates != nil {
			t.Fatalf("expected nothing saved for %#v", prefs)
		}
	}
}

func TestSettingsUpdateProfile(t *testing.T) {
	repo := &stubSettingsUserRepo{user: models.User{ID: 1, FirstName: "Ada"}}
	service := NewSettingsService(repo)
	today := mustParseDay(t, "2026-03-01")

	_, err := service.UpdateProfile(1, ProfileInput{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		BirthDate: dayPtr(t, "1990-07-15"),
		WeightKg:  floatPtr(61.5),
	}, today)
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}
	if repo.updates["first_name"] != "Ada" || repo.updates["weight_kg"] != 61.5 {
		t.Fatalf("unexpected updates %v", repo.updates)
	}

	if _, err := service.UpdateProfile(1, ProfileInput{BirthDate: dayPtr(t, "2026-03-02")}, today); !errors.Is(err, ErrProfileBirthDateInFuture) {
		t.Fatalf("expected ErrProfileBirthDateInFuture, got %v", err)
	}
	if _, err := service.UpdateProfile(1, ProfileInput{WeightKg: floatPtr(0)}, today); !errors.Is(err, ErrProfileWeightOutOfRange) {
		t.Fatalf("expected ErrProfileWeightOutOfRange, got %v", err)
	}
	longName := strings.Repeat("a", 65)
	if _, err := service.UpdateProfile(1, ProfileInput{FirstName: longName}, today); !errors.Is(err, ErrProfileNameTooLong) {
		t.Fatalf("expected ErrProfileNameTooLong, got %v", err)
	}
}

func TestCalculateAge(t *testing.T) {
	tests := []struct {
		birth string
		today string
		want  int
	}{
		{birth: "1990-07-15", today: "2026-07-14", want: 35},
		{birth: "1990-07-15", today: "2026-07-15", want: 36},
		{birth: "2000-02-29", today: "2026-02-28", want: 25},
		{birth: "2000-02-29", today: "2026-03-01", want: 26},
	}
	for _, tc := range tests {
		if got := CalculateAge(mustParseDay(t, tc.birth), mustParseDay(t, tc.today)); got != tc.want {
			t.Fatalf("CalculateAge(%s, %s) = %d, want %d", tc.birth, tc.today, got, tc.want)
		}
	}
}

func TestSettingsChangePassword(t *testing.T) {
	user := models.User{ID: 1, PasswordHash: mustHashPassword(t, "StrongPass1!"), MustChangePassword: true}

	tests := []struct {
		name    string
		current string
		next    string
		confirm string
		want    error
	}{
		{name: "incomplete", current: " ", next: "NewPass1!x", confirm: "NewPass1!x", want: ErrPasswordChangeIncomplete},
		{name: "mismatch", current: "StrongPass1!", next: "NewPass1!x", confirm: "NewPass1!y", want: ErrPasswordConfirmMismatch},
		{name: "wrong current", current: "WrongPass1!", next: "NewPass1!x", confirm: "NewPass1!x", want: ErrCurrentPasswordInvalid},
		{name: "unchanged", current: "StrongPass1!", next: "StrongPass1!", confirm: "StrongPass1!", want: ErrNewPasswordUnchanged},
		{name: "weak", current: "StrongPass1!", next: "12345678", confirm: "12345678", want: ErrWeakPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubSettingsUserRepo{}
			err := NewSettingsService(repo).ChangePassword(user, tc.current, tc.next, tc.confirm)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if repo.updates != nil {
				t.Fatalf("expected no update on rejected change")
			}
		})
	}

	repo := &stubSettingsUserRepo{}
	if err := NewSettingsService(repo).ChangePassword(user, "StrongPass1!", "NewPass1!x", "NewPass1!x"); err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}
	hash, _ := repo.updates["password_hash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewPass1!x")) != nil {
		t.Fatalf("expected stored hash to match new password")
	}
	if repo.updates["must_change_password"] != false {
		t.Fatalf("expected must_change_password cleared")
	}
}
