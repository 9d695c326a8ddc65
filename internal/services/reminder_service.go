package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	DefaultReminderDaysBefore = 2
	maxTrackedReminders       = 500
)

type ReminderKind string

const (
	ReminderPeriodUpcoming ReminderKind = "period_upcoming"
	ReminderPeriodLate     ReminderKind = "period_late"
)

type Reminder struct {
	Kind    ReminderKind
	Message string
}

type ReminderUserLister interface {
	ListAll() ([]models.User, error)
}

type ReminderRecordLister interface {
	ListRecords(userID uint) ([]models.CycleRecord, error)
}

type ReminderService struct {
	users      ReminderUserLister
	records    ReminderRecordLister
	notifier   Notifier
	daysBefore int
	location   *time.Location
	log        logrus.FieldLogger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(users ReminderUserLister, records ReminderRecordLister, notifier Notifier, daysBefore int, location *time.Location, log logrus.FieldLogger) *ReminderService {
	if daysBefore < 0 {
		daysBefore = DefaultReminderDaysBefore
	}
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		users:      users,
		records:    records,
		notifier:   notifier,
		daysBefore: daysBefore,
		location:   location,
		log:        log,
		sent:       make(map[string]time.Time),
	}
}

// Sweep evaluates every active user against today's date in the configured location
// and returns the number of reminders delivered.
func (service *ReminderService) Sweep(ctx context.Context, now time.Time) (int, error) {
	users, err := service.users.ListAll()
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	today := DateAtLocation(now, service.location)
	delivered := 0
	for _, user := range users {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if !IsActiveUser(&user) {
			continue
		}

		records, err := service.records.ListRecords(user.ID)
		if err != nil {
			service.log.WithError(err).WithField("user_id", user.ID).Warn("reminders: load records failed")
			continue
		}

		reminders, err := BuildReminders(records, user.Preferences(), today, service.daysBefore)
		if err != nil {
			service.log.WithError(err).WithField("user_id", user.ID).Warn("reminders: evaluate cycle failed")
			continue
		}

		for _, reminder := range reminders {
			key := fmt.Sprintf("%s:%d:%s", reminder.Kind, user.ID, FormatCalendarDate(today))
			if !service.shouldSend(key, today) {
				continue
			}
			if err := service.notifier.Notify(ctx, user, reminder.Message); err != nil {
				service.forget(key)
				service.log.WithError(err).WithFields(logrus.Fields{
					"user_id": user.ID,
					"kind":    reminder.Kind,
				}).Warn("reminders: delivery failed")
				continue
			}
			delivered++
		}
	}
	return delivered, nil
}

// BuildReminders decides which reminders apply to one user on today.
func BuildReminders(records []models.CycleRecord, preferences models.UserPreferences, today time.Time, daysBefore int) ([]Reminder, error) {
	if len(records) == 0 {
		return nil, nil
	}

	predictions, err := PredictPeriods(records, preferences, 1)
	if err != nil {
		return nil, err
	}
	resolved, err := ResolvePreferences(preferences)
	if err != nil {
		return nil, err
	}
	status, _, err := CheckLatePeriod(records, resolved.TypicalCycleLength, today)
	if err != nil {
		return nil, err
	}

	reminders := make([]Reminder, 0, 2)
	if DaysBetween(today, predictions[0].StartDate) == daysBefore {
		reminders = append(reminders, Reminder{
			Kind: ReminderPeriodUpcoming,
			Message: fmt.Sprintf("FertiTrack reminder: your period is expected in %d day(s), on %s.",
				daysBefore, FormatCalendarDate(predictions[0].StartDate)),
		})
	}
	if status.IsLate {
		reminders = append(reminders, Reminder{
			Kind:    ReminderPeriodLate,
			Message: fmt.Sprintf("FertiTrack reminder: your period is %d day(s) late.", status.DaysLate),
		})
	}
	return reminders, nil
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && sentOn.Equal(today) {
		return false
	}

	if len(service.sent) >= maxTrackedReminders {
		service.sent = make(map[string]time.Time)
	}
	service.sent[key] = today
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}
