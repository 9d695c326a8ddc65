package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultReminderCron  = "0 9 * * *"
	reminderSweepTimeout = 5 * time.Minute
)

type ReminderScheduler struct {
	cronEngine *cron.Cron
	reminders  *ReminderService
	schedule   string
	now        func() time.Time
	log        logrus.FieldLogger
}

func NewReminderScheduler(reminders *ReminderService, schedule string, location *time.Location, log logrus.FieldLogger) *ReminderScheduler {
	if location == nil {
		location = time.UTC
	}
	if schedule == "" {
		schedule = DefaultReminderCron
	}
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		reminders:  reminders,
		schedule:   schedule,
		now:        time.Now,
		log:        log,
	}
}

func (scheduler *ReminderScheduler) Start() error {
	if _, err := scheduler.cronEngine.AddFunc(scheduler.schedule, scheduler.runSweep); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", scheduler.schedule, err)
	}
	scheduler.cronEngine.Start()
	scheduler.log.WithField("schedule", scheduler.schedule).Info("reminder scheduler started")
	return nil
}

// Stop waits for a running sweep to finish.
func (scheduler *ReminderScheduler) Stop() {
	<-scheduler.cronEngine.Stop().Done()
	scheduler.log.Info("reminder scheduler stopped")
}

func (scheduler *ReminderScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderSweepTimeout)
	defer cancel()

	delivered, err := scheduler.reminders.Sweep(ctx, scheduler.now())
	if err != nil {
		scheduler.log.WithError(err).Error("reminder sweep failed")
		return
	}
	scheduler.log.WithField("delivered", delivered).Debug("reminder sweep finished")
}
