package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/api"
	"github.com/terraincognita07/fertitrack/internal/cli"
	"github.com/terraincognita07/fertitrack/internal/config"
	"github.com/terraincognita07/fertitrack/internal/db"
	"github.com/terraincognita07/fertitrack/internal/logger"
	"github.com/terraincognita07/fertitrack/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var errUsage = errors.New("usage: fertitrack [reset-password <email>]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	command, email, err := parseCommand(args)
	if err != nil {
		return err
	}
	if command == "reset-password" {
		log := logger.New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT"))
		return cli.RunResetPasswordCommand(config.DatabasePath(), email, stdout, log)
	}
	return serve(stdout)
}

func parseCommand(args []string) (string, string, error) {
	if len(args) == 0 {
		return "serve", "", nil
	}
	if args[0] == "reset-password" {
		if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
			return "", "", errUsage
		}
		return "reset-password", args[1], nil
	}
	return "", "", errUsage
}

func serve(stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(stdout, cfg.LogLevel, cfg.Environment)

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	handler, err := api.NewHandler(database, []byte(cfg.SecretKey), cfg.Location, cfg.CookieSecure, log)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	accessLog := log.WithField("component", "http").WriterLevel(logrus.InfoLevel)
	defer accessLog.Close()
	app := api.NewApp(handler, accessLog)

	scheduler := newReminderScheduler(cfg, database, log)
	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("reminder scheduler start failed: %w", err)
		}
		defer scheduler.Stop()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":      cfg.ListenAddress(),
		"db":        cfg.DBPath,
		"tz":        cfg.Location.String(),
		"reminders": scheduler != nil,
	}).Info("fertitrack listening")
	if err := app.Listen(cfg.ListenAddress()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// newReminderScheduler returns nil when no Telegram destination is configured.
func newReminderScheduler(cfg *config.Config, database *gorm.DB, log logrus.FieldLogger) *services.ReminderScheduler {
	if !cfg.RemindersEnabled() {
		return nil
	}

	repositories := db.NewRepositories(database)
	records := services.NewCycleRecordService(repositories.CycleRecords)
	notifier := services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	reminders := services.NewReminderService(repositories.Users, records, notifier, cfg.ReminderDaysBefore, cfg.Location, log)
	return services.NewReminderScheduler(reminders, cfg.ReminderCron, cfg.Location, log)
}
