package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
	"secret": true,
}

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder value")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
)

// Config is the process configuration read from the environment.
type Config struct {
	Port               int    `validate:"min=1,max=65535"`
	DBPath             string `validate:"required"`
	SecretKey          string `validate:"required,min=32"`
	TimeZone           string `validate:"required"`
	LogLevel           string `validate:"oneof=trace debug info warn warning error"`
	Environment        string `validate:"required"`
	CookieSecure       bool
	ReminderCron       string `validate:"required"`
	ReminderDaysBefore int    `validate:"min=0,max=30"`
	TelegramBotToken   string
	TelegramChatID     string `validate:"required_with=TelegramBotToken"`

	Location *time.Location `validate:"-"`
}

// Load reads an optional .env file without overriding variables that are
// already set, then builds and validates the configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// DatabasePath resolves DB_PATH alone for maintenance commands that never
// serve HTTP.
func DatabasePath() string {
	_ = godotenv.Load()
	return defaultDBPath()
}

func FromEnv() (*Config, error) {
	secretKey, err := ResolveSecretKey()
	if err != nil {
		return nil, err
	}
	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	reminderDays, err := intEnv("REMINDER_DAYS_BEFORE", 2)
	if err != nil {
		return nil, err
	}
	cookieSecure, err := boolEnv("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               port,
		DBPath:             defaultDBPath(),
		SecretKey:          secretKey,
		TimeZone:           stringEnv("TZ", "UTC"),
		LogLevel:           strings.ToLower(stringEnv("LOG_LEVEL", "info")),
		Environment:        strings.ToLower(stringEnv("ENVIRONMENT", "development")),
		CookieSecure:       cookieSecure,
		ReminderCron:       stringEnv("REMINDER_CRON", "0 9 * * *"),
		ReminderDaysBefore: reminderDays,
		TelegramBotToken:   strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:     strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = location
	return cfg, nil
}

func (cfg *Config) ListenAddress() string {
	return ":" + strconv.Itoa(cfg.Port)
}

func (cfg *Config) RemindersEnabled() bool {
	return cfg.TelegramBotToken != "" && cfg.TelegramChatID != ""
}

func ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case insecureSecretKeys[strings.ToLower(secret)]:
		return "", ErrSecretKeyPlaceholder
	case len(secret) < minSecretKeyLength:
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func defaultDBPath() string {
	return stringEnv("DB_PATH", filepath.Join("data", "fertitrack.db"))
}

func stringEnv(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
