package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terraincognita07/fertitrack/internal/models"
)

const (
	telegramAPIBaseURL    = "https://api.telegram.org"
	telegramClientTimeout = 8 * time.Second
)

// Notifier delivers a reminder message about user.
type Notifier interface {
	Notify(ctx context.Context, user models.User, message string) error
}

type TelegramNotifier struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramNotifier returns nil when either credential is empty, which
// callers treat as reminders being disabled.
func NewTelegramNotifier(botToken string, chatID string) *TelegramNotifier {
	botToken = strings.TrimSpace(botToken)
	chatID = strings.TrimSpace(chatID)
	if botToken == "" || chatID == "" {
		return nil
	}
	return &TelegramNotifier{
		baseURL:  telegramAPIBaseURL,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: telegramClientTimeout},
	}
}

func (notifier *TelegramNotifier) WithBaseURL(baseURL string) *TelegramNotifier {
	notifier.baseURL = strings.TrimRight(baseURL, "/")
	return notifier
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, _ models.User, message string) error {
	values := url.Values{}
	values.Set("chat_id", notifier.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", notifier.baseURL, notifier.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
