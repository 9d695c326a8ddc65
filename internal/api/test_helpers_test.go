package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/terraincognita07/fertitrack/internal/db"
	"gorm.io/gorm"
)

const (
	testPassword  = "Str0ng!Pass"
	testSecretKey = "test-secret-key-with-at-least-32-characters"
)

var testNow = time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	logger, _ := test.NewNullLogger()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "fertitrack-api.db"), logger)
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

	handler, err := NewHandler(database, []byte(testSecretKey), time.UTC, false, logger)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	return testApp{app: NewApp(handler, nil), handler: handler, database: database}
}

func (env testApp) request(t *testing.T, method string, path string, body any, authCookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

// registerUser creates an account and returns its session cookie value.
func (env testApp) registerUser(t *testing.T, email string) string {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":            email,
		"password":         testPassword,
		"confirm_password": testPassword,
		"first_name":       "Ada",
	}, "")
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, response.StatusCode)
	}

	cookie := responseCookie(response, authCookieName)
	if cookie == "" {
		t.Fatalf("register %s: expected auth cookie", email)
	}
	return cookie
}

func (env testApp) createCycle(t *testing.T, authCookie string, payload map[string]any) cycleRecordResponse {
	t.Helper()

	response := env.request(t, http.MethodPost, "/api/cycles", payload, authCookie)
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create cycle: expected 201, got %d (%s)", response.StatusCode, readBody(t, response))
	}
	record := cycleRecordResponse{}
	decodeJSON(t, response, &record)
	return record
}

func responseCookie(response *http.Response, name string) string {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func hasClearedCookie(response *http.Response, name string) bool {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name && cookie.Value == "" {
			return true
		}
	}
	return false
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}

func assertStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, response.StatusCode)
	}
}
