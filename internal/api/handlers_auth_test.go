package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terraincognita07/fertitrack/internal/models"
	"github.com/terraincognita07/fertitrack/internal/services"
)

func TestHealthz(t *testing.T) {
	env := newTestApp(t)

	response := env.request(t, http.MethodGet, "/healthz", nil, "")
	defer response.Body.Close()
	assertStatus(t, response, http.StatusOK)
	if response.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRegisterIssuesSessionAndMeReturnsUser(t *testing.T) {
	env := newTestApp(t)
	cookie := env.registerUser(t, "Ada@Example.com")

	response := env.request(t, http.MethodGet, "/api/auth/me", nil, cookie)
	defer response.Body.Close()
	assertStatus(t, response, http.StatusOK)

	user := userResponse{}
	decodeJSON(t, response, &user)
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.FirstName != "Ada" {
		t.Fatalf("expected first name Ada, got %q", user.FirstName)
	}
	if user.TypicalCycleLength != models.DefaultCycleLength || user.TypicalPeriodLength != models.DefaultPeriodLength {
		t.Fatalf("expected default preferences, got %d/%d", user.TypicalCycleLength, user.TypicalPeriodLength)
	}
}

func TestRegisterRejections(t *testing.T) {
	env := newTestApp(t)
	env.registerUser(t, "taken@example.com")

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing password",
			body:       map[string]any{"email": "a@example.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "password is required",
		},
		{
			name:       "weak password",
			body:       map[string]any{"email": "a@example.com", "password": "weakpass", "confirm_password": "weakpass"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "confirmation mismatch",
			body:       map[string]any{"email": "a@example.com", "password": testPassword, "confirm_password": testPassword + "x"},
			wantStatus: http.StatusBadRequest,
			wantError:  "passwords do not match",
		},
		{
			name:       "malformed birth date",
			body:       map[string]any{"email": "a@example.com", "password": testPassword, "confirm_password": testPassword, "birth_date": "20-01-1990"},
			wantStatus: http.StatusBadRequest,
			wantError:  "birth_date must be a YYYY-MM-DD date",
		},
		{
			name:       "display name email",
			body:       map[string]any{"email": "Ada <ada@example.com>", "password": testPassword, "confirm_password": testPassword},
			wantStatus: http.StatusBadRequest,
			wantError:  "valid email and password are required",
		},
		{
			name:       "duplicate email",
			body:       map[string]any{"email": " TAKEN@example.com ", "password": testPassword, "confirm_password": testPassword},
			wantStatus: http.StatusConflict,
			wantError:  "email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := env.request(t, http.MethodPost, "/api/auth/register", tt.body, "")
			defer response.Body.Close()
			assertStatus(t, response, tt.wantStatus)
			message := readAPIError(t, response)
			if tt.wantError != "" && message != tt.wantError {
				t.Fatalf("expected error %q, got %q", tt.wantError, message)
			}
		})
	}
}

func TestLoginAcceptsValidCredentialsAndBearerToken(t *testing.T) {
	env := newTestApp(t)
	env.registerUser(t, "ada@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "  ADA@Example.COM ",
		"password": testPassword,
	}, "")
	defer response.Body.Close()
	assertStatus(t, response, http.StatusOK)
	if responseCookie(response, authCookieName) == "" {
		t.Fatal("expected login to set auth cookie")
	}

	payload := struct {
		User  userResponse `json:"user"`
		Token string       `json:"token"`
	}{}
	decodeJSON(t, response, &payload)
	if payload.User.LoginCount != 1 {
		t.Fatalf("expected login_count 1, got %d", payload.User.LoginCount)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	request.Header.Set("Authorization", "Bearer "+payload.Token)
	meResponse, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	defer meResponse.Body.Close()
	assertStatus(t, meResponse, http.StatusOK)
}

func TestLoginRejectsBadCredentialsAndThrottles(t *testing.T) {
	env := newTestApp(t)
	env.registerUser(t, "ada@example.com")

	bad := map[string]any{"email": "ada@example.com", "password": "Wr0ng!Pass"}
	for attempt := 1; attempt <= loginFailureLimit; attempt++ {
		response := env.request(t, http.MethodPost, "/api/auth/login", bad, "")
		assertStatus(t, response, http.StatusUnauthorized)
		if message := readAPIError(t, response); message != "invalid credentials" {
			t.Fatalf("attempt %d: expected invalid credentials, got %q", attempt, message)
		}
		response.Body.Close()
	}

	response := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": testPassword,
	}, "")
	defer response.Body.Close()
	assertStatus(t, response, http.StatusTooManyRequests)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	env := newTestApp(t)

	response := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": testPassword,
	}, "")
	defer response.Body.Close()
	assertStatus(t, response, http.StatusUnauthorized)
	if message := readAPIError(t, response); message != "invalid credentials" {
		t.Fatalf("expected invalid credentials, got %q", message)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestApp(t)
	cookie := env.registerUser(t, "ada@example.com")

	response := env.request(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	defer response.Body.Close()
	assertStatus(t, response, http.StatusOK)
	if !hasClearedCookie(response, authCookieName) {
		t.Fatal("expected logout to clear the auth cookie")
	}
}

func TestAuthRequiredRejectsMissingAndForgedTokens(t *testing.T) {
	env := newTestApp(t)
	env.registerUser(t, "ada@example.com")

	forged, err := services.BuildSessionToken([]byte("another-secret-key-with-32-characters!!"), 1, "hash", 0, testNow)
	if err != nil {
		t.Fatalf("build forged token: %v", err)
	}
	stale, err := services.BuildSessionToken([]byte(testSecretKey), 1, "old-password-hash", 0, testNow)
	if err != nil {
		t.Fatalf("build stale token: %v", err)
	}

	tests := []struct {
		name        string
		cookie      string
		wantCleared bool
	}{
		{name: "missing", cookie: ""},
		{name: "garbage", cookie: "not-a-token", wantCleared: true},
		{name: "wrong signing key", cookie: forged, wantCleared: true},
		{name: "stale password state", cookie: stale, wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := env.request(t, http.MethodGet, "/api/cycles", nil, tt.cookie)
			defer response.Body.Close()
			assertStatus(t, response, http.StatusUnauthorized)
			if got := hasClearedCookie(response, authCookieName); got != tt.wantCleared {
				t.Fatalf("expected cleared cookie %v, got %v", tt.wantCleared, got)
			}
		})
	}
}
