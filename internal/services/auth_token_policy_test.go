package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestBuildAndParseSessionToken(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	passwordHash := "$2a$10$testhashvaluefortokenclaims"

	token, err := BuildSessionToken(secret, 42, passwordHash, time.Hour, now)
	if err != nil {
		t.Fatalf("BuildSessionToken() unexpected error: %v", err)
	}

	claims, err := ParseSessionToken(secret, token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("ParseSessionToken() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected UserID=42, got %d", claims.UserID)
	}
	if !IsPasswordStateFingerprintMatch(claims.PasswordState, passwordHash) {
		t.Fatalf("expected password state to match issuing hash")
	}
	if IsPasswordStateFingerprintMatch(claims.PasswordState, "$2a$10$differenthash") {
		t.Fatalf("expected password state mismatch after hash change")
	}
}

func TestParseSessionTokenRejections(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	passwordHash := "$2a$10$testhashvaluefortokenclaims"

	valid, err := BuildSessionToken(secret, 42, passwordHash, time.Minute, now)
	if err != nil {
		t.Fatalf("BuildSessionToken() unexpected error: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		UserID:        42,
		PasswordState: PasswordStateFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionTokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name   string
		secret []byte
		token  string
		at     time.Time
		want   error
	}{
		{name: "missing", secret: secret, token: " ", at: now, want: ErrSessionTokenMissing},
		{name: "expired", secret: secret, token: valid, at: now.Add(2 * time.Minute), want: ErrSessionTokenExpired},
		{name: "wrong secret", secret: []byte("other-secret"), token: valid, at: now, want: ErrSessionTokenInvalid},
		{name: "garbage", secret: secret, token: "not.a.jwt", at: now, want: ErrSessionTokenInvalid},
		{name: "unsigned", secret: secret, token: unsigned, at: now, want: ErrSessionTokenInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tc.secret, tc.token, tc.at); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildSessionTokenRequiresPasswordHash(t *testing.T) {
	_, err := BuildSessionToken([]byte("secret"), 1, " ", 0, time.Now())
	if !errors.Is(err, ErrSessionTokenInvalidPasswordState) {
		t.Fatalf("expected ErrSessionTokenInvalidPasswordState, got %v", err)
	}
}
