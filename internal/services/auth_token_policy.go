package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultSessionTTL  = 7 * 24 * time.Hour
	sessionTokenIssuer = "fertitrack"
)

var (
	ErrSessionTokenMissing              = errors.New("missing session token")
	ErrSessionTokenInvalid              = errors.New("invalid session token")
	ErrSessionTokenExpired              = errors.New("expired session token")
	ErrSessionTokenInvalidPasswordState = errors.New("invalid session token password state")
)

// SessionClaims binds a session to the password hash it was issued under, so
// changing or resetting the password ends every existing session.
type SessionClaims struct {
	UserID        uint   `json:"uid"`
	PasswordState string `json:"pws"`
	jwt.RegisteredClaims
}

func BuildSessionToken(secretKey []byte, userID uint, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	passwordState := PasswordStateFingerprint(passwordHash)
	if passwordState == "" {
		return "", ErrSessionTokenInvalidPasswordState
	}

	claims := SessionClaims{
		UserID:        userID,
		PasswordState: passwordState,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionTokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

func ParseSessionToken(secretKey []byte, rawToken string, now time.Time) (*SessionClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrSessionTokenMissing
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionTokenExpired
		}
		return nil, ErrSessionTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrSessionTokenInvalid
	}
	if strings.TrimSpace(claims.PasswordState) == "" {
		return nil, ErrSessionTokenInvalidPasswordState
	}
	return claims, nil
}

func PasswordStateFingerprint(passwordHash string) string {
	normalizedHash := strings.TrimSpace(passwordHash)
	if normalizedHash == "" {
		return ""
	}

	sum := sha256.Sum256([]byte("fertitrack.session.password-state.v1:" + normalizedHash))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func IsPasswordStateFingerprintMatch(expected string, passwordHash string) bool {
	actual := PasswordStateFingerprint(passwordHash)
	if strings.TrimSpace(expected) == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
