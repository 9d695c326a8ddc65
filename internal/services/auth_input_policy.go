package services

import (
	"errors"
	"net/mail"
	"strings"
)

// maxEmailLength is the RFC 5321 limit for a forward path.
const maxEmailLength = 254

var ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")

// NormalizeAuthEmail lower-cases and trims an address and returns "" unless
// it is a bare addr-spec. Display-name forms such as "Ada <ada@example.com>"
// parse successfully but would store the whole header text as the login key,
// so they are rejected.
func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > maxEmailLength {
		return ""
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Name != "" || parsed.Address != email {
		return ""
	}
	return email
}

// NormalizeCredentialsInput prepares register and login input so that both
// paths look users up by the same key.
func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (email string, password string, err error) {
	email = NormalizeAuthEmail(emailRaw)
	password = strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}
