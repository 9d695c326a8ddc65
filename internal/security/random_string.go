package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet  = "abcdefghijkmnopqrstuvwxyz"
	digitAlphabet  = "23456789"
	symbolAlphabet = "!#$%*+-=?@"

	minTemporaryPasswordLength = 12
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	value := make([]byte, length)
	for index := range value {
		position, err := randomIndex(len(alphabet))
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position]
	}

	return string(value), nil
}

// TemporaryPassword returns a random password holding at least one upper case
// letter, lower case letter, digit and symbol. Lengths below 12 are raised to 12.
// Ambiguous characters (0, O, 1, l, I) are never used.
func TemporaryPassword(length int) (string, error) {
	if length < minTemporaryPasswordLength {
		length = minTemporaryPasswordLength
	}

	classes := []string{upperAlphabet, lowerAlphabet, digitAlphabet, symbolAlphabet}
	value := make([]byte, 0, length)
	for _, alphabet := range classes {
		char, err := RandomString(1, alphabet)
		if err != nil {
			return "", err
		}
		value = append(value, char[0])
	}

	rest, err := RandomString(length-len(value), upperAlphabet+lowerAlphabet+digitAlphabet+symbolAlphabet)
	if err != nil {
		return "", err
	}
	value = append(value, rest...)

	for index := len(value) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		value[index], value[swap] = value[swap], value[index]
	}
	return string(value), nil
}

func randomIndex(limit int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}
