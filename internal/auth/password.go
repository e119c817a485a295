// Package auth provides credential hashing, bearer tokens and request auth context.
package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored client passwords.
const PasswordCost = 10

// MaxPasswordBytes is the most input bcrypt reads. Longer passwords are cut
// to this length before hashing and comparing.
const MaxPasswordBytes = 72

// HashPassword creates a salted bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash.
// A mismatch or a malformed hash both return false.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// bcryptInput truncates to MaxPasswordBytes without splitting a UTF-8 sequence.
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) <= MaxPasswordBytes {
		return b
	}
	n := MaxPasswordBytes
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}
