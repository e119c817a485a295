package service

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/model"
)

// Field length bounds, inclusive, counted in characters.
const (
	MinPasswordLength = 7
	MaxPasswordLength = 30
	MinNameLength     = 2
	MaxNameLength     = 50
	maxEmailLength    = 254
)

// validator accumulates field failures for one payload.
type validator struct {
	failures []apperr.Failure
}

func (v *validator) fail(field, format string, args ...any) {
	v.failures = append(v.failures, apperr.Failure{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) email(field, value string) {
	if !isEmail(value) {
		v.fail(field, "%s must be a valid email address", field)
	}
}

func (v *validator) length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		v.fail(field, "%s must be between %d and %d characters, got %d", field, min, max, n)
	}
}

func (v *validator) optionalLength(field string, value *string, min, max int) {
	if value != nil {
		v.length(field, *value, min, max)
	}
}

func (v *validator) err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.Validation(v.failures)
}

// isEmail accepts a bare addr-spec such as "a@b.com".
// Display names and angle-bracket forms are rejected.
func isEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}

// ValidateLogin checks a login payload.
func ValidateLogin(email, password string) error {
	var v validator
	v.email("email", email)
	v.length("password", password, MinPasswordLength, MaxPasswordLength)
	return v.err()
}

// ValidateCreate checks a client creation payload.
func ValidateCreate(in model.NewClientInput) error {
	var v validator
	v.email("email", in.Email)
	v.length("password", in.Password, MinPasswordLength, MaxPasswordLength)
	v.optionalLength("firstName", in.FirstName, MinNameLength, MaxNameLength)
	v.optionalLength("lastName", in.LastName, MinNameLength, MaxNameLength)
	return v.err()
}

// ValidateUpdate checks a client update payload. Every field is optional.
func ValidateUpdate(in model.UpdateClientInput) error {
	var v validator
	if in.Email != nil {
		v.email("email", *in.Email)
	}
	v.optionalLength("firstName", in.FirstName, MinNameLength, MaxNameLength)
	v.optionalLength("lastName", in.LastName, MinNameLength, MaxNameLength)
	return v.err()
}
