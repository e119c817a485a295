// Package apperr carries classified domain errors and maps them to HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Kind tags the class of a domain failure.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindUnauthorized
	KindConfig
	KindNotFound
)

// User-facing messages.
const (
	MsgUnauthorized  = "Unauthorized"
	MsgEmailExists   = "Email already exists"
	MsgInternalError = "Internal server error"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthorized:
		return "unauthorized"
	case KindConfig:
		return "config"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Failure describes one rejected field.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain failure annotated with its kind.
type Error struct {
	Kind     Kind
	Message  string
	Failures []Failure
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a validation error from a non-empty failure list.
// The message joins every failure message in order.
func Validation(failures []Failure) *Error {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Message)
	}
	return &Error{
		Kind:     KindValidation,
		Message:  strings.Join(msgs, "; "),
		Failures: failures,
	}
}

// InvalidData wraps a persistence-layer rejection of otherwise validated input.
func InvalidData(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// Duplicate wraps a unique-constraint violation on email.
func Duplicate(err error) *Error {
	return &Error{Kind: KindDuplicate, Message: MsgEmailExists, Err: err}
}

// Unauthorized wraps a credential or token failure.
func Unauthorized(err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized, Err: err}
}

// Config wraps a missing secret or connection string.
func Config(err error) *Error {
	return &Error{Kind: KindConfig, Message: "configuration error", Err: err}
}

// NotFound wraps an absent read or update target.
func NotFound(err error) *Error {
	return &Error{Kind: KindNotFound, Message: "not found", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Classify maps any error to the status code and message sent to the client.
// Unclassified, config and not-found errors never expose their detail.
func Classify(err error) (int, string) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, MsgInternalError
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest, e.Message
	case KindDuplicate:
		return http.StatusBadRequest, MsgEmailExists
	case KindUnauthorized:
		return http.StatusUnauthorized, MsgUnauthorized
	default:
		return http.StatusInternalServerError, MsgInternalError
	}
}
