package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common errors for client repository operations.
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not defined")
)

// PostgreSQL SQLSTATE codes and classes.
const (
	codeUniqueViolation = "23505"
	classDataException  = "22"
	classIntegrity      = "23"
)

// ConstraintError reports input the database rejected after application validation,
// such as a value too long for its column or a NOT NULL violation.
type ConstraintError struct {
	Code    string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %s", e.Code, e.Message)
}

// translateError maps driver errors to repository errors.
// Errors it does not recognise are wrapped with op.
func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case pgErr.Code == codeUniqueViolation:
		return ErrEmailExists
	case strings.HasPrefix(pgErr.Code, classDataException), strings.HasPrefix(pgErr.Code, classIntegrity):
		return &ConstraintError{Code: pgErr.Code, Message: pgErr.Message}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
