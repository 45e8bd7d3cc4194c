package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by services. Controllers translate these into the
// JSON error envelope.
var (
	// ErrNotFound means the target entity does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConcurrencyConflict means the row was modified by someone else since
	// it was loaded; the caller must reload and retry
	ErrConcurrencyConflict = errors.New("record was modified concurrently")
)

// ValidationError is a field-level validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferenceNotFoundError means a submitted value does not resolve to an
// existing record (e.g. an unknown car serial number or fault type id).
// It is surfaced as a field-level failure, not as a generic not-found.
type ReferenceNotFoundError struct {
	Field   string
	Message string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConstraintViolationError means a delete was rejected because another record
// still references the target
type ConstraintViolationError struct {
	Message string
}

func (e *ConstraintViolationError) Error() string {
	return e.Message
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// Works with both PostgreSQL and SQLite driver messages.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
