// Package apperr holds the three error kinds the API distinguishes:
// missing rows, rejected input and data-layer failures.
package apperr

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError is returned for bad input and for updates that would
// break a stock invariant. MaterialID is set when a material is to blame.
type ValidationError struct {
	Message    string
	Details    string
	MaterialID *int64
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func Invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func Invalidf(msg, format string, args ...any) *ValidationError {
	return &ValidationError{Message: msg, Details: fmt.Sprintf(format, args...)}
}

func InsufficientStock(materialID int64, details string) *ValidationError {
	id := materialID
	return &ValidationError{
		Message:    "Insufficient material inventory",
		Details:    details,
		MaterialID: &id,
	}
}

// DataAccessError wraps any failure coming out of the database layer.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access (%s): %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func DataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
