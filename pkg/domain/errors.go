package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Failure is a stable, comparable error code. The string form is the contract
// surface propagated through results; callers match with errors.Is or by code.
type Failure string

// Error implements the error interface.
func (f Failure) Error() string { return string(f) }

// Stable failure codes returned by repository and data API operations.
const (
	// ErrIDExists reports a create with a colliding id.
	ErrIDExists Failure = "id_exists"
	// ErrNotFound reports a get/update/delete targeting a missing id or a
	// lookup matching no record.
	ErrNotFound Failure = "not_found"
	// ErrCorruptRow reports a matched row lacking an id field; this signals
	// store corruption rather than caller error.
	ErrCorruptRow Failure = "corrupt_row"
	// ErrMissingProduct reports a system referencing a product id that does
	// not exist.
	ErrMissingProduct Failure = "missing_product"
)

const uniqueViolationPrefix = "unique_violation:"

// UniqueViolation builds the failure code for a violated uniqueness rule on
// the named field.
func UniqueViolation(field string) Failure {
	return Failure(uniqueViolationPrefix + field)
}

// IsUniqueViolation reports whether err carries a unique_violation code and,
// if so, which field it names.
func IsUniqueViolation(err error) (string, bool) {
	var f Failure
	if !errors.As(err, &f) {
		return "", false
	}
	if rest, ok := strings.CutPrefix(string(f), uniqueViolationPrefix); ok {
		return rest, true
	}
	return "", false
}

// ReadError wraps a persistence read/deserialization failure. The detail is
// implementation-specific and not part of the stable contract.
func ReadError(err error) error {
	return fmt.Errorf("read error: %w", err)
}

// WriteError wraps a persistence write/serialization failure.
func WriteError(err error) error {
	return fmt.Errorf("write error: %w", err)
}

// DBError wraps an embedded-database failure.
func DBError(err error) error {
	return fmt.Errorf("db_error: %w", err)
}
