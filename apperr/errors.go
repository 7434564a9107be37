package apperr //import "github.com/hondana-dev/hondana/apperr"

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for storage-level failures. Wrap with errors.Wrap to add
// context; check with errors.Is.
var (
	// ErrNotFound indicates the delete/update target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntry indicates a uniqueness constraint was violated.
	// Series creation converts this into a re-lookup; everything else
	// surfaces it.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrForeignKey indicates a reference to a missing row, e.g. a book
	// pointing at a deleted series.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrConstraint is any other storage constraint failure.
	ErrConstraint = errors.New("constraint violation")
)

// FieldViolation is one failed schema rule on one input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of an input. Never retried.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
	return e
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Violations) == 0
}

// NetworkError is a transient remote failure. Retryable errors are retried
// with bounded backoff before being surfaced.
type NetworkError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRetryable reports whether err may be retried automatically.
// Validation and constraint errors never are.
func IsRetryable(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return false
}
