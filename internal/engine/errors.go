package engine

import (
	"errors"
	"fmt"
)

// ErrParserUnavailable is wrapped by Parser implementations when the parse
// service cannot be reached.
var ErrParserUnavailable = errors.New("cannot connect to parser")

// QueryError represents an error detected while answering a question.
//
// Query errors include:
//   - Invalid argument: unsupported output format
//   - Unknown operator: a property phrase uses a preposition with no mapping
//
// QueryError includes structured fields for diagnostics.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeInvalidArgument indicates bad caller input (e.g. format).
	ErrCodeInvalidArgument QueryErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnknownOperator indicates an unmapped comparison word.
	ErrCodeUnknownOperator QueryErrorCode = "UNKNOWN_OPERATOR"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidArgument returns true if the error is an invalid argument error.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsUnknownOperator returns true if the error is an unknown operator error.
func IsUnknownOperator(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == ErrCodeUnknownOperator
	}
	return false
}

// IsParserUnavailable returns true if the parse service could not be reached.
func IsParserUnavailable(err error) bool {
	return errors.Is(err, ErrParserUnavailable)
}

// NewFormatError creates a QueryError for an unsupported output format.
func NewFormatError(format string) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("undefined format: %s", format),
		Details: map[string]string{"format": format},
	}
}

// NewUnknownOperatorError creates a QueryError for an unmapped operator.
func NewUnknownOperatorError(op string) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnknownOperator,
		Message: fmt.Sprintf("no operator for %q", op),
		Details: map[string]string{"op": op},
	}
}
