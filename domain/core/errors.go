package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data errors
	ErrMalformedRecord = errors.New("malformed record")

	// Analysis errors
	ErrInsufficientSample = errors.New("insufficient sample for comparison")
	ErrDegenerateVariance = errors.New("both samples have zero variance")

	// Parameter errors
	ErrInvalidBounds = errors.New("invalid bounds")
)

// MalformedRecordError describes a data row that could not be decoded into a record.
// Line is 1-based and counts the header row.
type MalformedRecordError struct {
	Line   int
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s (value %q)", ErrMalformedRecord, e.Line, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s (value %q)", ErrMalformedRecord, e.Reason, e.Value)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Error constructors with context
func NewMalformedRecordError(line int, value, reason string) error {
	return &MalformedRecordError{Line: line, Value: value, Reason: reason}
}

func NewInsufficientSampleError(group string, size int) error {
	return fmt.Errorf("%w: group %q has %d observation(s), need at least 2", ErrInsufficientSample, group, size)
}

func NewDegenerateVarianceError(first, second string) error {
	return fmt.Errorf("%w: groups %q and %q contain identical values", ErrDegenerateVariance, first, second)
}

func NewInvalidBoundsError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrInvalidBounds, field, reason)
}

// Error checking helpers
func IsMalformedRecordError(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsSampleError reports whether err means the filtered data cannot support a comparison.
func IsSampleError(err error) bool {
	return errors.Is(err, ErrInsufficientSample) ||
		errors.Is(err, ErrDegenerateVariance)
}

func IsInvalidBoundsError(err error) bool {
	return errors.Is(err, ErrInvalidBounds)
}
