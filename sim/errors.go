package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/indexbeat/signal"
)

// Error kinds surfaced per horizon. Classify with errors.Is.
var (
	ErrInsufficientHistory  = errors.New("insufficient history")
	ErrInvalidIndicatorData = errors.New("invalid indicator data")
	ErrNonPositivePrice     = errors.New("non-positive price")
)

// DayError attaches the offending day and field to one of the error kinds.
type DayError struct {
	Kind  error
	Day   int
	Field signal.Field
	Value float64
}

func (e *DayError) Error() string {
	return fmt.Sprintf("%v: day %d %s=%v", e.Kind, e.Day, e.Field, e.Value)
}

func (e *DayError) Unwrap() error { return e.Kind }
