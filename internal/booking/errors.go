package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRange is returned for zero-length or inverted time windows.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidTransition is returned for any status change the
	// transition table does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized is returned when the acting user may not trigger
	// the requested transition.
	ErrUnauthorized = errors.New("actor not authorized")

	ErrNotFound         = errors.New("booking not found")
	ErrResourceNotFound = errors.New("resource not found")
)

// ConflictError reports the bookings whose time ranges overlap a
// requested slot, so the caller can explain exactly what is in the way.
type ConflictError struct {
	IDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot overlaps bookings %s", strings.Join(e.IDs, ", "))
}
