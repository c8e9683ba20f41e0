package booking

import (
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/timeutil"
)

// Validate checks a requested [start, end) slot against the existing
// bookings for the same resource and date. REJECTED and CANCELED
// bookings never constrain the check. The booking identified by
// excludeID is skipped so a reschedule does not conflict with its own
// prior slot.
//
// Two ranges overlap iff s1 < e2 && s2 < e1; back-to-back bookings
// (e1 == s2) are legal.
//
// The caller must run this against rows read inside the same transaction
// as the eventual write. On its own the check is advisory: two requests
// validating against a stale snapshot could both pass.
func Validate(start, end string, existing []model.Booking, excludeID string) error {
	s, err := timeutil.ParseTimeOfDay(start)
	if err != nil {
		return err
	}
	e, err := timeutil.ParseTimeOfDay(end)
	if err != nil {
		return err
	}
	if s >= e {
		return ErrInvalidRange
	}

	var conflicts []string
	for _, b := range existing {
		if b.ID == excludeID || !b.Status.Blocking() {
			continue
		}
		bs, err := timeutil.ParseTimeOfDay(b.StartTime)
		if err != nil {
			return err
		}
		be, err := timeutil.ParseTimeOfDay(b.EndTime)
		if err != nil {
			return err
		}
		if s < be && bs < e {
			conflicts = append(conflicts, b.ID)
		}
	}
	if len(conflicts) > 0 {
		return &ConflictError{IDs: conflicts}
	}
	return nil
}
