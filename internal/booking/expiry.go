package booking

import (
	"time"

	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/timeutil"
)

// DisplayStatus returns the status a client should render for b at the
// given instant. A PENDING booking whose end has passed renders as
// EXPIRED; the stored status is never touched, so an admin can still
// action a passed-but-unactioned request. A booking ending exactly at
// now is not expired, matching the half-open range semantics.
func DisplayStatus(b *model.Booking, now time.Time, loc *time.Location) (model.BookingStatus, error) {
	if b.Status != model.StatusPending {
		return b.Status, nil
	}
	end, err := timeutil.Combine(b.Date, b.EndTime, loc)
	if err != nil {
		return b.Status, err
	}
	if timeutil.Compare(end, now) < 0 {
		return model.StatusExpired, nil
	}
	return b.Status, nil
}
