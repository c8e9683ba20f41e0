package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
	"resource-booking-backend/internal/timeutil"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	workers *notification.WorkerPool
	clock   timeutil.Clock
	loc     *time.Location
}

// NewHandler creates a new API handler. workers may be nil when push
// delivery is not configured.
func NewHandler(s store.Store, webpushOptions *webpush.Options, workers *notification.WorkerPool, clock timeutil.Clock, loc *time.Location) *Handler {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		workers: workers,
		clock:   clock,
		loc:     loc,
	}
}

// dispatch hands a mutated booking to the push worker pool, if any.
func (h *Handler) dispatch(bookingID string) {
	if h.workers != nil {
		h.workers.Dispatch(bookingID)
	}
}
