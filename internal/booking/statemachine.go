package booking

import (
	"fmt"
	"time"

	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/timeutil"
)

// ActorRole identifies who is driving a transition. Identity is always
// passed explicitly; there is no ambient "current user".
type ActorRole string

const (
	RoleRequester ActorRole = "REQUESTER"
	RoleAdmin     ActorRole = "ADMIN"
)

// Actor is the authenticated identity behind a state machine call.
type Actor struct {
	ID   string
	Role ActorRole
}

// The functions below are the only write path for Booking.Status. Each
// one checks the transition table, applies the side effects in place and
// leaves persistence to the caller, which must save the booking in the
// same transaction it was read in.

// Approve moves a PENDING booking to APPROVED. Only admins may approve,
// and only while the booking's window has not yet passed.
func Approve(b *model.Booking, actor Actor, notes string, now time.Time, loc *time.Location) error {
	if actor.Role != RoleAdmin {
		return ErrUnauthorized
	}
	if b.Status != model.StatusPending {
		return fmt.Errorf("%w: cannot approve a %s booking", ErrInvalidTransition, b.Status)
	}
	end, err := timeutil.Combine(b.Date, b.EndTime, loc)
	if err != nil {
		return err
	}
	if timeutil.Compare(end, now) < 0 {
		return fmt.Errorf("%w: booking window has passed", ErrInvalidTransition)
	}
	b.Status = model.StatusApproved
	b.LastAction = model.ActionApproved
	b.ApproverID = actor.ID
	b.ApprovedAt = &now
	b.Notes = notes
	b.UpdatedAt = now
	return nil
}

// Reject moves a PENDING booking to REJECTED. Only admins may reject.
func Reject(b *model.Booking, actor Actor, notes string, now time.Time) error {
	if actor.Role != RoleAdmin {
		return ErrUnauthorized
	}
	if b.Status != model.StatusPending {
		return fmt.Errorf("%w: cannot reject a %s booking", ErrInvalidTransition, b.Status)
	}
	b.Status = model.StatusRejected
	b.LastAction = model.ActionRejected
	b.ApproverID = actor.ID
	b.ApprovedAt = &now
	b.Notes = notes
	b.UpdatedAt = now
	return nil
}

// Cancel moves a PENDING or APPROVED booking to CANCELED. The requester
// may cancel their own booking; admins may cancel any.
func Cancel(b *model.Booking, actor Actor, now time.Time) error {
	if actor.Role != RoleAdmin && actor.ID != b.RequesterID {
		return ErrUnauthorized
	}
	if b.Status != model.StatusPending && b.Status != model.StatusApproved {
		return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, b.Status)
	}
	b.Status = model.StatusCanceled
	b.LastAction = model.ActionCanceled
	b.UpdatedAt = now
	return nil
}

// Reschedule overwrites the slot of a still-PENDING booking. The caller
// must have validated the new range against the other bookings for the
// target (resource, date) first, excluding b itself.
func Reschedule(b *model.Booking, newDate, newStart, newEnd string, now time.Time) error {
	if b.Status != model.StatusPending {
		return fmt.Errorf("%w: cannot reschedule a %s booking", ErrInvalidTransition, b.Status)
	}
	b.Date = newDate
	b.StartTime = newStart
	b.EndTime = newEnd
	b.LastAction = model.ActionRescheduled
	b.UpdatedAt = now
	return nil
}
