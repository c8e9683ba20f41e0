package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-booking-backend/internal/model"
)

var (
	admin     = Actor{ID: "admin1", Role: RoleAdmin}
	requester = Actor{ID: "user1", Role: RoleRequester}
	stranger  = Actor{ID: "user2", Role: RoleRequester}
)

func pendingBooking() *model.Booking {
	created := time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC)
	return &model.Booking{
		ID:           "B1",
		ResourceID:   1,
		ResourceKind: model.KindRoom,
		RequesterID:  "user1",
		Date:         "2024-12-25",
		StartTime:    "09:00",
		EndTime:      "10:00",
		Status:       model.StatusPending,
		LastAction:   model.ActionCreated,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestApprove(t *testing.T) {
	now := time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC)

	t.Run("admin approves a pending booking", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Approve(b, admin, "take the second-floor key", now, time.UTC))

		assert.Equal(t, model.StatusApproved, b.Status)
		assert.Equal(t, model.ActionApproved, b.LastAction)
		assert.Equal(t, "admin1", b.ApproverID)
		require.NotNil(t, b.ApprovedAt)
		assert.Equal(t, now, *b.ApprovedAt)
		assert.Equal(t, "take the second-floor key", b.Notes)
		assert.Equal(t, now, b.UpdatedAt)
	})

	t.Run("requester cannot approve", func(t *testing.T) {
		b := pendingBooking()
		assert.ErrorIs(t, Approve(b, requester, "", now, time.UTC), ErrUnauthorized)
		assert.Equal(t, model.StatusPending, b.Status)
	})

	t.Run("approve after the window has passed is rejected", func(t *testing.T) {
		b := pendingBooking()
		late := time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, Approve(b, admin, "", late, time.UTC), ErrInvalidTransition)
		assert.Equal(t, model.StatusPending, b.Status)
	})

	t.Run("approve exactly at the end minute still succeeds", func(t *testing.T) {
		b := pendingBooking()
		atEnd := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)
		assert.NoError(t, Approve(b, admin, "", atEnd, time.UTC))
	})

	t.Run("terminal states cannot be approved", func(t *testing.T) {
		for _, status := range []model.BookingStatus{model.StatusApproved, model.StatusRejected, model.StatusCanceled} {
			b := pendingBooking()
			b.Status = status
			assert.ErrorIs(t, Approve(b, admin, "", now, time.UTC), ErrInvalidTransition, "status=%s", status)
		}
	})
}

func TestReject(t *testing.T) {
	now := time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC)

	t.Run("admin rejects a pending booking", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Reject(b, admin, "room reserved for maintenance", now))

		assert.Equal(t, model.StatusRejected, b.Status)
		assert.Equal(t, model.ActionRejected, b.LastAction)
		assert.Equal(t, "admin1", b.ApproverID)
		require.NotNil(t, b.ApprovedAt)
		assert.Equal(t, "room reserved for maintenance", b.Notes)
	})

	t.Run("requester cannot reject", func(t *testing.T) {
		b := pendingBooking()
		assert.ErrorIs(t, Reject(b, requester, "", now), ErrUnauthorized)
	})

	t.Run("approved booking cannot be rejected afterwards", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Approve(b, admin, "", now, time.UTC))
		err := Reject(b, Actor{ID: "admin2", Role: RoleAdmin}, "", now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, model.StatusApproved, b.Status)
		assert.Equal(t, "admin1", b.ApproverID)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC)

	t.Run("requester cancels their own pending booking", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Cancel(b, requester, now))
		assert.Equal(t, model.StatusCanceled, b.Status)
		assert.Equal(t, model.ActionCanceled, b.LastAction)
		assert.Equal(t, now, b.UpdatedAt)
	})

	t.Run("admin cancels an approved booking", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Approve(b, admin, "", now, time.UTC))
		require.NoError(t, Cancel(b, admin, now.Add(time.Hour)))
		assert.Equal(t, model.StatusCanceled, b.Status)
	})

	t.Run("another requester cannot cancel", func(t *testing.T) {
		b := pendingBooking()
		assert.ErrorIs(t, Cancel(b, stranger, now), ErrUnauthorized)
	})

	t.Run("canceled and rejected bookings stay put", func(t *testing.T) {
		for _, status := range []model.BookingStatus{model.StatusRejected, model.StatusCanceled} {
			b := pendingBooking()
			b.Status = status
			assert.ErrorIs(t, Cancel(b, admin, now), ErrInvalidTransition, "status=%s", status)
		}
	})
}

func TestReschedule(t *testing.T) {
	now := time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC)

	t.Run("pending booking moves to the new slot", func(t *testing.T) {
		b := pendingBooking()
		require.NoError(t, Reschedule(b, "2024-12-26", "14:00", "15:30", now))

		assert.Equal(t, model.StatusPending, b.Status)
		assert.Equal(t, model.ActionRescheduled, b.LastAction)
		assert.Equal(t, "2024-12-26", b.Date)
		assert.Equal(t, "14:00", b.StartTime)
		assert.Equal(t, "15:30", b.EndTime)
		assert.Equal(t, now, b.UpdatedAt)
	})

	t.Run("only pending bookings can be rescheduled", func(t *testing.T) {
		for _, status := range []model.BookingStatus{model.StatusApproved, model.StatusRejected, model.StatusCanceled} {
			b := pendingBooking()
			b.Status = status
			err := Reschedule(b, "2024-12-26", "14:00", "15:30", now)
			assert.ErrorIs(t, err, ErrInvalidTransition, "status=%s", status)
		}
	})
}
