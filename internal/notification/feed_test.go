package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-booking-backend/internal/model"
)

var t0 = time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC)

func feedBooking(id string, action model.BookingAction, status model.BookingStatus, updated time.Time) model.Booking {
	return model.Booking{
		ID:           id,
		ResourceID:   1,
		ResourceKind: model.KindRoom,
		RequesterID:  "user1",
		Date:         "2024-12-25",
		StartTime:    "09:00",
		EndTime:      "10:00",
		Status:       status,
		LastAction:   action,
		CreatedAt:    t0,
		UpdatedAt:    updated,
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		booking  model.Booking
		expected Action
	}{
		{
			name:     "Explicit created action",
			booking:  feedBooking("B1", model.ActionCreated, model.StatusPending, t0),
			expected: ActionNew,
		},
		{
			name:     "Explicit approve action is still a new-request entry",
			booking:  feedBooking("B1", model.ActionApproved, model.StatusApproved, t0.Add(time.Hour)),
			expected: ActionNew,
		},
		{
			name:     "Explicit reschedule action",
			booking:  feedBooking("B1", model.ActionRescheduled, model.StatusPending, t0.Add(2*time.Minute)),
			expected: ActionRescheduled,
		},
		{
			name:     "Explicit cancel action",
			booking:  feedBooking("B1", model.ActionCanceled, model.StatusCanceled, t0.Add(time.Hour)),
			expected: ActionCanceled,
		},
		{
			name:     "Legacy row, canceled status",
			booking:  feedBooking("B1", "", model.StatusCanceled, t0.Add(time.Hour)),
			expected: ActionCanceled,
		},
		{
			name:     "Legacy row, updated well after creation",
			booking:  feedBooking("B1", "", model.StatusPending, t0.Add(2*time.Minute)),
			expected: ActionRescheduled,
		},
		{
			name:     "Legacy row, updated within a minute of creation",
			booking:  feedBooking("B1", "", model.StatusPending, t0.Add(30*time.Second)),
			expected: ActionNew,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(&tc.booking))
		})
	}
}

func TestDeriveFeed(t *testing.T) {
	resolve := func(resourceID int64) (string, bool) {
		if resourceID == 1 {
			return "Conference Room A", true
		}
		return "", false
	}

	t.Run("one entry per booking reflecting the latest mutation", func(t *testing.T) {
		// A booking created at t0 and rescheduled two minutes later must
		// produce exactly one notification, for the reschedule.
		bookings := []model.Booking{
			feedBooking("B1", model.ActionRescheduled, model.StatusPending, t0.Add(2*time.Minute)),
		}

		feed := DeriveFeed(bookings, resolve, nil)
		require.Len(t, feed, 1)

		n := feed[0]
		assert.Equal(t, "rescheduled_B1", n.ID)
		assert.Equal(t, "B1", n.BookingID)
		assert.Equal(t, ActionRescheduled, n.Action)
		assert.Equal(t, "Conference Room A", n.ResourceName)
		assert.Equal(t, "Booking rescheduled", n.Title)
		assert.Equal(t, t0.Add(2*time.Minute), n.Timestamp)
		assert.False(t, n.Read)
	})

	t.Run("most recent first", func(t *testing.T) {
		bookings := []model.Booking{
			feedBooking("B1", model.ActionCreated, model.StatusPending, t0),
			feedBooking("B2", model.ActionCanceled, model.StatusCanceled, t0.Add(time.Hour)),
			feedBooking("B3", model.ActionCreated, model.StatusPending, t0.Add(30*time.Minute)),
		}

		feed := DeriveFeed(bookings, resolve, nil)
		require.Len(t, feed, 3)
		assert.Equal(t, "B2", feed[0].BookingID)
		assert.Equal(t, "B3", feed[1].BookingID)
		assert.Equal(t, "B1", feed[2].BookingID)
	})

	t.Run("since filter drops older entries", func(t *testing.T) {
		bookings := []model.Booking{
			feedBooking("B1", model.ActionCreated, model.StatusPending, t0),
			feedBooking("B2", model.ActionCreated, model.StatusPending, t0.Add(time.Hour)),
		}

		since := t0
		feed := DeriveFeed(bookings, resolve, &since)
		require.Len(t, feed, 1)
		assert.Equal(t, "B2", feed[0].BookingID)
	})

	t.Run("unresolved resources fall back to kind and id", func(t *testing.T) {
		b := feedBooking("B1", model.ActionCreated, model.StatusPending, t0)
		b.ResourceID = 42
		feed := DeriveFeed([]model.Booking{b}, resolve, nil)
		require.Len(t, feed, 1)
		assert.Equal(t, "Room 42", feed[0].ResourceName)

		b.ResourceKind = model.KindTransport
		feed = DeriveFeed([]model.Booking{b}, nil, nil)
		require.Len(t, feed, 1)
		assert.Equal(t, "Transport 42", feed[0].ResourceName)
	})

	t.Run("read state follows read_at", func(t *testing.T) {
		readAt := t0.Add(time.Hour)
		b := feedBooking("B1", model.ActionCreated, model.StatusPending, t0)
		b.ReadAt = &readAt

		feed := DeriveFeed([]model.Booking{b}, resolve, nil)
		require.Len(t, feed, 1)
		assert.True(t, feed[0].Read)
	})
}

func TestBookingIDFromNotificationID(t *testing.T) {
	id, ok := BookingIDFromNotificationID("canceled_3f1b2c")
	assert.True(t, ok)
	assert.Equal(t, "3f1b2c", id)

	// uuids keep their own dashes intact
	id, ok = BookingIDFromNotificationID("new_0b0e7a5c-1111-2222-3333-444455556666")
	assert.True(t, ok)
	assert.Equal(t, "0b0e7a5c-1111-2222-3333-444455556666", id)

	for _, raw := range []string{"", "new_", "nounderscore"} {
		_, ok := BookingIDFromNotificationID(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}
