package notification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"resource-booking-backend/internal/model"
)

// Action classifies the most recent mutation behind a feed entry.
type Action string

const (
	ActionNew         Action = "new"
	ActionRescheduled Action = "rescheduled"
	ActionCanceled    Action = "canceled"
)

// rescheduleWindow applies to rows written before the last_action column
// existed: an update landing this long after creation is classified as a
// reschedule.
const rescheduleWindow = 60 * time.Second

// Notification is one entry of the derived admin feed. The feed is a
// pure projection of the booking table; nothing is stored separately and
// it can be recomputed at any time.
type Notification struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	Action       Action    `json:"action"`
	ResourceName string    `json:"resource_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
	Read         bool      `json:"read"`
}

// ResolveName maps a resource id to its display name. Returning ok=false
// falls back to "{Kind} {id}".
type ResolveName func(resourceID int64) (string, bool)

// Classify determines the feed action for a booking. The explicit
// LastAction audit field wins when present; rows imported from systems
// that never set one fall back to inference from status and timestamps.
func Classify(b *model.Booking) Action {
	if b.LastAction != "" {
		switch b.LastAction {
		case model.ActionCanceled:
			return ActionCanceled
		case model.ActionRescheduled:
			return ActionRescheduled
		default:
			return ActionNew
		}
	}
	if b.Status == model.StatusCanceled {
		return ActionCanceled
	}
	if b.UpdatedAt.Sub(b.CreatedAt) > rescheduleWindow {
		return ActionRescheduled
	}
	return ActionNew
}

// Title returns the feed headline for an action.
func Title(a Action) string {
	switch a {
	case ActionCanceled:
		return "Booking canceled"
	case ActionRescheduled:
		return "Booking rescheduled"
	default:
		return "New booking request"
	}
}

// DisplayName resolves the resource name shown in a notification.
func DisplayName(b *model.Booking, resolve ResolveName) string {
	if resolve != nil {
		if name, ok := resolve(b.ResourceID); ok && name != "" {
			return name
		}
	}
	kind := "Resource"
	switch b.ResourceKind {
	case model.KindRoom:
		kind = "Room"
	case model.KindTransport:
		kind = "Transport"
	}
	return fmt.Sprintf("%s %d", kind, b.ResourceID)
}

// DeriveFeed projects bookings into the admin notification feed, most
// recent first. Each booking yields at most one entry, carrying its
// latest mutation, so a booking that changes twice before being read
// still produces a single notification. since, when set, drops entries
// at or before that instant.
func DeriveFeed(bookings []model.Booking, resolve ResolveName, since *time.Time) []Notification {
	feed := make([]Notification, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		ts := b.UpdatedAt
		if ts.IsZero() {
			ts = b.CreatedAt
		}
		if since != nil && !ts.After(*since) {
			continue
		}

		action := Classify(b)
		name := DisplayName(b, resolve)
		feed = append(feed, Notification{
			ID:           fmt.Sprintf("%s_%s", action, b.ID),
			BookingID:    b.ID,
			Action:       action,
			ResourceName: name,
			Title:        Title(action),
			Description:  fmt.Sprintf("%s on %s from %s to %s, requested by %s", name, b.Date, b.StartTime, b.EndTime, b.RequesterID),
			Timestamp:    ts,
			Read:         b.ReadAt != nil,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].Timestamp.Equal(feed[j].Timestamp) {
			return feed[i].Timestamp.After(feed[j].Timestamp)
		}
		return feed[i].BookingID < feed[j].BookingID
	})
	return feed
}

// BookingIDFromNotificationID recovers the booking id from a synthetic
// "{action}_{bookingID}" notification id.
func BookingIDFromNotificationID(id string) (string, bool) {
	parts := strings.SplitN(id, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
