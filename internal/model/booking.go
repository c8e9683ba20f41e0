package model

import "time"

// BookingStatus is the stored lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending  BookingStatus = "PENDING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"

	// StatusExpired is never persisted. It is derived at read time for
	// PENDING bookings whose window has passed.
	StatusExpired BookingStatus = "EXPIRED"
)

// BookingAction records the last mutation the state machine applied to a
// booking. It is the audit field the notification feed classifies on.
type BookingAction string

const (
	ActionCreated     BookingAction = "CREATED"
	ActionRescheduled BookingAction = "RESCHEDULED"
	ActionApproved    BookingAction = "APPROVED"
	ActionRejected    BookingAction = "REJECTED"
	ActionCanceled    BookingAction = "CANCELED"
)

// Booking is a reservation request for a resource on a given date.
// Date is a local wall-clock date; StartTime/EndTime are minute-granular
// times of day. The range is half-open: [StartTime, EndTime).
type Booking struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	ResourceID   int64         `gorm:"index:idx_bookings_slot;not null" json:"resource_id"`
	ResourceKind ResourceKind  `gorm:"size:16;not null" json:"resource_kind"`
	RequesterID  string        `gorm:"size:64;index;not null" json:"requester_id"`
	Date         string        `gorm:"index:idx_bookings_slot;size:10;not null" json:"date"` // "YYYY-MM-DD"
	StartTime    string        `gorm:"size:5;not null" json:"start_time"`                    // "HH:MM"
	EndTime      string        `gorm:"size:5;not null" json:"end_time"`                      // "HH:MM"
	Status       BookingStatus `gorm:"size:16;index;not null" json:"status"`
	LastAction   BookingAction `gorm:"size:16" json:"last_action"`
	ApproverID   string        `gorm:"size:64" json:"approver_id,omitempty"`
	ApprovedAt   *time.Time    `json:"approved_at,omitempty"`
	Notes        string        `gorm:"size:512" json:"notes,omitempty"`
	ReadAt       *time.Time    `json:"read_at,omitempty"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	Resource Resource `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Terminal reports whether the stored status admits no further
// transition other than APPROVED → CANCELED.
func (s BookingStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCanceled
}

// Blocking reports whether a booking in this status constrains conflict
// checks. REJECTED and CANCELED bookings never block a slot.
func (s BookingStatus) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}
