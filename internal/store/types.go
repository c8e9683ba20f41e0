package store

import "resource-booking-backend/internal/model"

// CreateBookingRequest carries the fields a requester submits for a new
// booking. Times are wire-format strings; the store validates them
// before anything is persisted.
type CreateBookingRequest struct {
	ResourceID  int64
	RequesterID string
	Date        string // "YYYY-MM-DD"
	StartTime   string // "HH:MM"
	EndTime     string // "HH:MM"
	Notes       string
}

// BookingFilter narrows a booking listing. Zero values mean "any".
// Status filters on the stored status only; derived EXPIRED filtering
// happens at the API layer.
type BookingFilter struct {
	ResourceID int64
	Date       string
	Status     model.BookingStatus
}
