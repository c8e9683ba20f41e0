package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/store"
	"resource-booking-backend/internal/timeutil"
)

type createBookingRequest struct {
	ResourceID  int64  `json:"resource_id" binding:"required"`
	RequesterID string `json:"requester_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Notes       string `json:"notes"`
}

type transitionRequest struct {
	ActorID   string `json:"actor_id" binding:"required"`
	ActorRole string `json:"actor_role" binding:"required"`
	Notes     string `json:"notes"`
}

func (r *transitionRequest) actor() (booking.Actor, bool) {
	role := booking.ActorRole(strings.ToUpper(r.ActorRole))
	if role != booking.RoleAdmin && role != booking.RoleRequester {
		return booking.Actor{}, false
	}
	return booking.Actor{ID: r.ActorID, Role: role}, true
}

type rescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// bookingResponse is a booking with its read-time display status. For a
// PENDING booking whose window has passed the display status is EXPIRED
// while the stored status stays untouched.
type bookingResponse struct {
	model.Booking
	DisplayStatus model.BookingStatus `json:"display_status"`
}

func (h *Handler) toResponse(b *model.Booking, now time.Time) bookingResponse {
	display, err := booking.DisplayStatus(b, now, h.loc)
	if err != nil {
		log.Printf("Error deriving display status for booking %s: %v", b.ID, err)
	}
	return bookingResponse{Booking: *b, DisplayStatus: display}
}

// writeBookingError maps engine errors onto HTTP statuses. Conflicts
// carry the overlapping booking ids so the client can explain the
// rejection.
func writeBookingError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "time slot conflict", "conflicts": conflict.IDs})
	case errors.Is(err, booking.ErrInvalidRange) || errors.Is(err, timeutil.ErrMalformedTime):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound) || errors.Is(err, booking.ErrResourceNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.store.CreateBooking(c.Request.Context(), store.CreateBookingRequest{
		ResourceID:  req.ResourceID,
		RequesterID: req.RequesterID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.dispatch(b.ID)
	c.JSON(http.StatusCreated, h.toResponse(b, h.clock.Now()))
}

// GetBooking handles GET /api/bookings/{booking_id}.
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.store.GetBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b, h.clock.Now()))
}

// ListBookings handles GET /api/bookings. The status filter matches the
// display status, so PENDING excludes passed bookings and EXPIRED
// selects exactly those.
func (h *Handler) ListBookings(c *gin.Context) {
	var f store.BookingFilter

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid resource_id"})
			return
		}
		f.ResourceID = id
	}
	f.Date = c.Query("date")

	var displayFilter model.BookingStatus
	if raw := c.Query("status"); raw != "" {
		status := model.BookingStatus(strings.ToUpper(raw))
		switch status {
		case model.StatusPending, model.StatusExpired:
			// Both are stored as PENDING; split on the derived value below.
			f.Status = model.StatusPending
			displayFilter = status
		case model.StatusApproved, model.StatusRejected, model.StatusCanceled:
			f.Status = status
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	now := h.clock.Now()
	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp := h.toResponse(&bookings[i], now)
		if displayFilter != "" && resp.DisplayStatus != displayFilter {
			continue
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}

// ApproveBooking handles POST /api/bookings/{booking_id}/approve.
func (h *Handler) ApproveBooking(c *gin.Context) {
	h.transition(c, func(req *transitionRequest, actor booking.Actor, now time.Time) (*model.Booking, error) {
		return h.store.ApproveBooking(c.Request.Context(), c.Param("booking_id"), actor, req.Notes, now)
	})
}

// RejectBooking handles POST /api/bookings/{booking_id}/reject.
func (h *Handler) RejectBooking(c *gin.Context) {
	h.transition(c, func(req *transitionRequest, actor booking.Actor, now time.Time) (*model.Booking, error) {
		return h.store.RejectBooking(c.Request.Context(), c.Param("booking_id"), actor, req.Notes, now)
	})
}

// CancelBooking handles POST /api/bookings/{booking_id}/cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	h.transition(c, func(_ *transitionRequest, actor booking.Actor, now time.Time) (*model.Booking, error) {
		return h.store.CancelBooking(c.Request.Context(), c.Param("booking_id"), actor, now)
	})
}

func (h *Handler) transition(c *gin.Context, apply func(req *transitionRequest, actor booking.Actor, now time.Time) (*model.Booking, error)) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, ok := req.actor()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actor_role must be ADMIN or REQUESTER"})
		return
	}

	b, err := apply(&req, actor, h.clock.Now())
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.dispatch(b.ID)
	c.JSON(http.StatusOK, h.toResponse(b, h.clock.Now()))
}

// RescheduleBooking handles POST /api/bookings/{booking_id}/reschedule.
func (h *Handler) RescheduleBooking(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.store.RescheduleBooking(c.Request.Context(), c.Param("booking_id"), req.Date, req.StartTime, req.EndTime, h.clock.Now())
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.dispatch(b.ID)
	c.JSON(http.StatusOK, h.toResponse(b, h.clock.Now()))
}
