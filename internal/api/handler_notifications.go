package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
)

// GetNotificationFeed handles GET /api/notifications. The feed is
// derived from the booking table on every read; an optional RFC3339
// "since" parameter drops entries at or before that instant.
func (h *Handler) GetNotificationFeed(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid 'since' timestamp format. Use RFC3339."})
			return
		}
		since = &t
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	resources, err := h.store.ListResources(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve resources"})
		return
	}
	names := make(map[int64]string, len(resources))
	for _, r := range resources {
		names[r.ID] = r.Name
	}

	feed := notification.DeriveFeed(bookings, func(resourceID int64) (string, bool) {
		name, ok := names[resourceID]
		return name, ok
	}, since)

	c.JSON(http.StatusOK, feed)
}

type markReadRequest struct {
	NotificationID string `json:"notification_id"`
	All            bool   `json:"all"`
}

// MarkNotificationsRead handles POST /api/notifications/read. Marking an
// already-read notification again is a no-op.
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := h.clock.Now()
	if req.All {
		marked, err := h.store.MarkAllRead(c.Request.Context(), now)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked": marked})
		return
	}

	bookingID, ok := notification.BookingIDFromNotificationID(req.NotificationID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_id or all is required"})
		return
	}
	if err := h.store.MarkRead(c.Request.Context(), bookingID, now); err != nil {
		writeBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
