package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resource-booking-backend/internal/model"
)

type createResourceRequest struct {
	Kind     string `json:"kind" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity"`
}

// ResourceResponse represents the API response for a single resource.
type ResourceResponse struct {
	model.Resource
	ActiveBookings int64 `json:"active_bookings"`
}

// CreateResource handles POST /api/resources. Resource management is the
// admin flow; the booking engine reads resources as lookup data only.
func (h *Handler) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := model.ResourceKind(strings.ToUpper(req.Kind))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be ROOM or TRANSPORT"})
		return
	}

	resource := model.Resource{
		Kind:     kind,
		Name:     req.Name,
		Capacity: req.Capacity,
	}
	if err := h.store.CreateResource(c.Request.Context(), &resource); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create resource"})
		return
	}
	c.JSON(http.StatusCreated, resource)
}

// ListResources handles GET /api/resources.
func (h *Handler) ListResources(c *gin.Context) {
	resources, err := h.store.ListResources(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve resources"})
		return
	}

	// Aggregate the count of slot-blocking bookings per resource.
	type aggRow struct {
		ResourceID     int64
		ActiveBookings int64
	}
	var aggs []aggRow
	if err := h.store.DB().
		Model(&model.Booking{}).
		Select("resource_id as resource_id, COUNT(*) as active_bookings").
		Where("status IN ?", []model.BookingStatus{model.StatusPending, model.StatusApproved}).
		Group("resource_id").
		Scan(&aggs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate bookings"})
		return
	}

	aggMap := make(map[int64]int64, len(aggs))
	for _, a := range aggs {
		aggMap[a.ResourceID] = a.ActiveBookings
	}

	responses := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		responses = append(responses, ResourceResponse{
			Resource:       r,
			ActiveBookings: aggMap[r.ID],
		})
	}
	c.JSON(http.StatusOK, responses)
}
