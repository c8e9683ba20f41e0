package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, srv *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(srv.RateLimitPerSec), srv.RateLimitBurst, srv.RequestIPHeader)

	cacheTTL := time.Duration(srv.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings", handler.ListBookings)
		api.GET("/bookings/:booking_id", handler.GetBooking)
		api.POST("/bookings/:booking_id/approve", handler.ApproveBooking)
		api.POST("/bookings/:booking_id/reject", handler.RejectBooking)
		api.POST("/bookings/:booking_id/cancel", handler.CancelBooking)
		api.POST("/bookings/:booking_id/reschedule", handler.RescheduleBooking)

		// Resource metadata changes rarely; cache the listing.
		api.GET("/resources", caching, handler.ListResources)
		api.POST("/resources", handler.CreateResource)

		api.GET("/notifications", handler.GetNotificationFeed)
		api.POST("/notifications/read", handler.MarkNotificationsRead)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
