package routes

import (
	"net/http"
	"time"

	"evently/handlers"
	"evently/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterEventRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)

	// Websocket push gateway; authentication happens inside the handshake.
	r.GET("/ws", hb.SocketHandler)
}

// RegisterEventRoutes registers event endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.POST("", hb.CreateEventHandler)
		api.PUT("/:id", hb.UpdateEventHandler)
		api.GET("/:id", hb.GetEventHandler)
		api.GET("/:id/jobs", hb.ListEventJobsHandler)

		// Checkin requires the caller's participant identity.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthParticipantMiddleware())
		protected.POST("/:id/checkin", hb.CheckinHandler)
	}
}

// RegisterNotificationRoutes registers the per-recipient notification listing.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthParticipantMiddleware())
		api.GET("/me", hb.MyNotificationsHandler)
		api.GET("/unread-count", hb.UnreadCountHandler)
		api.PUT("/:id/read", hb.MarkReadHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Evently"})
	})
}
