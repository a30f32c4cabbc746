package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle carries the assembled handlers into route registration.
type HandlerBundle struct {
	// Event endpoints.
	CreateEventHandler   gin.HandlerFunc
	UpdateEventHandler   gin.HandlerFunc
	GetEventHandler      gin.HandlerFunc
	ListEventJobsHandler gin.HandlerFunc
	CheckinHandler       gin.HandlerFunc

	// Notification endpoints.
	MyNotificationsHandler gin.HandlerFunc
	MarkReadHandler        gin.HandlerFunc
	UnreadCountHandler     gin.HandlerFunc

	// Websocket push gateway.
	SocketHandler gin.HandlerFunc
}
