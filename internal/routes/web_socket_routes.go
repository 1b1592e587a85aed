package routes

import (
	"perundhu/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine, hub *controllers.TrackingHub) {
	wsRoutes := r.Group("/ws")
	{
		wsRoutes.GET("/tracking", hub.HandleTrackingWebSocket)
	}
}
