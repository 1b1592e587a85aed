package routes

import (
	"perundhu/internal/controllers"

	"github.com/gin-gonic/gin"
)

func BusRoutes(r *gin.Engine, bus *controllers.BusController) {
	r.GET("/locations", controllers.ListLocations)
	r.GET("/locations/destinations", bus.Destinations)

	buses := r.Group("/buses")
	{
		buses.GET("/search", bus.SearchBuses)
		buses.GET("/connecting", bus.ConnectingBuses)
		buses.GET("/:id", bus.GetBus)
	}
}
