package routes

import (
	"perundhu/internal/controllers"
	"perundhu/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TrackingRoutes(r *gin.Engine, tc *controllers.TrackingController) {
	tracking := r.Group("/tracking")
	tracking.Use(middleware.OptionalAuth())
	{
		tracking.POST("/report", tc.ReportSighting)
		tracking.GET("/bus/:id", tc.BusSightings)
	}
}
