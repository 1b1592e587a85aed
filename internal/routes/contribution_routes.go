package routes

import (
	"perundhu/internal/controllers"
	"perundhu/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ContributionRoutes(r *gin.Engine, cc *controllers.ContributionController) {
	contrib := r.Group("/contributions")
	contrib.Use(middleware.OptionalAuth())
	{
		contrib.POST("/route", cc.SubmitRoute)
		contrib.POST("/paste", cc.SubmitPaste)
		contrib.POST("/voice", cc.SubmitVoice)
		contrib.POST("/image", cc.SubmitImage)
		contrib.GET("/images/:id", cc.ImageStatus)
		contrib.GET("/:id", cc.GetContribution)
	}

	mine := r.Group("/contributions")
	mine.Use(middleware.RequireAuth())
	{
		mine.GET("/mine", cc.MyContributions)
	}
}
