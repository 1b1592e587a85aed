package routes

import (
	"perundhu/internal/controllers"
	"perundhu/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine, ac *controllers.AdminController) {
	admin := r.Group("admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/contributions", ac.ListContributions)
		admin.POST("/contributions/:id/approve", ac.Approve)
		admin.POST("/contributions/:id/reject", ac.Reject)
		admin.POST("/integrate", ac.Integrate)
		admin.GET("/duplicates/check", ac.CheckDuplicate)
	}
}
