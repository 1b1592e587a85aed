package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"perundhu/internal/controllers"
)

// Deps bundles the wired controllers SetupRouter mounts.
type Deps struct {
	Bus          *controllers.BusController
	Contribution *controllers.ContributionController
	Admin        *controllers.AdminController
	Tracking     *controllers.TrackingController
	Hub          *controllers.TrackingHub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	BusRoutes(r, d.Bus)
	ContributionRoutes(r, d.Contribution)
	AdminRoutes(r, d.Admin)
	TrackingRoutes(r, d.Tracking)
	WebSocketRoutes(r, d.Hub)

	return r
}
