package routes

import (
	"github.com/gin-gonic/gin"

	ginlog "github.com/gin-contrib/logger"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger())
	r.Use(gin.Recovery())

	AuthRoutes(r)
	VehicleRoutes(r)
	BookingRoutes(r)
	OrganizationRoutes(r)
	AdminRoutes(r)

	return r
}
