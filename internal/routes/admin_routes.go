package routes

import (
	"garage_hub/internal/controllers"
	"garage_hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/organizations", controllers.ListOrganizations)
		admin.GET("/vehicles", controllers.ListAllVehicles)
	}
}
