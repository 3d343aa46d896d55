package routes

import (
	"garage_hub/internal/controllers"
	"garage_hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func OrganizationRoutes(r *gin.Engine) {
	org := r.Group("/organizations")
	org.Use(middleware.RequireAuth())
	{
		org.GET("/me", controllers.GetMyOrganization)
		org.GET("/:id", controllers.GetOrganization)
	}

	staff := r.Group("/organizations")
	staff.Use(middleware.RequireAuthWithRole("staff"))
	{
		staff.PUT("/me", controllers.UpdateOrganization)
	}
}
