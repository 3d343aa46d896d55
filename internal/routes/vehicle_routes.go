package routes

import (
	"time"

	"garage_hub/internal/controllers"
	"garage_hub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

func VehicleRoutes(r *gin.Engine) {
	vehicle := r.Group("/vehicles")
	vehicle.Use(middleware.RequireAuth())
	vehicle.Use(middleware.RateLimit(rate.Limit(10), 20))
	{
		vehicle.POST("", controllers.CreateVehicle)
		vehicle.GET("", controllers.ListVehicles)
		vehicle.POST("/generate-image", controllers.GenerateVehicleImage)

		// Dashboard reads are cached briefly; they tolerate staleness.
		dashboardCache := cache.New(time.Minute, 5*time.Minute)
		vehicle.GET("/metrics", middleware.CacheGET(dashboardCache, time.Minute), controllers.VehicleMetrics)
		vehicle.GET("/clients", middleware.CacheGET(dashboardCache, time.Minute), controllers.ListClients)

		vehicle.GET("/:id", controllers.GetVehicle)
		vehicle.PUT("/:id", controllers.UpdateVehicle)
		vehicle.DELETE("/:id", controllers.DeleteVehicle)
	}
}
