package routes

import (
	"garage_hub/internal/controllers"
	"garage_hub/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func BookingRoutes(r *gin.Engine) {
	booking := r.Group("/bookings")
	booking.Use(middleware.RequireAuth())
	{
		booking.POST("", controllers.CreateBooking)
		booking.GET("", controllers.ListBookings)
		booking.GET("/:id", controllers.GetBooking)
		booking.POST("/:id/confirm", controllers.ConfirmBooking)
		booking.POST("/:id/start", controllers.StartBooking)
		booking.POST("/:id/cancel", controllers.CancelBooking)
		booking.POST("/:id/complete", controllers.CompleteBooking)
		booking.DELETE("/:id", controllers.DeleteBooking)
	}

	// The public booking page posts without a token; rate limit it harder.
	public := r.Group("/public")
	public.Use(middleware.RateLimit(rate.Limit(2), 5))
	{
		public.POST("/bookings", controllers.CreatePublicBooking)
	}
}
