package main

import (
	"log"
	"net/http"

	"garage_hub/internal/config"
	"garage_hub/internal/controllers"
	"garage_hub/internal/imagegen"
	"garage_hub/internal/logger"
	"garage_hub/internal/middleware"
	"garage_hub/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Wire the image-generation provider
	controllers.ImageGenerator = imagegen.NewClient(config.ImageAPIURL(), config.ImageAPIKey())

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := config.ServerAddr()
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
