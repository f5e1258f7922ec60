package main

import (
	"log" // log package is needed for logging

	"invoice_system/internal/api"        // Custom package for API handlers
	"invoice_system/internal/config"     // Custom package for configuration
	"invoice_system/internal/db"         // Custom package for the database
	"invoice_system/internal/validation" // Payload validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	database, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Dev-only escape hatch: skips auth and payload validation. Never a default.
	if cfg.AuthDisabled {
		validation.Disabled = true
		logrus.Warn("==============================================")
		logrus.Warn("AUTH_DISABLED=true: authentication and request")
		logrus.Warn("validation are OFF. Local development only.")
		logrus.Warn("==============================================")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.SetupRouter(database, cfg) // Assemble routes

	log.Println("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
