package main

import (
	"invoice_system/internal/config" // Custom import path (Config)
	"invoice_system/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run AutoMigrate against the configured database
}
