package main

import (
	"context"
	"fmt"
	"log"

	_ "github.com/ridwanfathin/invoice-generator-service/docs"
	"github.com/ridwanfathin/invoice-generator-service/internal/app"
	"github.com/ridwanfathin/invoice-generator-service/internal/config"
	"github.com/ridwanfathin/invoice-generator-service/internal/server"
)

// @title Invoice Generator API
// @version 1.0
// @description Author Indonesian service invoices, compute PPN/PPh totals, share them by link and export PDF or print pages.
// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wire the counter store, export sink and invoice service
	log.Println("Initializing invoice service...")
	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize invoice service: %v", err)
	}
	defer application.Close()

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, application.Service)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Printf("Server error: %v", err)
		return
	}

	fmt.Println("Server shutdown complete")
}
