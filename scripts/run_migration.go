package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ridwanfathin/invoice-generator-service/internal/database"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment variables.")
	}

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, os.Getenv("POSTGRES_DB_URL"), database.WithMaxConns(1))
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx, os.DirFS("scripts/migrations"))
	if err != nil {
		log.Fatalf("Failed to execute migration: %v", err)
	}

	fmt.Printf("Migration successfully executed! (%d files)\n", len(applied))
}
