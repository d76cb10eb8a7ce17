package main

import (
	"log"

	"github.com/joho/godotenv"

	"statbook/internal"
	"statbook/internal/api"
	"statbook/internal/config"
)

func main() {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	server := api.NewServer(cfg, logger)
	if err := server.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
