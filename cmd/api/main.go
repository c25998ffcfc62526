package main

import (
	"fmt"
	"log"

	"firstline/internal/config"
	"firstline/internal/db"
	"firstline/internal/routes"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	router := routes.SetupRouter(dbConn, cfg)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
