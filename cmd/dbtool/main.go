package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"route-profit-service/internal/adapters/repositories"
	"route-profit-service/internal/config"
	"route-profit-service/internal/platform/db"
	"strings"
)

// dbtool prepares the PostgreSQL history store and optionally restores
// a JSON history backup (SEED_PATH).
func main() {
	config.LoadDotEnv()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(conn, os.Getenv("SEED_PATH"), cfg.HistoryLimit); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, seedPath string, limit int) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Printf("Restoring history from %s...", seedPath)
	repo := repositories.NewSQLHistoryRepository(conn, limit)
	n, err := repositories.SeedHistoryFromJSON(context.Background(), repo, seedPath)
	if err != nil {
		return err
	}
	log.Printf("Restore complete. entries=%d", n)

	return nil
}
