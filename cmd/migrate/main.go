package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"optihub/internal/config"
	"optihub/internal/database"
	"optihub/pkg/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = conn.Close() }()

	migrator, err := database.NewMigrator(conn)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		log.Println("Running migrations...")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		log.Println("Migrations applied")
	case "down":
		log.Println("Rolling back migrations...")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Println("Migrations rolled back")
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Printf("Version: %d, dirty: %v", version, dirty)
	default:
		return fmt.Errorf("unknown action: %s", *action)
	}

	return nil
}
