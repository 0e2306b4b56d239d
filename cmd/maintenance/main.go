package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"academyroster/internal/config"
	"academyroster/internal/database"
	"academyroster/internal/repository"
	"academyroster/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	switch os.Args[1] {
	case "migrate-legacy":
		handleLegacyMigration(db)

	case "dedup":
		handleDedup(db)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleLegacyMigration(db *database.DB) {
	migrationService := service.NewMigrationService(db)

	report, err := migrationService.RunOnce()
	if err != nil {
		log.Fatalf("Legacy migration failed: %v", err)
	}

	log.Printf("Legacy migration complete: %d dependents migrated, %d parents skipped, %d entries skipped",
		report.Migrated, report.SkippedParents, report.SkippedEntries)
}

func handleDedup(db *database.DB) {
	membershipService := service.NewMembershipService(repository.NewMembershipRepository(db))

	removed, err := membershipService.Deduplicate()
	if err != nil {
		log.Fatalf("Membership dedup failed: %v", err)
	}

	log.Printf("Membership dedup complete: %d redundant rows removed", removed)
}

func printUsage() {
	fmt.Println("Usage: maintenance <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate-legacy   Convert legacy embedded dependent lists into roster rows")
	fmt.Println("  dedup            Remove duplicate membership rows")
}
