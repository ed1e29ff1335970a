package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"people-api/internal/config"
	"people-api/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	var (
		driver         = flag.String("driver", cfg.Database.Driver, "Database driver: sqlite, postgres")
		dsn            = flag.String("db", cfg.Database.ConnectionString, "Database file path or connection string")
		migrationsPath = flag.String("migrations", cfg.Database.MigrationsPath, "Migrations directory path")
		action         = flag.String("action", "up", "Migration action: up, down, status, validate")
		backup         = flag.Bool("backup", cfg.Database.BackupEnabled, "Back up the SQLite file before up/down")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := cfg.NewLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absMigrationsPath, err := filepath.Abs(*migrationsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute migrations path")
	}

	logger.WithFields(logrus.Fields{
		"driver":          *driver,
		"migrations_path": absMigrationsPath,
		"action":          *action,
	}).Info("Starting migration tool")

	migrationManager := database.NewMigrationManager(*driver, *dsn, absMigrationsPath, logger)
	migrationManager.BackupEnabled = *backup

	switch *action {
	case "up":
		err = migrationManager.RunMigrations()
	case "down":
		err = migrationManager.RollbackMigration()
	case "status":
		err = showMigrationStatus(migrationManager)
	case "validate":
		err = validateSchema(migrationManager)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}

	if err != nil {
		logger.WithError(err).WithField("action", *action).Error("Migration tool failed")
		os.Exit(1)
	}

	logger.Info("Migration tool completed successfully")
}

func showMigrationStatus(mm *database.MigrationManager) error {
	status, err := mm.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}

func validateSchema(mm *database.MigrationManager) error {
	if err := mm.ValidateSchema(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Println("Schema validation passed successfully")
	return nil
}
