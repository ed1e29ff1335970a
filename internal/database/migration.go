package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// ExpectedTables lists the tables the current schema must contain
var ExpectedTables = []string{"people"}

// MigrationManager handles database migrations.
// It opens its own connection per run because the migrate drivers close the handle they are given.
type MigrationManager struct {
	driver         string
	dsn            string
	migrationsPath string
	logger         *logrus.Logger

	BackupEnabled bool
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(driver, dsn, migrationsPath string, logger *logrus.Logger) *MigrationManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &MigrationManager{
		driver:         driver,
		dsn:            dsn,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

// MigrationInfo contains information about a migration
type MigrationInfo struct {
	Version   uint
	Dirty     bool
	Applied   bool
	Timestamp time.Time
}

// RunMigrations executes all pending migrations
func (m *MigrationManager) RunMigrations() error {
	m.logger.WithField("driver", m.driver).Info("Starting database migrations...")

	if m.BackupEnabled {
		if err := m.createBackup(); err != nil {
			m.logger.WithError(err).Warn("Failed to create backup before migration")
		}
	}

	mig, closeFn, err := m.initMigrate()
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer closeFn()

	currentVersion, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		m.logger.Warn("Database is in dirty state, attempting to force version")
		if err := mig.Force(int(currentVersion)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	m.logger.WithField("current_version", currentVersion).Debug("Current migration version")

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithField("new_version", newVersion).Info("Migrations completed successfully")
	return nil
}

// RollbackMigration rolls back the last migration
func (m *MigrationManager) RollbackMigration() error {
	m.logger.Info("Rolling back last migration...")

	if m.BackupEnabled {
		if err := m.createBackup(); err != nil {
			m.logger.WithError(err).Warn("Failed to create backup before rollback")
		}
	}

	mig, closeFn, err := m.initMigrate()
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer closeFn()

	currentVersion, _, err := mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("no migrations to rollback")
		}
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	m.logger.WithField("current_version", currentVersion).Info("Rolling back from version")

	if err := mig.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithField("new_version", newVersion).Info("Rollback completed successfully")
	return nil
}

// GetMigrationStatus returns the current migration status
func (m *MigrationManager) GetMigrationStatus() (*MigrationInfo, error) {
	mig, closeFn, err := m.initMigrate()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer closeFn()

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Version:   version,
		Dirty:     dirty,
		Applied:   err == nil,
		Timestamp: time.Now(),
	}, nil
}

// ValidateSchema checks that every expected table exists
func (m *MigrationManager) ValidateSchema() error {
	m.logger.Info("Validating database schema...")

	db, err := m.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`
	if m.driver == DriverPostgres {
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	}

	for _, table := range ExpectedTables {
		var count int
		if err := db.QueryRow(query, table).Scan(&count); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			return fmt.Errorf("expected table %s not found", table)
		}
	}

	m.logger.Info("Schema validation completed successfully")
	return nil
}

func (m *MigrationManager) openDB() (*sql.DB, error) {
	driverName, err := SQLDriverName(m.driver)
	if err != nil {
		return nil, err
	}

	if m.driver == DriverSQLite {
		if err := ensureSQLiteDir(m.dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, BuildDSN(m.driver, m.dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// initMigrate builds a migrate instance over the driver's migration directory
func (m *MigrationManager) initMigrate() (*migrate.Migrate, func(), error) {
	path, err := filepath.Abs(filepath.Join(m.migrationsPath, m.driver))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	source, err := (&file.File{}).Open(fmt.Sprintf("file://%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	db, err := m.openDB()
	if err != nil {
		source.Close()
		return nil, nil, err
	}

	var (
		instance interface{ Close() error }
		mig      *migrate.Migrate
	)
	switch m.driver {
	case DriverPostgres:
		driver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			source.Close()
			db.Close()
			return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
		}
		instance = driver
		mig, err = migrate.NewWithInstance("file", source, "postgres", driver)
		if err != nil {
			instance.Close()
			source.Close()
			db.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	default:
		driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			source.Close()
			db.Close()
			return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
		}
		instance = driver
		mig, err = migrate.NewWithInstance("file", source, "sqlite3", driver)
		if err != nil {
			instance.Close()
			source.Close()
			db.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
	}

	return mig, func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			m.logger.WithFields(logrus.Fields{
				"source_error":   srcErr,
				"database_error": dbErr,
			}).Warn("Failed to close migrate instance")
		}
		db.Close()
	}, nil
}

// createBackup copies the sqlite database file next to itself
func (m *MigrationManager) createBackup() error {
	if m.driver != DriverSQLite {
		return nil
	}

	dbPath := strings.SplitN(m.dsn, "?", 2)[0]
	if dbPath == "" || dbPath == ":memory:" {
		m.logger.Info("Skipping backup for in-memory database")
		return nil
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.backup_%s", dbPath, timestamp)

	if err := copyFile(dbPath, backupPath); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	m.logger.WithField("backup_path", backupPath).Info("Database backup created")
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = destFile.ReadFrom(sourceFile)
	return err
}
