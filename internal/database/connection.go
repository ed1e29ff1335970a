package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ConnectionConfig holds database connection configuration
type ConnectionConfig struct {
	Driver          string
	DSN             string
	MigrationsPath  string
	AutoMigrate     bool
	BackupEnabled   bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	Retry           *RetryConfig
	Logger          *logrus.Logger
}

// DefaultConnectionConfig returns a default configuration
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Driver:          DriverSQLite,
		DSN:             "./data/people.db",
		MigrationsPath:  "./migrations",
		AutoMigrate:     true,
		MaxOpenConns:    1, // SQLite works best with single connection
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		SlowThreshold:   200 * time.Millisecond,
		Retry:           DefaultRetryConfig(),
		Logger:          logrus.New(),
	}
}

// ConnectionManager owns the pool and the ORM handle built on top of it
type ConnectionManager struct {
	config *ConnectionConfig
	sqlDB  *sql.DB
	db     *gorm.DB
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(config *ConnectionConfig) *ConnectionManager {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &ConnectionManager{
		config: config,
	}
}

// Connect opens the pool, applies pending migrations and binds gorm to the pool
func (cm *ConnectionManager) Connect(ctx context.Context) error {
	if cm.db != nil {
		return fmt.Errorf("database connection already established")
	}

	driverName, err := SQLDriverName(cm.config.Driver)
	if err != nil {
		return err
	}

	if cm.config.Driver == DriverSQLite {
		if err := ensureSQLiteDir(cm.config.DSN); err != nil {
			return err
		}
	}

	if cm.config.AutoMigrate {
		if err := cm.GetMigrationManager().RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sqlDB, err := sql.Open(driverName, BuildDSN(cm.config.Driver, cm.config.DSN))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	err = WithRetry(ctx, cm.config.Retry, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			cm.config.Logger.WithError(err).Warn("Database ping failed")
			return err
		}
		return nil
	})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cm.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cm.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cm.config.ConnMaxLifetime)

	db, err := gorm.Open(cm.dialector(sqlDB), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(cm.config.Logger, gormlogger.Config{
			SlowThreshold:             cm.config.SlowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to initialize orm: %w", err)
	}

	cm.sqlDB = sqlDB
	cm.db = db
	cm.config.Logger.WithFields(logrus.Fields{
		"driver": cm.config.Driver,
	}).Info("Database connection established")
	return nil
}

// GetDB returns the ORM handle, nil before Connect
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	if cm.sqlDB == nil {
		return nil
	}

	err := cm.sqlDB.Close()
	cm.sqlDB = nil
	cm.db = nil

	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.config.Logger.Info("Database connection closed")
	return nil
}

// Ping tests the database connection
func (cm *ConnectionManager) Ping(ctx context.Context) error {
	if cm.sqlDB == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := cm.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// HealthCheck pings and runs a trivial query
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := cm.sqlDB.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	return nil
}

// GetMigrationManager returns a migration manager for this connection's database
func (cm *ConnectionManager) GetMigrationManager() *MigrationManager {
	mm := NewMigrationManager(cm.config.Driver, cm.config.DSN, cm.config.MigrationsPath, cm.config.Logger)
	mm.BackupEnabled = cm.config.BackupEnabled
	return mm
}

func (cm *ConnectionManager) dialector(sqlDB *sql.DB) gorm.Dialector {
	if cm.config.Driver == DriverPostgres {
		return postgres.New(postgres.Config{Conn: sqlDB})
	}
	return sqlite.New(sqlite.Config{Conn: sqlDB})
}

// SQLDriverName maps a configured driver onto its database/sql driver name
func SQLDriverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres, "postgresql":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// BuildDSN appends the connection options each driver needs
func BuildDSN(driver, dsn string) string {
	if driver != DriverSQLite || strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func ensureSQLiteDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
