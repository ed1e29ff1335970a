package server

import (
	"context"
	"fmt"

	"people-api/internal/config"
	"people-api/internal/database"
	"people-api/internal/repositories"
	"people-api/internal/repositories/gormdb"
	"people-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *logrus.Logger
	PersonRepository repositories.PersonRepository
	PersonService    services.PersonService

	// Internal dependencies
	db *database.ConnectionManager
}

// Option customises container construction
type Option func(*Container)

// WithLogger replaces the logger built from configuration
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) {
		c.Logger = logger
	}
}

// NewContainer connects to the datastore and wires repository and service
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	container := &Container{
		Config: cfg,
	}
	for _, opt := range opts {
		opt(container)
	}
	if container.Logger == nil {
		container.Logger = cfg.NewLogger()
	}

	db := database.NewConnectionManager(&database.ConnectionConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.ConnectionString,
		MigrationsPath:  cfg.Database.MigrationsPath,
		AutoMigrate:     cfg.Database.AutoMigrate,
		BackupEnabled:   cfg.Database.BackupEnabled,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		SlowThreshold:   database.DefaultConnectionConfig().SlowThreshold,
		Logger:          container.Logger,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	container.db = db
	container.PersonRepository = gormdb.NewPersonRepository(db.GetDB(), container.Logger)
	container.PersonService = services.NewPersonService(container.PersonRepository, container.Logger)

	container.Logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"mode":        config.GetDeploymentMode(),
	}).Info("Container initialized")

	return container, nil
}

// Health reports whether the datastore is reachable
func (c *Container) Health(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.HealthCheck(ctx)
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}

	return nil
}
