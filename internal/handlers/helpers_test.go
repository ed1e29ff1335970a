package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"people-api/internal/config"
	"people-api/internal/models"
	"people-api/internal/repositories"
	"people-api/internal/services"
	"people-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// newTestService wires the real service and repository over a temp sqlite database
func newTestService(t *testing.T) services.PersonService {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		Port:        "8080",
		Log:         config.LogConfig{Level: "warn", Format: "text"},
		Database: config.DatabaseConfig{
			Driver:           "sqlite",
			ConnectionString: filepath.Join(t.TempDir(), "people.db"),
			MigrationsPath:   filepath.Join("..", "..", "migrations"),
			AutoMigrate:      true,
			MaxOpenConns:     1,
			MaxIdleConns:     1,
		},
	}

	container, err := server.NewContainer(context.Background(), cfg, server.WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return container.PersonService
}

// failingService answers every call with a datastore error
type failingService struct{}

var errDatastore = repositories.NewRepositoryError("list", "person", 0, errors.New("disk I/O error"))

func (failingService) ListPeople(ctx context.Context) ([]models.PersonDto, error) {
	return nil, errDatastore
}

func (failingService) GetPerson(ctx context.Context, id int) (*models.PersonDto, error) {
	return nil, errDatastore
}

func (failingService) CreatePerson(ctx context.Context, req *models.CreatePersonDto) (*models.PersonDto, error) {
	return nil, errDatastore
}

func (failingService) UpdatePerson(ctx context.Context, req *models.PersonDto) (bool, error) {
	return false, errDatastore
}

func (failingService) DeletePerson(ctx context.Context, id int) (bool, error) {
	return false, errDatastore
}

func (failingService) AddPerson(ctx context.Context, person *models.Person) error {
	return errDatastore
}

func (failingService) ListEntities(ctx context.Context) ([]models.Person, error) {
	return nil, errDatastore
}

func (failingService) Health(ctx context.Context) error {
	return repositories.ConnectionError(errors.New("connection refused"))
}
