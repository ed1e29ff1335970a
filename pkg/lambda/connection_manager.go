package lambda

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"people-api/internal/config"
	"people-api/pkg/server"

	"github.com/sirupsen/logrus"
)

// ContainerFactory builds the service container for an execution environment
type ContainerFactory func(ctx context.Context) (*server.Container, error)

// ConnectionManager keeps one service container per Lambda execution environment
// so warm invocations reuse the database pool
type ConnectionManager struct {
	mu        sync.Mutex
	container *server.Container
	lastUsed  time.Time
	factory   ContainerFactory
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// DefaultContainerFactory loads the deployment-optimized configuration and builds a container
func DefaultContainerFactory(ctx context.Context) (*server.Container, error) {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return server.NewContainer(ctx, cfg)
}

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(DefaultContainerFactory)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager using the given factory
func NewConnectionManager(factory ContainerFactory) *ConnectionManager {
	return &ConnectionManager{factory: factory}
}

// GetContainer returns the service container, building it on first use.
// A failed build is not cached so the next invocation retries.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		container, err := cm.factory(ctx)
		if err != nil {
			return nil, err
		}
		cm.container = container
	}

	cm.lastUsed = time.Now()
	return cm.container, nil
}

// Handler resolves the container on every invocation and hands the request to the
// handler built from it. A container that cannot be built answers 503 so the
// client may retry once the datastore is reachable.
func (cm *ConnectionManager) Handler(build func(*server.Container) HandlerFunc, logger *logrus.Logger) HandlerFunc {
	if logger == nil {
		logger = logrus.New()
	}

	return func(ctx context.Context, req *Request) (*Response, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"request_id": req.RequestID,
				"method":     req.Method,
			}).WithError(err).Error("Failed to initialize container")
			return Error(http.StatusServiceUnavailable, "Service unavailable", "the datastore is not reachable, retry later"), nil
		}
		return build(container)(ctx, req)
	}
}

// IsHealthy checks that a container exists and its datastore answers
func (cm *ConnectionManager) IsHealthy(ctx context.Context) bool {
	cm.mu.Lock()
	container := cm.container
	cm.mu.Unlock()

	if container == nil {
		return false
	}
	return container.Health(ctx) == nil
}

// LastUsed returns when the container was last handed out
func (cm *ConnectionManager) LastUsed() time.Time {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.lastUsed
}

// Cleanup closes the container; the next GetContainer builds a fresh one
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}

	err := cm.container.Close()
	cm.container = nil
	return err
}
