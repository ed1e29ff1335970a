package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration, read once per process
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if isRunningInLambda() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment.
// Lambda only allows writes under /tmp, so a default SQLite path moves there
// unless an RDS endpoint is configured.
func AdaptConfigForServerless(ctx context.Context, config *Config) *Config {
	if !isRunningInLambda() {
		return config
	}

	if config.Database.Driver == "sqlite" && config.Database.ConnectionString == DefaultSQLitePath {
		if os.Getenv("RDS_ENDPOINT") != "" {
			config.Database.Driver = "postgres"
			config.Database.ConnectionString = buildRDSConnectionString()
			config.Database.MaxOpenConns = GetEnvAsInt("DB_MAX_OPEN_CONNS", 2)
			config.Database.MaxIdleConns = config.Database.MaxOpenConns
		} else {
			config.Database.ConnectionString = filepath.Join(os.TempDir(), "people.db")
		}
	}

	if taskRoot := os.Getenv("LAMBDA_TASK_ROOT"); taskRoot != "" && config.Database.MigrationsPath == DefaultMigrationsPath {
		config.Database.MigrationsPath = filepath.Join(taskRoot, "migrations")
	}

	config.Log.Format = "json"

	return config
}

// buildRDSConnectionString constructs RDS connection string from environment variables
func buildRDSConnectionString() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("RDS_USERNAME"), os.Getenv("RDS_PASSWORD")),
		Host:     fmt.Sprintf("%s:%s", os.Getenv("RDS_ENDPOINT"), GetEnv("RDS_PORT", "5432")),
		Path:     "/" + GetEnv("RDS_DB_NAME", "people"),
		RawQuery: "sslmode=" + GetEnv("RDS_SSL_MODE", "require"),
	}
	return dsn.String()
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	config = AdaptConfigForServerless(context.Background(), config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
