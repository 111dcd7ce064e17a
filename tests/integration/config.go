package integration

import (
	"context"
	"fmt"
	"time"

	"study-auth/app/config"
	"study-auth/app/driver/kratos"
	"study-auth/app/driver/postgres"
	"study-auth/app/utils/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// Test environment configuration
	TestPostgresHost     = "localhost"
	TestPostgresPort     = "5433"
	TestPostgresDB       = "study_auth_test_db"
	TestPostgresUser     = "study_auth_test_user"
	TestPostgresPassword = "test_password"
	TestPostgresSSLMode  = "disable"

	TestKratosPublicURL = "http://localhost:4433"
	TestKratosAdminURL  = "http://localhost:4434"

	TestServiceURL = "http://localhost:9500"
)

// TestConfig creates a configuration for integration tests
func TestConfig() *config.Config {
	return &config.Config{
		// Server
		Port:     "9500",
		Host:     "0.0.0.0",
		LogLevel: "debug",

		// Database
		DatabaseURL:      fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", TestPostgresUser, TestPostgresPassword, TestPostgresHost, TestPostgresPort, TestPostgresDB, TestPostgresSSLMode),
		DatabaseHost:     TestPostgresHost,
		DatabasePort:     TestPostgresPort,
		DatabaseName:     TestPostgresDB,
		DatabaseUser:     TestPostgresUser,
		DatabasePassword: TestPostgresPassword,
		DatabaseSSLMode:  TestPostgresSSLMode,

		// Kratos
		KratosPublicURL: TestKratosPublicURL,
		KratosAdminURL:  TestKratosAdminURL,

		// Reconciliation timing
		ProbeTimeout:    5 * time.Second,
		DebounceWindow:  300 * time.Millisecond,
		GateTimeout:     10 * time.Second,
		RefreshInterval: 15 * time.Minute,
		ProfileCacheTTL: 5 * time.Minute,
	}
}

// TestDatabaseConnection creates a database connection for integration tests
func TestDatabaseConnection() (*pgxpool.Pool, error) {
	cfg := TestConfig()

	// Create logger
	testLogger, err := logger.New("debug")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Create database connection
	db, err := postgres.NewConnection(cfg, testLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return db.Pool(), nil
}

// TestKratosClient creates a Kratos client for integration tests
func TestKratosClient() (*kratos.Client, error) {
	cfg := TestConfig()

	// Create logger
	testLogger, err := logger.New("debug")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Create Kratos client
	return kratos.NewClient(cfg, testLogger)
}

// WaitForService waits for a service to be healthy
func WaitForService(ctx context.Context, healthCheckFunc func(context.Context) error, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if err := healthCheckFunc(ctx); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
			// Continue waiting
		}
	}

	return fmt.Errorf("service did not become healthy within %v", timeout)
}

// WaitForDatabase waits for the database to be ready
func WaitForDatabase(ctx context.Context) error {
	return WaitForService(ctx, func(ctx context.Context) error {
		pool, err := TestDatabaseConnection()
		if err != nil {
			return err
		}
		defer pool.Close()

		return pool.Ping(ctx)
	}, 30*time.Second)
}

// WaitForKratos waits for Kratos to be ready
func WaitForKratos(ctx context.Context) error {
	return WaitForService(ctx, func(ctx context.Context) error {
		client, err := TestKratosClient()
		if err != nil {
			return err
		}
		return client.HealthCheck(ctx)
	}, 60*time.Second)
}

// CleanupTestData cleans up test data from the database
func CleanupTestData(ctx context.Context) error {
	pool, err := TestDatabaseConnection()
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, "DELETE FROM user_profiles"); err != nil {
		return fmt.Errorf("failed to execute cleanup query: %w", err)
	}

	return nil
}
