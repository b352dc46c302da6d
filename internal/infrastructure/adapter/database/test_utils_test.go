package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
	clock "github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/time"
)

// TestDBManager wraps a Manager connected to a throwaway postgres container
type TestDBManager struct {
	Manager *Manager
	Config  *Config
}

// NewTestDBManager starts postgres, applies the migrations and connects
func NewTestDBManager(t *testing.T) *TestDBManager {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("papertrade_test"),
		tcpostgres.WithUsername("papertrade"),
		tcpostgres.WithPassword("papertrade"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	config := &Config{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		Username:        "papertrade",
		Password:        "papertrade",
		Database:        "papertrade_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   3,
		RetryDelay:      500 * time.Millisecond,
	}
	require.NoError(t, config.Validate())

	log := logger.NewNoopLogger()
	require.NoError(t, migration.NewMigrationManager(config.URL(), log).MigrateAll())

	manager := NewManager(config, log, clock.NewRealTimeProvider())
	_, err = manager.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	return &TestDBManager{Manager: manager, Config: config}
}

// TruncateAllTables empties every table between subtests
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()
	err := m.Manager.DB().Exec("TRUNCATE TABLE watchlist, transactions, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}

