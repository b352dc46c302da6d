package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/repository"
)

const poolMonitorInterval = 30 * time.Second

// Manager manages database connections
type Manager struct {
	config       *Config
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	errorMapper  *ErrorMapper
	monitor      *ConnectionPoolMonitor
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
		errorMapper:  NewErrorMapper(),
	}
}

// Connect opens the connection pool, retrying while the server is unreachable
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	m.logger.Info("Connecting to database", map[string]any{
		"host": m.config.Host,
		"port": m.config.Port,
		"name": m.config.Database,
	})

	retry := RetryConfig{
		MaxRetries:    m.config.RetryAttempts,
		RetryInterval: m.config.RetryDelay,
		MaxInterval:   8 * m.config.RetryDelay,
		JitterFactor:  0.2,
	}

	var gormDB *gorm.DB
	err := RetryOnTransientError(ctx, retry, func() error {
		var openErr error
		gormDB, openErr = gorm.Open(postgres.Open(m.config.DSN()), &gorm.Config{
			Logger:         NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel),
			NowFunc:        m.timeProvider.Now,
			TranslateError: true,
		})
		return openErr
	}, m.logger)
	if err != nil {
		return nil, m.errorMapper.MapError(fmt.Errorf("connect after %d attempts: %w", m.config.RetryAttempts, err), "connect")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, m.errorMapper.MapError(err, "connect")
	}
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	m.db = gormDB
	m.monitor = NewConnectionPoolMonitor(sqlDB.Stats, m.logger)
	m.monitor.Start(poolMonitorInterval)

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
	})
	return m.db, nil
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Ping checks that the database answers within the query timeout
func (m *Manager) Ping(ctx context.Context) error {
	if m.db == nil {
		return m.errorMapper.MapError(errors.New("no connection"), "ping")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return m.errorMapper.MapError(err, "ping")
	}

	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()
	return m.errorMapper.MapError(sqlDB.PingContext(ctx), "ping")
}

// Stats returns the latest pool snapshot
func (m *Manager) Stats() ConnectionPoolMetrics {
	if m.monitor == nil {
		return ConnectionPoolMetrics{}
	}
	return m.monitor.GetMetrics()
}

// Close stops monitoring and closes the pool
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.monitor != nil {
		m.monitor.Stop()
	}
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// WithTimeout returns a context bounded by the configured query timeout
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.config.QueryTimeout)
}

// UnitOfWork creates a unit of work over the pool
func (m *Manager) UnitOfWork() *UnitOfWork {
	return NewUnitOfWork(m.db, m.logger)
}

// Users returns a user repository outside any transaction
func (m *Manager) Users() *repository.UserRepository {
	return repository.NewUserRepository(m.db, m.logger)
}

// Transactions returns a ledger repository outside any transaction
func (m *Manager) Transactions() *repository.TransactionRepository {
	return repository.NewTransactionRepository(m.db, m.logger)
}

// Watchlist returns a watchlist repository
func (m *Manager) Watchlist() *repository.WatchlistRepository {
	return repository.NewWatchlistRepository(m.db, m.logger)
}
