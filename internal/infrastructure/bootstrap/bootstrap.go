// Package bootstrap builds the adapters shared by the server and ptctl from
// the loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/quote"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
	quoteadapter "github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/quote"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/config"
)

const redisPingTimeout = 2 * time.Second

// NewLogger creates the zap logger described by cfg
func NewLogger(cfg *config.Config) (coreport.Logger, error) {
	return logger.NewZapLogger(logger.Options{
		Production: cfg.Environment == config.Production,
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		CallerInfo: cfg.Logger.CallerInfo,
	})
}

// NewRedisClient returns nil when no address is configured. A server that
// does not answer is only logged: the quote cache falls through to the
// provider on errors.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log coreport.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Info("Redis not configured, quote cache and shared session revocation are disabled", nil)
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis is not reachable", map[string]any{"addr": cfg.Addr, "error": err.Error()})
	} else {
		log.Info("Connected to Redis", map[string]any{"addr": cfg.Addr, "db": cfg.DB})
	}
	return client
}

// NewQuoteProvider builds the HTTP provider, wrapped in the Redis cache when
// a client is given
func NewQuoteProvider(cfg config.QuoteConfig, rdb *redis.Client, log coreport.Logger) quote.Provider {
	var provider quote.Provider = quoteadapter.NewHTTPProvider(quoteadapter.HTTPConfig{
		URL:        cfg.URL,
		APIKey:     cfg.APIKey,
		Timeout:    cfg.Timeout,
		SymbolPath: cfg.SymbolKey,
		NamePath:   cfg.NameKey,
		PricePath:  cfg.PriceKey,
	}, nil, log)

	if rdb != nil && cfg.CacheTTL > 0 {
		provider = quoteadapter.NewCachedProvider(provider, rdb, cfg.CacheTTL, log)
	}
	return provider
}

// DatabaseConfig adapts and validates the database section
func DatabaseConfig(cfg *config.Config) (*database.Config, error) {
	dbConfig := database.NewConfig(cfg.Database, cfg.Logger.Level)
	if err := dbConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	return dbConfig, nil
}

// NewMigrationManager creates a migration manager for the configured database
func NewMigrationManager(dbConfig *database.Config, log coreport.Logger) *migration.MigrationManager {
	return migration.NewMigrationManager(dbConfig.URL(), log)
}

// OpenDatabase connects to the database, retrying while it starts, then
// applies migrations when migrate is set
func OpenDatabase(
	ctx context.Context,
	dbConfig *database.Config,
	migrate bool,
	log coreport.Logger,
	timeProvider coreport.TimeProvider,
) (*database.Manager, error) {
	manager := database.NewManager(dbConfig, log, timeProvider)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrate {
		if err := NewMigrationManager(dbConfig, log).MigrateAll(); err != nil {
			_ = manager.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return manager, nil
}
