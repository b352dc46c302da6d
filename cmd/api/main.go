package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/papertrade/internal/domain/usecase/trade"
	"github.com/amirhossein-jamali/papertrade/internal/domain/usecase/watchlist"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/event"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Flush()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Server stopped with error", map[string]any{"error": err.Error()})
		appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger coreport.Logger) error {
	ctx := context.Background()
	tp := timeProvider.NewRealTimeProvider()

	dbConfig, err := bootstrap.DatabaseConfig(cfg)
	if err != nil {
		return err
	}
	dbManager, err := bootstrap.OpenDatabase(ctx, dbConfig, cfg.Database.AutoMigrate, appLogger, tp)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	rdb := bootstrap.NewRedisClient(ctx, cfg.Redis, appLogger)
	if rdb != nil {
		defer rdb.Close()
	}
	quotes := bootstrap.NewQuoteProvider(cfg.Quote, rdb, appLogger)

	var revocations security.RevocationStore
	if rdb != nil {
		revocations = security.NewRedisRevocationStore(rdb, tp.Now)
	} else {
		revocations = security.NewMemoryRevocationStore(tp.Now)
	}
	sessions := security.NewJWTSessionManager(sessionSecret(cfg, appLogger), cfg.Session.TTL, revocations, tp, appLogger)

	publisher := event.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, appLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Warn("Failed to close event publisher", map[string]any{"error": err.Error()})
		}
	}()

	// Initialize use cases
	startingCash := decimal.RequireFromString(cfg.Trading.StartingCash)
	authService := auth.NewService(dbManager.Users(), security.NewBcryptHasher(0), startingCash, tp, appLogger)

	queue := trade.NewSettlementQueue(appLogger, cfg.Trading.SettlementQueue)
	tradeService := trade.NewService(
		dbManager.Users(),
		dbManager.Transactions(),
		dbManager.UnitOfWork(),
		quotes,
		queue,
		publisher,
		tp,
		appLogger,
	)
	watchlistService := watchlist.NewService(dbManager.Watchlist(), quotes, publisher, tp, appLogger)

	// Initialize API handlers
	cookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	router := routes.NewRouter(
		renderer,
		routes.Handlers{
			Auth:      handler.NewAuthHandler(authService, sessions, cookie, appLogger),
			Trade:     handler.NewTradeHandler(tradeService, appLogger),
			Watchlist: handler.NewWatchlistHandler(watchlistService, appLogger),
			Health:    handler.NewHealthHandler(dbManager, appLogger),
		},
		middleware.RequireSession(sessions, authService, cookie, appLogger),
		appLogger,
	)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	case err := <-serverErr:
		queue.Shutdown()
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests first so no new settlements are queued
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Draining settlement queue...", nil)
	queue.Shutdown()

	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// sessionSecret returns the configured signing secret. Outside production a
// missing secret is replaced by a random one, which logs everyone out on
// restart.
func sessionSecret(cfg *config.Config, appLogger coreport.Logger) string {
	if cfg.Session.Secret != "" {
		return cfg.Session.Secret
	}
	appLogger.Warn("session.secret is empty, using a random secret", nil)
	return uuid.NewString() + uuid.NewString()
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	for key, value := range map[string]string{
		"database.host (or PT_DB_HOST)":         cfg.Database.Host,
		"database.port (or PT_DB_PORT)":         cfg.Database.Port,
		"database.username (or PT_DB_USERNAME)": cfg.Database.Username,
		"database.password (or PT_DB_PASSWORD)": cfg.Database.Password,
		"database.database (or PT_DB_NAME)":     cfg.Database.Database,
	} {
		if value == "" {
			missingConfigs = append(missingConfigs, key)
		}
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Quote provider and sessions
	if cfg.Quote.URL == "" {
		missingConfigs = append(missingConfigs, "quote.url (or PT_QUOTE_URL)")
	}
	if cfg.Quote.Timeout == 0 {
		missingConfigs = append(missingConfigs, "quote.timeout")
	}
	if cfg.Session.CookieName == "" {
		missingConfigs = append(missingConfigs, "session.cookieName")
	}
	if cfg.Session.TTL == 0 {
		missingConfigs = append(missingConfigs, "session.ttl")
	}
	if cfg.Session.Secret == "" && cfg.Environment == config.Production {
		missingConfigs = append(missingConfigs, "session.secret (or PT_SESSION_SECRET)")
	}
	if len(cfg.Events.Brokers) > 0 && cfg.Events.Topic == "" {
		missingConfigs = append(missingConfigs, "events.topic")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	startingCash, err := decimal.NewFromString(cfg.Trading.StartingCash)
	if err != nil || startingCash.IsNegative() {
		return fmt.Errorf("trading.startingCash must be a non-negative amount, got %q", cfg.Trading.StartingCash)
	}
	if cfg.Trading.SettlementQueue <= 0 {
		return fmt.Errorf("trading.settlementQueue must be positive, got %d", cfg.Trading.SettlementQueue)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if !cfg.Session.Secure {
			warnings = append(warnings, "session.secure should be enabled in production")
		}
		if len(cfg.Session.Secret) < 32 {
			warnings = append(warnings, "session.secret should be at least 32 characters")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
