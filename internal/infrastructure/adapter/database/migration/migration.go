// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

//go:embed sql/*.sql
var migrations embed.FS

// MigrationManager applies schema migrations to one database URL
type MigrationManager struct {
	databaseURL string
	logger      coreport.Logger
}

// NewMigrationManager creates a migration manager for a postgres:// URL
func NewMigrationManager(databaseURL string, logger coreport.Logger) *MigrationManager {
	return &MigrationManager{databaseURL: databaseURL, logger: logger}
}

func (m *MigrationManager) open() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	mig, err := migrate.NewWithSourceInstance("iofs", src, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// MigrateAll applies every pending up migration
func (m *MigrationManager) MigrateAll() error {
	return m.run("up", func(mig *migrate.Migrate) error { return mig.Up() })
}

// Rollback reverts the most recent migration
func (m *MigrationManager) Rollback() error {
	return m.run("down", func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

// Version reports the current schema version and whether it is dirty
func (m *MigrationManager) Version() (uint, bool, error) {
	mig, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer m.close(mig)

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *MigrationManager) run(direction string, step func(*migrate.Migrate) error) error {
	mig, err := m.open()
	if err != nil {
		return err
	}
	defer m.close(mig)

	m.logger.Info("Running database migrations", map[string]any{"direction": direction})
	if err := step(mig); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Database schema already up to date", nil)
			return nil
		}
		m.logger.Error("Migration failed", map[string]any{
			"direction": direction,
			"error":     err.Error(),
		})
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, _ := mig.Version()
	m.logger.Info("Database migrations completed", map[string]any{
		"direction": direction,
		"version":   version,
		"dirty":     dirty,
	})
	return nil
}

func (m *MigrationManager) close(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		m.logger.Warn("Failed to close migrator", map[string]any{"error": err.Error()})
	}
}
