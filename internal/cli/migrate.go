package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/bootstrap"
)

type migrateCmd struct {
	down bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply or roll back the database schema" }
func (*migrateCmd) Usage() string {
	return `ptctl migrate [-down]

  Applies every pending migration to the database configured for PT_ENV.
  With -down, reverts the most recent migration instead.
`
}

func (m *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&m.down, "down", false, "Roll back the most recent migration.")
}

func (m *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := environment()
	if err != nil {
		return fail(err)
	}
	defer log.Flush()

	dbConfig, err := bootstrap.DatabaseConfig(cfg)
	if err != nil {
		return fail(err)
	}
	manager := bootstrap.NewMigrationManager(dbConfig, log)

	if m.down {
		err = manager.Rollback()
	} else {
		err = manager.MigrateAll()
	}
	if err != nil {
		return fail(err)
	}

	version, dirty, err := manager.Version()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("schema version %d (dirty: %t)\n", version, dirty)
	return subcommands.ExitSuccess
}
