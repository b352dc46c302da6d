// Package cli implements the ptctl subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/config"
)

// Commands lists every ptctl subcommand
var Commands = []subcommands.Command{
	&migrateCmd{},
	&quoteCmd{},
	&loadTestCmd{},
}

// environment loads the configuration selected by PT_ENV and a logger for it
func environment() (*config.Config, coreport.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
