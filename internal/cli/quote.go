package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/quote"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/bootstrap"
)

type quoteCmd struct {
	fresh bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "look up quotes with the configured provider" }
func (*quoteCmd) Usage() string {
	return `ptctl quote [-fresh] SYMBOL...

  Resolves each symbol through the quote provider configured for PT_ENV,
  using the Redis cache when one is configured. -fresh bypasses the cache.
`
}

func (q *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&q.fresh, "fresh", false, "Bypass the quote cache.")
}

func (q *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one symbol is required")
		return subcommands.ExitUsageError
	}

	cfg, log, err := environment()
	if err != nil {
		return fail(err)
	}
	defer log.Flush()

	rdb := bootstrap.NewRedisClient(ctx, cfg.Redis, log)
	if rdb != nil {
		defer rdb.Close()
	}
	provider := bootstrap.NewQuoteProvider(cfg.Quote, rdb, log)

	if failed := printQuotes(ctx, os.Stdout, provider, q.fresh, f.Args()); failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printQuotes writes one line per symbol and returns how many failed
func printQuotes(ctx context.Context, w io.Writer, provider quote.Provider, fresh bool, symbols []string) int {
	failed := 0
	for _, raw := range symbols {
		symbol := entity.NormalizeSymbol(raw)

		var (
			q   entity.Quote
			err error
		)
		if fresh {
			q, err = provider.Fresh(ctx, symbol)
		} else {
			q, err = provider.Lookup(ctx, symbol)
		}
		if err != nil {
			failed++
			fmt.Fprintf(w, "%-8s error: %s\n", symbol, errs.PublicMessage(err))
			continue
		}
		fmt.Fprintf(w, "%-8s %s  %s\n", q.Symbol, entity.FormatUSD(q.Price), q.Name)
	}
	return failed
}
