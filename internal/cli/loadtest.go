package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type loadTestCmd struct {
	opts loadTestOptions
}

type loadTestOptions struct {
	BaseURL     string
	Username    string
	Password    string
	Symbol      string
	Shares      int
	Requests    int
	Concurrency int
	Timeout     time.Duration
}

func (*loadTestCmd) Name() string { return "loadtest" }
func (*loadTestCmd) Synopsis() string {
	return "fire concurrent buys for one user against a running server"
}
func (*loadTestCmd) Usage() string {
	return `ptctl loadtest -url <base> -user <name> -pass <password> [-n 100] [-c 5] [-symbol IBM] [-shares 1]

  Logs in once and sends -n buy requests from -c concurrent workers that share
  the session. Every buy settles against the same account, so the run
  exercises per-user serialisation of settlements.
`
}

func (l *loadTestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.opts.BaseURL, "url", "http://localhost:8080", "Base URL of the server.")
	f.StringVar(&l.opts.Username, "user", "", "Username to log in with.")
	f.StringVar(&l.opts.Password, "pass", "", "Password to log in with.")
	f.StringVar(&l.opts.Symbol, "symbol", "IBM", "Symbol to buy.")
	f.IntVar(&l.opts.Shares, "shares", 1, "Shares per buy.")
	f.IntVar(&l.opts.Requests, "n", 100, "Total number of buy requests.")
	f.IntVar(&l.opts.Concurrency, "c", 5, "Number of concurrent workers.")
	f.DurationVar(&l.opts.Timeout, "timeout", 10*time.Second, "Timeout of each request.")
}

func (l *loadTestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if l.opts.Username == "" || l.opts.Password == "" {
		fmt.Fprintln(os.Stderr, "-user and -pass are required")
		return subcommands.ExitUsageError
	}

	stats, err := runLoadTest(ctx, l.opts)
	if err != nil {
		return fail(err)
	}
	stats.print(os.Stdout)
	if stats.failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// loadStats aggregates the outcome of every request
type loadStats struct {
	mu        sync.Mutex
	total     int
	succeeded int
	failed    int
	elapsed   time.Duration
	latencies []time.Duration
	errors    map[string]int
}

func newLoadStats(total int) *loadStats {
	return &loadStats{
		total:     total,
		latencies: make([]time.Duration, 0, total),
		errors:    make(map[string]int),
	}
}

func (s *loadStats) record(latency time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latencies = append(s.latencies, latency)
	if err != nil {
		s.failed++
		s.errors[err.Error()]++
		return
	}
	s.succeeded++
}

// percentile returns the p-th percentile latency, p in [0, 100]
func (s *loadStats) percentile(p int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.latencies) == 0 {
		return 0
	}
	sorted := slices.Clone(s.latencies)
	slices.Sort(sorted)
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func (s *loadStats) print(w io.Writer) {
	rps := 0.0
	if s.elapsed > 0 {
		rps = float64(s.succeeded) / s.elapsed.Seconds()
	}

	fmt.Fprintln(w, "================= LOAD TEST RESULTS =================")
	fmt.Fprintf(w, "Total requests:      %d\n", s.total)
	fmt.Fprintf(w, "Successful requests: %d\n", s.succeeded)
	fmt.Fprintf(w, "Failed requests:     %d\n", s.failed)
	fmt.Fprintf(w, "Total time:          %.2fs\n", s.elapsed.Seconds())
	fmt.Fprintf(w, "Settled per second:  %.2f\n", rps)
	fmt.Fprintf(w, "P50 / P90 / P99:     %v / %v / %v\n", s.percentile(50), s.percentile(90), s.percentile(99))

	if len(s.errors) > 0 {
		fmt.Fprintln(w, "----------------- ERRORS -----------------")
		keys := make([]string, 0, len(s.errors))
		for k := range s.errors {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%-40s %d\n", k, s.errors[k])
		}
	}
}

// runLoadTest logs in and then sends opts.Requests buys through
// opts.Concurrency workers sharing the session cookie
func runLoadTest(ctx context.Context, opts loadTestOptions) (*loadStats, error) {
	if opts.Requests <= 0 || opts.Concurrency <= 0 {
		return nil, errors.New("-n and -c must be positive")
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Jar:     jar,
		Timeout: opts.Timeout,
		// A settled form post answers with a redirect; that response is the result
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	if err := postForm(ctx, client, base+"/login", url.Values{
		"username": {opts.Username},
		"password": {opts.Password},
	}); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	stats := newLoadStats(opts.Requests)
	jobs := make(chan struct{})
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.Requests; i++ {
			select {
			case jobs <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	form := url.Values{
		"symbol": {opts.Symbol},
		"shares": {fmt.Sprint(opts.Shares)},
	}
	for w := 0; w < opts.Concurrency; w++ {
		g.Go(func() error {
			for range jobs {
				began := time.Now()
				err := postForm(gctx, client, base+"/buy", form)
				stats.record(time.Since(began), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.elapsed = time.Since(start)
	return stats, nil
}

// postForm succeeds when the server answers with a redirect, which is how
// every successful form post ends
func postForm(ctx context.Context, client *http.Client, target string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	return nil
}
