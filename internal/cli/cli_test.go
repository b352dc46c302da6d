package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	quotemocks "github.com/amirhossein-jamali/papertrade/mocks/port/quote"
)

func TestCommandsAreRegistered(t *testing.T) {
	names := make([]string, 0, len(Commands))
	for _, c := range Commands {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"migrate", "quote", "loadtest"}, names)
}

func TestPrintQuotes(t *testing.T) {
	ctx := context.Background()

	t.Run("Lookup by default", func(t *testing.T) {
		provider := quotemocks.NewMockProvider(t)
		provider.On("Lookup", mock.Anything, "IBM").
			Return(entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.RequireFromString("182.5")}, nil).Once()
		provider.On("Lookup", mock.Anything, "ZZZZ").
			Return(entity.Quote{}, errs.SymbolNotFound("symbol not found")).Once()

		var out bytes.Buffer
		failed := printQuotes(ctx, &out, provider, false, []string{" ibm", "zzzz"})

		assert.Equal(t, 1, failed)
		assert.Contains(t, out.String(), "IBM      $182.50  IBM Corp")
		assert.Contains(t, out.String(), "ZZZZ     error: symbol not found")
	})

	t.Run("Fresh bypasses the cache", func(t *testing.T) {
		provider := quotemocks.NewMockProvider(t)
		provider.On("Fresh", mock.Anything, "AAPL").
			Return(entity.Quote{Symbol: "AAPL", Name: "Apple", Price: decimal.NewFromInt(150)}, nil).Once()

		var out bytes.Buffer
		failed := printQuotes(ctx, &out, provider, true, []string{"AAPL"})

		assert.Zero(t, failed)
		assert.Contains(t, out.String(), "$150.00")
	})
}

func TestLoadStats(t *testing.T) {
	stats := newLoadStats(4)
	stats.record(40*time.Millisecond, nil)
	stats.record(10*time.Millisecond, nil)
	stats.record(30*time.Millisecond, errors.New("HTTP status code 400"))
	stats.record(20*time.Millisecond, nil)

	assert.Equal(t, 3, stats.succeeded)
	assert.Equal(t, 1, stats.failed)
	assert.Equal(t, 30*time.Millisecond, stats.percentile(50))
	assert.Equal(t, 40*time.Millisecond, stats.percentile(99))
	assert.Equal(t, 40*time.Millisecond, stats.percentile(100))

	var out bytes.Buffer
	stats.print(&out)
	assert.Contains(t, out.String(), "HTTP status code 400")
}

// fakeServer mimics the login and buy endpoints: a session cookie is issued
// on login and required by buy, which fails once funds run out
func fakeServer(t *testing.T, affordable int64) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var bought atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "pw" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok", Path: "/"})
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("/buy", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "tok" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if r.PostFormValue("symbol") != "IBM" || r.PostFormValue("shares") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if bought.Add(1) > affordable {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &bought
}

func TestRunLoadTest(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts settled and rejected buys", func(t *testing.T) {
		server, bought := fakeServer(t, 15)

		stats, err := runLoadTest(ctx, loadTestOptions{
			BaseURL: server.URL + "/", Username: "alice", Password: "pw",
			Symbol: "IBM", Shares: 2, Requests: 20, Concurrency: 4, Timeout: 5 * time.Second,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(20), bought.Load())
		assert.Equal(t, 15, stats.succeeded)
		assert.Equal(t, 5, stats.failed)
		assert.Equal(t, 5, stats.errors["HTTP status code 400"])
	})

	t.Run("Bad credentials stop the run", func(t *testing.T) {
		server, bought := fakeServer(t, 10)

		_, err := runLoadTest(ctx, loadTestOptions{
			BaseURL: server.URL, Username: "alice", Password: "wrong",
			Symbol: "IBM", Shares: 2, Requests: 5, Concurrency: 2, Timeout: 5 * time.Second,
		})

		assert.ErrorContains(t, err, "login failed")
		assert.Zero(t, bought.Load())
	})

	t.Run("Rejects non positive sizes", func(t *testing.T) {
		_, err := runLoadTest(ctx, loadTestOptions{Requests: 0, Concurrency: 1})

		assert.Error(t, err)
	})
}
