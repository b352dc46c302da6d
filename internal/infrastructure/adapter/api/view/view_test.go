package view

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
)

func renderPage(t *testing.T, r *Renderer, name string, page Page) string {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(name, page).Render(w))
	return w.Body.String()
}

func signedIn(data any) Page {
	return Page{
		SignedIn: true,
		Username: "alice",
		Cash:     decimal.RequireFromString("9876.5"),
		Data:     data,
	}
}

func TestNewRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		Apology, Index, Buy, Sell, History, Quote, Quoted,
		Login, Register, ChangePassword, AddCash, Watchlist,
	}, r.Names())
}

func TestLayout(t *testing.T) {
	r := MustNewRenderer()

	t.Run("Signed in shows user and cash", func(t *testing.T) {
		page := signedIn(nil)
		page.Flashes = []string{"Password changed successfully!"}

		body := renderPage(t, r, Buy, page)

		assert.Contains(t, body, "alice ($9,876.50)")
		assert.Contains(t, body, "Password changed successfully!")
		assert.Contains(t, body, `href="/logout"`)
	})

	t.Run("Anonymous shows login links", func(t *testing.T) {
		body := renderPage(t, r, Login, Page{})

		assert.Contains(t, body, `href="/register"`)
		assert.NotContains(t, body, `href="/logout"`)
	})
}

func TestPages(t *testing.T) {
	r := MustNewRenderer()
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Apology", func(t *testing.T) {
		body := renderPage(t, r, Apology, Page{Data: map[string]any{"code": 403, "message": "invalid username and/or password"}})

		assert.Contains(t, body, "403")
		assert.Contains(t, body, "invalid username and/or password")
	})

	t.Run("Portfolio", func(t *testing.T) {
		portfolio := &entity.Portfolio{
			Holdings: []entity.Holding{{
				Symbol: "IBM",
				Name:   "International Business Machines",
				Shares: 3,
				Price:  decimal.RequireFromString("150.255"),
				Value:  decimal.RequireFromString("450.765"),
			}},
			Cash:       decimal.RequireFromString("9549.24"),
			TotalValue: decimal.RequireFromString("450.77"),
			GrandTotal: decimal.RequireFromString("10000.01"),
		}

		body := renderPage(t, r, Index, signedIn(map[string]any{"portfolio": portfolio}))

		assert.Contains(t, body, "International Business Machines")
		assert.Contains(t, body, "$150.26")
		assert.Contains(t, body, "$10,000.01")
	})

	t.Run("History labels rows", func(t *testing.T) {
		buy, err := entity.NewBuy(1, "IBM", 2, decimal.NewFromInt(100), at)
		require.NoError(t, err)
		sell, err := entity.NewSell(1, "IBM", 1, decimal.NewFromInt(120), at)
		require.NoError(t, err)

		body := renderPage(t, r, History, signedIn(map[string]any{"transactions": []*entity.Transaction{sell, buy}}))

		assert.Contains(t, body, "sold")
		assert.Contains(t, body, "bought")
		assert.Contains(t, body, "$120.00")
		assert.Contains(t, body, "2024-06-01 09:30:00")
		assert.NotContains(t, body, "<td>-1</td>")
	})

	t.Run("Sell lists held symbols", func(t *testing.T) {
		body := renderPage(t, r, Sell, signedIn(map[string]any{"positions": []entity.Position{{Symbol: "AAPL", Shares: 4}}}))

		assert.Contains(t, body, `<option value="AAPL">AAPL (4)</option>`)
	})

	t.Run("Quoted", func(t *testing.T) {
		q := entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.RequireFromString("182.5")}

		body := renderPage(t, r, Quoted, signedIn(map[string]any{"quote": q}))

		assert.Contains(t, body, "A share of IBM Corp (IBM) costs $182.50.")
	})

	t.Run("Watchlist inline edit", func(t *testing.T) {
		statuses := []entity.WatchlistStatus{
			{
				Entry:     entity.WatchlistEntry{ID: 7, Symbol: "IBM", TargetPrice: decimal.NewFromInt(200), Direction: entity.DirectionAbove},
				Quote:     entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.NewFromInt(210)},
				Triggered: true,
			},
			{
				Entry: entity.WatchlistEntry{ID: 8, Symbol: "AAPL", TargetPrice: decimal.NewFromInt(100), Direction: entity.DirectionBelow},
				Quote: entity.Quote{Symbol: "AAPL", Name: "Apple", Price: decimal.NewFromInt(150)},
			},
		}

		body := renderPage(t, r, Watchlist, signedIn(map[string]any{"statuses": statuses, "editID": uint64(8)}))

		assert.Contains(t, body, "Triggered")
		assert.Contains(t, body, `action="/watchlist/edit/8"`)
		assert.NotContains(t, body, `action="/watchlist/edit/7"`)
		assert.Contains(t, body, `action="/watchlist/delete/7"`)
	})

	t.Run("Unknown page falls back to apology", func(t *testing.T) {
		body := renderPage(t, r, "missing.html", Page{})

		assert.Contains(t, body, "page missing not found")
	})
}
