package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/logger"
	securitymocks "github.com/amirhossein-jamali/papertrade/mocks/port/security"
	usecasemocks "github.com/amirhossein-jamali/papertrade/mocks/port/usecase"
)

const (
	aliceID    = uint64(7)
	aliceToken = "alice-token"
)

var cookie = middleware.SessionCookie{Name: "session", TTL: 12 * time.Hour}

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDatabase struct {
	err error
}

func (f fakeDatabase) Ping(context.Context) error { return f.err }

func (f fakeDatabase) Stats() database.ConnectionPoolMetrics {
	return database.ConnectionPoolMetrics{OpenConnections: 2, MaxOpenConnections: 25}
}

type fixture struct {
	auth      *usecasemocks.MockAuthUseCase
	trade     *usecasemocks.MockTradeUseCase
	watchlist *usecasemocks.MockWatchlistUseCase
	sessions  *securitymocks.MockSessionManager
	db        *fakeDatabase
	router    *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNoopLogger()
	f := &fixture{
		auth:      usecasemocks.NewMockAuthUseCase(t),
		trade:     usecasemocks.NewMockTradeUseCase(t),
		watchlist: usecasemocks.NewMockWatchlistUseCase(t),
		sessions:  securitymocks.NewMockSessionManager(t),
		db:        &fakeDatabase{},
	}
	f.router = NewRouter(
		view.MustNewRenderer(),
		Handlers{
			Auth:      handler.NewAuthHandler(f.auth, f.sessions, cookie, log),
			Trade:     handler.NewTradeHandler(f.trade, log),
			Watchlist: handler.NewWatchlistHandler(f.watchlist, log),
			Health:    handler.NewHealthHandler(f.db, log),
		},
		middleware.RequireSession(f.sessions, f.auth, cookie, log),
		log,
	)
	return f
}

// signIn makes aliceToken a valid session for alice
func (f *fixture) signIn() {
	f.sessions.On("Verify", mock.Anything, aliceToken).Return(security.Session{ID: "s1", UserID: aliceID}, nil)
	f.auth.On("CurrentUser", mock.Anything, aliceID).
		Return(entity.RestoreUser(aliceID, "alice", "hash", decimal.RequireFromString("9000"), time.Time{}), nil)
}

type request struct {
	method  string
	path    string
	form    url.Values
	cookies []*http.Cookie
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	var req *http.Request
	if r.form != nil {
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(r.method, r.path, nil)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) asAlice(method, path string, form url.Values) *httptest.ResponseRecorder {
	return f.do(request{
		method:  method,
		path:    path,
		form:    form,
		cookies: []*http.Cookie{{Name: cookie.Name, Value: aliceToken}},
	})
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// followFlash renders /add_cash with the flash cookie of rec and returns the page
func (f *fixture) followFlash(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	flash := responseCookie(rec, middleware.FlashCookie)
	require.NotNil(t, flash)
	next := f.do(request{
		method:  http.MethodGet,
		path:    "/add_cash",
		cookies: []*http.Cookie{{Name: cookie.Name, Value: aliceToken}, flash},
	})
	require.Equal(t, http.StatusOK, next.Code)
	return next.Body.String()
}

func TestPagesRequireSession(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/", "/buy", "/sell", "/history", "/quote", "/add_cash", "/change_password", "/watchlist"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(request{method: http.MethodGet, path: path})

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(request{method: http.MethodGet, path: "/healthz"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"up"`)
		assert.Contains(t, rec.Body.String(), `"max_open_connections":25`)
	})

	t.Run("Down", func(t *testing.T) {
		f := newFixture(t)
		f.db.err = errs.NewPersistenceError("ping", errors.Join(errs.ErrDatabaseConnection, errors.New("dial tcp: refused")))

		rec := f.do(request{method: http.MethodGet, path: "/healthz"})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"down"`)
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}

func TestLogin(t *testing.T) {
	t.Run("Success starts a session", func(t *testing.T) {
		f := newFixture(t)
		alice := entity.RestoreUser(aliceID, "alice", "hash", decimal.Zero, time.Time{})
		f.auth.On("Login", mock.Anything, "alice", "pw").Return(alice, nil).Once()
		f.sessions.On("Issue", mock.Anything, aliceID).Return("new-token", security.Session{ID: "s2", UserID: aliceID}, nil).Once()

		rec := f.do(request{method: http.MethodPost, path: "/login", form: url.Values{"username": {"alice"}, "password": {"pw"}}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		session := responseCookie(rec, cookie.Name)
		require.NotNil(t, session)
		assert.Equal(t, "new-token", session.Value)
		assert.True(t, session.HttpOnly)
	})

	t.Run("Previous session is revoked first", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.On("Revoke", mock.Anything, "old-token").Return(nil).Once()

		rec := f.do(request{
			method:  http.MethodGet,
			path:    "/login",
			cookies: []*http.Cookie{{Name: cookie.Name, Value: "old-token"}},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		cleared := responseCookie(rec, cookie.Name)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)
	})

	t.Run("Blank fields are forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("Login", mock.Anything, "", "").Return(nil, errs.Validation("must provide username")).Once()

		rec := f.do(request{method: http.MethodPost, path: "/login", form: url.Values{}})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "must provide username")
	})

	t.Run("Wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("Login", mock.Anything, "alice", "nope").
			Return(nil, errs.InvalidCredentials("invalid username and/or password")).Once()

		rec := f.do(request{method: http.MethodPost, path: "/login", form: url.Values{"username": {"alice"}, "password": {"nope"}}})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid username and/or password")
		assert.Nil(t, responseCookie(rec, cookie.Name))
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.sessions.On("Revoke", mock.Anything, aliceToken).Return(nil).Once()

	rec := f.asAlice(http.MethodGet, "/logout", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cleared := responseCookie(rec, cookie.Name)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestRegister(t *testing.T) {
	t.Run("Logs the new user in", func(t *testing.T) {
		f := newFixture(t)
		bob := entity.RestoreUser(9, "bob", "hash", decimal.NewFromInt(10000), time.Time{})
		f.auth.On("Register", mock.Anything, "bob", "pw", "pw").Return(bob, nil).Once()
		f.sessions.On("Issue", mock.Anything, uint64(9)).Return("bob-token", security.Session{ID: "s3", UserID: 9}, nil).Once()

		rec := f.do(request{method: http.MethodPost, path: "/register", form: url.Values{
			"username": {"bob"}, "password": {"pw"}, "confirmation": {"pw"},
		}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "bob-token", responseCookie(rec, cookie.Name).Value)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("Register", mock.Anything, "alice", "pw", "pw").Return(nil, errs.ErrDuplicateUsername).Once()

		rec := f.do(request{method: http.MethodPost, path: "/register", form: url.Values{
			"username": {"alice"}, "password": {"pw"}, "confirmation": {"pw"},
		}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "username already exists")
	})
}

func TestIndex(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.trade.On("Portfolio", mock.Anything, aliceID).Return(&entity.Portfolio{
		Holdings: []entity.Holding{{
			Symbol: "IBM", Name: "IBM Corp", Shares: 2,
			Price: decimal.NewFromInt(150), Value: decimal.NewFromInt(300),
		}},
		Cash:       decimal.NewFromInt(9000),
		TotalValue: decimal.NewFromInt(300),
		GrandTotal: decimal.NewFromInt(9300),
	}, nil).Once()

	rec := f.asAlice(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "IBM Corp")
	assert.Contains(t, body, "$9,300.00")
	assert.Contains(t, body, "alice ($9,000.00)")
}

func TestIndexQuoteFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	f.trade.On("Portfolio", mock.Anything, aliceID).Return(nil, errs.NewQuoteError("IBM", context.DeadlineExceeded)).Once()

	rec := f.asAlice(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not look up price for IBM")
}

func TestBuy(t *testing.T) {
	t.Run("Success flashes the settlement", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		tx, err := entity.NewBuy(aliceID, "IBM", 2, decimal.NewFromInt(150), time.Now())
		require.NoError(t, err)
		f.trade.On("Buy", mock.Anything, aliceID, "ibm", "2").Return(&entity.Settlement{
			Transaction: tx,
			Quote:       entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.NewFromInt(150)},
			Cash:        decimal.NewFromInt(9700),
		}, nil).Once()

		rec := f.asAlice(http.MethodPost, "/buy", url.Values{"symbol": {"ibm"}, "shares": {"2"}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Contains(t, f.followFlash(t, rec), "Bought 2 shares of IBM Corp (IBM) for $300.00")
	})

	t.Run("Insufficient funds", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Buy", mock.Anything, aliceID, "IBM", "1000").
			Return(nil, errs.NewInsufficientFundsError(aliceID, "150000.00", "9000.00")).Once()

		rec := f.asAlice(http.MethodPost, "/buy", url.Values{"symbol": {"IBM"}, "shares": {"1000"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient funds")
	})

	t.Run("Database failure hides details", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Buy", mock.Anything, aliceID, "IBM", "1").
			Return(nil, errs.NewPersistenceError("transaction.append", errors.New("pq: relation missing"))).Once()

		rec := f.asAlice(http.MethodPost, "/buy", url.Values{"symbol": {"IBM"}, "shares": {"1"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "relation missing")
	})
}

func TestSell(t *testing.T) {
	t.Run("Form lists held symbols", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Positions", mock.Anything, aliceID).Return([]entity.Position{{Symbol: "IBM", Shares: 3}}, nil).Once()

		rec := f.asAlice(http.MethodGet, "/sell", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "IBM (3)")
	})

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		tx, err := entity.NewSell(aliceID, "IBM", 2, decimal.RequireFromString("160.5"), time.Now())
		require.NoError(t, err)
		f.trade.On("Sell", mock.Anything, aliceID, "IBM", "2").Return(&entity.Settlement{
			Transaction: tx,
			Quote:       entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: tx.Price},
		}, nil).Once()

		rec := f.asAlice(http.MethodPost, "/sell", url.Values{"symbol": {"IBM"}, "shares": {"2"}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, f.followFlash(t, rec), "2 shares of (IBM) sold for $321.00")
	})

	t.Run("Too many shares", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Sell", mock.Anything, aliceID, "IBM", "5").Return(nil, errs.NewInvalidQuantityError("IBM", 5, 3)).Once()

		rec := f.asAlice(http.MethodPost, "/sell", url.Values{"symbol": {"IBM"}, "shares": {"5"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "allowed shares between 1 - 3")
	})
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.signIn()
	sell, err := entity.NewSell(aliceID, "IBM", 1, decimal.NewFromInt(120), time.Now())
	require.NoError(t, err)
	f.trade.On("History", mock.Anything, aliceID).Return([]*entity.Transaction{sell}, nil).Once()

	rec := f.asAlice(http.MethodGet, "/history", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sold")
}

func TestQuote(t *testing.T) {
	t.Run("Symbol field is accepted as alias", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Quote", mock.Anything, "ibm").
			Return(entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.RequireFromString("182.5")}, nil).Once()

		rec := f.asAlice(http.MethodPost, "/quote", url.Values{"symbol": {"ibm"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "A share of IBM Corp (IBM) costs $182.50.")
	})

	t.Run("Unknown symbol", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("Quote", mock.Anything, "ZZZZ").Return(entity.Quote{}, errs.SymbolNotFound("symbol not found")).Once()

		rec := f.asAlice(http.MethodPost, "/quote", url.Values{"quote": {"ZZZZ"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "symbol not found")
	})
}

func TestAddCash(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("AddCash", mock.Anything, aliceID, "500").Return(decimal.NewFromInt(9500), nil).Once()

		rec := f.asAlice(http.MethodPost, "/add_cash", url.Values{"amount": {"500"}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, f.followFlash(t, rec), "Cash added. Your balance is now $9,500.00")
	})

	t.Run("Invalid amount", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.trade.On("AddCash", mock.Anything, aliceID, "-5").Return(decimal.Zero, errs.Validation("amount must be positive")).Once()

		rec := f.asAlice(http.MethodPost, "/add_cash", url.Values{"amount": {"-5"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "amount must be positive")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.auth.On("ChangePassword", mock.Anything, aliceID, "old", "new", "new").Return(nil).Once()
		f.sessions.On("RevokeUser", mock.Anything, aliceID).Return(nil).Once()
		f.sessions.On("Issue", mock.Anything, aliceID).Return("rotated-token", security.Session{ID: "s2", UserID: aliceID}, nil).Once()

		rec := f.asAlice(http.MethodPost, "/change_password", url.Values{
			"password": {"old"}, "new_pass": {"new"}, "confirmation": {"new"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		session := responseCookie(rec, cookie.Name)
		require.NotNil(t, session)
		assert.Equal(t, "rotated-token", session.Value)
		assert.Contains(t, f.followFlash(t, rec), "Password changed successfully!")
	})

	t.Run("Revocation failure keeps the new password", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.auth.On("ChangePassword", mock.Anything, aliceID, "old", "new", "new").Return(nil).Once()
		f.sessions.On("RevokeUser", mock.Anything, aliceID).
			Return(errs.NewPersistenceError("revoke user sessions", errors.New("redis down"))).Once()
		f.sessions.On("Issue", mock.Anything, aliceID).Return("rotated-token", security.Session{ID: "s2", UserID: aliceID}, nil).Once()

		rec := f.asAlice(http.MethodPost, "/change_password", url.Values{
			"password": {"old"}, "new_pass": {"new"}, "confirmation": {"new"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("Wrong old password", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.auth.On("ChangePassword", mock.Anything, aliceID, "bad", "new", "new").
			Return(errs.InvalidCredentials("incorrect old password")).Once()

		rec := f.asAlice(http.MethodPost, "/change_password", url.Values{
			"password": {"bad"}, "new_pass": {"new"}, "confirmation": {"new"},
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "incorrect old password")
	})
}

func TestWatchlist(t *testing.T) {
	entry := &entity.WatchlistEntry{
		ID: 5, UserID: aliceID, Symbol: "IBM",
		TargetPrice: decimal.NewFromInt(200), Direction: entity.DirectionAbove,
	}
	statuses := []entity.WatchlistStatus{{
		Entry:     *entry,
		Quote:     entity.Quote{Symbol: "IBM", Name: "IBM Corp", Price: decimal.NewFromInt(210)},
		Triggered: true,
	}}

	t.Run("List", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("List", mock.Anything, aliceID).Return(statuses, nil).Once()

		rec := f.asAlice(http.MethodGet, "/watchlist", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Triggered")
		assert.NotContains(t, rec.Body.String(), `action="/watchlist/edit/5"`)
	})

	t.Run("Inline edit of an owned entry", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("Get", mock.Anything, aliceID, uint64(5)).Return(entry, nil).Once()
		f.watchlist.On("List", mock.Anything, aliceID).Return(statuses, nil).Once()

		rec := f.asAlice(http.MethodGet, "/watchlist?edit=5", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/watchlist/edit/5"`)
	})

	t.Run("Inline edit of a foreign entry", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("Get", mock.Anything, aliceID, uint64(6)).Return(nil, errs.NotFound("watchlist entry not found")).Once()

		rec := f.asAlice(http.MethodGet, "/watchlist?edit=6", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "watchlist entry not found")
	})

	t.Run("Create", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("Create", mock.Anything, aliceID, "ibm", "200", "above").Return(entry, nil).Once()

		rec := f.asAlice(http.MethodPost, "/watchlist", url.Values{
			"symbol": {"ibm"}, "target_price": {"200"}, "direction": {"above"},
		})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/watchlist", rec.Header().Get("Location"))
	})

	t.Run("Edit link switches to inline mode", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()

		rec := f.asAlice(http.MethodGet, "/watchlist/edit/5", nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/watchlist?edit=5", rec.Header().Get("Location"))
	})

	t.Run("Edit without changes", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("Edit", mock.Anything, aliceID, uint64(5), "200", "").Return(entry, false, nil).Once()

		rec := f.asAlice(http.MethodPost, "/watchlist/edit/5", url.Values{"target_price": {"200"}})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, f.followFlash(t, rec), "No changes made")
	})

	t.Run("Edit with a malformed id", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()

		rec := f.asAlice(http.MethodPost, "/watchlist/edit/abc", url.Values{"target_price": {"1"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid watchlist id")
	})

	t.Run("Delete", func(t *testing.T) {
		f := newFixture(t)
		f.signIn()
		f.watchlist.On("Delete", mock.Anything, aliceID, uint64(5)).Return(nil).Once()

		rec := f.asAlice(http.MethodPost, "/watchlist/delete/5", url.Values{})

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, f.followFlash(t, rec), "Watchlist entry deleted")
	})
}
