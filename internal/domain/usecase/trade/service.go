package trade

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/event"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/quote"
)

// maxConcurrentQuotes bounds parallel provider calls when valuing a portfolio
const maxConcurrentQuotes = 8

// Service implements usecase.TradeUseCase
type Service struct {
	users        persistence.UserRepository
	transactions persistence.TransactionRepository
	uow          persistence.UnitOfWork
	quotes       quote.Provider
	queue        *SettlementQueue
	publisher    event.Publisher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new trade service
func NewService(
	users persistence.UserRepository,
	transactions persistence.TransactionRepository,
	uow persistence.UnitOfWork,
	quotes quote.Provider,
	queue *SettlementQueue,
	publisher event.Publisher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		users:        users,
		transactions: transactions,
		uow:          uow,
		quotes:       quotes,
		queue:        queue,
		publisher:    publisher,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Portfolio values every held position at the current quote.
// A single unresolved quote fails the whole view.
func (s *Service) Portfolio(ctx context.Context, userID uint64) (*entity.Portfolio, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	positions, err := s.transactions.Positions(ctx, userID)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]entity.Quote, len(positions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)
	for _, p := range positions {
		symbol := p.Symbol
		g.Go(func() error {
			q, err := s.quotes.Lookup(gctx, symbol)
			if err != nil {
				var qerr *errs.QuoteError
				if errors.As(err, &qerr) {
					return err
				}
				return errs.NewQuoteError(symbol, err)
			}
			mu.Lock()
			quotes[symbol] = q
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("Portfolio valuation failed", errs.LogFields(err))
		return nil, err
	}

	portfolio, missing, ok := entity.NewPortfolio(positions, quotes, user.Cash())
	if !ok {
		return nil, errs.NewQuoteError(missing, errs.ErrQuoteUnavailable)
	}
	return portfolio, nil
}

// History returns the ledger of a user, newest first
func (s *Service) History(ctx context.Context, userID uint64) ([]*entity.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// Positions returns the held positions of a user
func (s *Service) Positions(ctx context.Context, userID uint64) ([]entity.Position, error) {
	return s.transactions.Positions(ctx, userID)
}

// Quote looks up a symbol for display
func (s *Service) Quote(ctx context.Context, rawSymbol string) (entity.Quote, error) {
	symbol := entity.NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return entity.Quote{}, errs.Validation("must provide a symbol")
	}
	return s.quotes.Lookup(ctx, symbol)
}

// Buy validates a purchase at a freshly resolved price and settles it
func (s *Service) Buy(ctx context.Context, userID uint64, rawSymbol, rawShares string) (*entity.Settlement, error) {
	symbol := entity.NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return nil, errs.Validation("missing symbol")
	}
	if strings.TrimSpace(rawShares) == "" {
		return nil, errs.Validation("missing shares")
	}

	q, err := s.quotes.Fresh(ctx, symbol)
	if err != nil {
		return nil, err
	}

	shares, err := entity.ParseShares(rawShares)
	if err != nil {
		return nil, err
	}

	// Settle at the stored price scale so the ledger row accounts for the cash moved
	q.Price = entity.NormalizePrice(q.Price)
	cost := entity.SettledAmount(q.Price, shares)
	settledSymbol := settledSymbol(q, symbol)

	var settlement *entity.Settlement
	err = s.settle(ctx, userID, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		user, err := users.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if err := user.Debit(cost); err != nil {
			return err
		}

		tx, err := entity.NewBuy(userID, settledSymbol, shares, q.Price, s.timeProvider.Now())
		if err != nil {
			return err
		}
		if err := users.UpdateCash(txCtx, userID, user.Cash()); err != nil {
			return err
		}
		if err := s.uow.GetTransactionRepository(txCtx).Append(txCtx, tx); err != nil {
			return err
		}

		settlement = &entity.Settlement{Transaction: tx, Quote: q, Cash: user.Cash()}
		return nil
	})
	if err != nil {
		s.logger.Warn("Buy rejected", mergeFields(errs.LogFields(err), map[string]any{
			"user_id": userID,
			"symbol":  symbol,
			"shares":  shares,
		}))
		return nil, err
	}

	s.logger.Info("Buy settled", map[string]any{
		"user_id": userID,
		"symbol":  settledSymbol,
		"shares":  shares,
		"price":   q.Price.String(),
		"cash":    settlement.Cash.String(),
	})
	s.publishTrade(ctx, settlement)
	return settlement, nil
}

// Sell validates a sale against the held position and settles it at a
// freshly resolved price
func (s *Service) Sell(ctx context.Context, userID uint64, rawSymbol, rawShares string) (*entity.Settlement, error) {
	symbol := entity.NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return nil, errs.SymbolNotFound("symbol not found")
	}

	positions, err := s.transactions.Positions(ctx, userID)
	if err != nil {
		return nil, err
	}
	held := entity.HeldShares(positions, symbol)
	if held <= 0 {
		return nil, errs.SymbolNotFound("symbol not found")
	}

	shares, err := entity.ParseSignedShares(rawShares)
	if err != nil {
		return nil, err
	}
	if shares <= 0 || shares > held {
		return nil, errs.NewInvalidQuantityError(symbol, shares, held)
	}

	q, err := s.quotes.Fresh(ctx, symbol)
	if err != nil {
		return nil, err
	}
	q.Price = entity.NormalizePrice(q.Price)
	proceeds := entity.SettledAmount(q.Price, shares)

	var settlement *entity.Settlement
	err = s.settle(ctx, userID, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		user, err := users.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		// Re-read under the row lock; a concurrent sell may have reduced the position.
		ledger := s.uow.GetTransactionRepository(txCtx)
		current, err := ledger.Positions(txCtx, userID)
		if err != nil {
			return err
		}
		if heldNow := entity.HeldShares(current, symbol); shares > heldNow {
			if heldNow <= 0 {
				return errs.SymbolNotFound("symbol not found")
			}
			return errs.NewInvalidQuantityError(symbol, shares, heldNow)
		}

		if proceeds.IsPositive() {
			if err := user.Credit(proceeds); err != nil {
				return err
			}
		}
		tx, err := entity.NewSell(userID, symbol, shares, q.Price, s.timeProvider.Now())
		if err != nil {
			return err
		}
		if err := users.UpdateCash(txCtx, userID, user.Cash()); err != nil {
			return err
		}
		if err := ledger.Append(txCtx, tx); err != nil {
			return err
		}

		settlement = &entity.Settlement{Transaction: tx, Quote: q, Cash: user.Cash()}
		return nil
	})
	if err != nil {
		s.logger.Warn("Sell rejected", mergeFields(errs.LogFields(err), map[string]any{
			"user_id": userID,
			"symbol":  symbol,
			"shares":  shares,
		}))
		return nil, err
	}

	s.logger.Info("Sell settled", map[string]any{
		"user_id": userID,
		"symbol":  symbol,
		"shares":  shares,
		"price":   q.Price.String(),
		"cash":    settlement.Cash.String(),
	})
	s.publishTrade(ctx, settlement)
	return settlement, nil
}

// AddCash tops up the cash balance; no ledger row is written
func (s *Service) AddCash(ctx context.Context, userID uint64, rawAmount string) (decimal.Decimal, error) {
	amount, err := entity.ParseCashAmount(rawAmount)
	if err != nil {
		return decimal.Zero, err
	}

	var cash decimal.Decimal
	err = s.settle(ctx, userID, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		user, err := users.GetForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if err := user.Credit(amount); err != nil {
			return err
		}
		if err := users.UpdateCash(txCtx, userID, user.Cash()); err != nil {
			return err
		}
		cash = user.Cash()
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("Cash added", map[string]any{
		"user_id": userID,
		"amount":  amount.String(),
		"cash":    cash.String(),
	})
	s.publish(ctx, event.Event{
		Type:       event.TypeCashAdded,
		UserID:     userID,
		OccurredAt: s.timeProvider.Now(),
		Data: map[string]any{
			"amount": amount.String(),
			"cash":   cash.String(),
		},
	})
	return cash, nil
}

// settle runs fn in a unit of work, serialised with other settlements of the user
func (s *Service) settle(ctx context.Context, userID uint64, fn func(txCtx context.Context) error) error {
	return s.queue.Submit(ctx, userID, func(ctx context.Context) error {
		return s.inUnitOfWork(ctx, fn)
	})
}

func (s *Service) inUnitOfWork(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return errs.NewPersistenceError("begin settlement", err)
	}
	defer func() {
		if err != nil {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Failed to roll back settlement", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	if err = fn(txCtx); err != nil {
		return err
	}
	if err = s.uow.Commit(txCtx); err != nil {
		return errs.NewPersistenceError("commit settlement", err)
	}
	return nil
}

func (s *Service) publishTrade(ctx context.Context, st *entity.Settlement) {
	tx := st.Transaction
	s.publish(ctx, event.Event{
		Type:       event.TypeTradeExecuted,
		UserID:     tx.UserID,
		OccurredAt: tx.Date,
		Data: map[string]any{
			"transaction_id": tx.ID,
			"symbol":         tx.Symbol,
			"shares":         tx.Shares,
			"price":          tx.Price.String(),
			"cash":           st.Cash.String(),
		},
	})
}

func (s *Service) publish(ctx context.Context, ev event.Event) {
	// The settlement is committed; a caller that went away must not drop its event.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn("Failed to publish event", map[string]any{
			"type":    ev.Type,
			"user_id": ev.UserID,
			"error":   err.Error(),
		})
	}
}

func settledSymbol(q entity.Quote, requested string) string {
	if symbol := entity.NormalizeSymbol(q.Symbol); symbol != "" {
		return symbol
	}
	return requested
}

func mergeFields(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
