package watchlist

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/event"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/quote"
)

// maxConcurrentQuotes bounds parallel provider calls when listing entries
const maxConcurrentQuotes = 8

// Service implements usecase.WatchlistUseCase
type Service struct {
	entries      persistence.WatchlistRepository
	quotes       quote.Provider
	publisher    event.Publisher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new watchlist service
func NewService(
	entries persistence.WatchlistRepository,
	quotes quote.Provider,
	publisher event.Publisher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		entries:      entries,
		quotes:       quotes,
		publisher:    publisher,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create adds an alert for a symbol the provider can resolve
func (s *Service) Create(ctx context.Context, userID uint64, rawSymbol, rawTarget, rawDirection string) (*entity.WatchlistEntry, error) {
	symbol := entity.NormalizeSymbol(rawSymbol)
	if symbol == "" {
		return nil, errs.Validation("missing symbol")
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if resolved := entity.NormalizeSymbol(q.Symbol); resolved != "" {
		symbol = resolved
	}

	target, err := entity.ParseTargetPrice(rawTarget)
	if err != nil {
		return nil, err
	}
	direction, err := entity.ParseDirection(rawDirection)
	if err != nil {
		return nil, err
	}

	entry, err := entity.NewWatchlistEntry(userID, symbol, target, direction, s.timeProvider.Now())
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Watchlist entry created", entryFields(entry))
	s.publish(ctx, event.TypeWatchlistCreated, entry)
	return entry, nil
}

// List evaluates every entry of the user against a live quote, newest first.
// Entries whose quote fails are left out.
func (s *Service) List(ctx context.Context, userID uint64) ([]entity.WatchlistStatus, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]*entity.WatchlistStatus, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			q, err := s.quotes.Lookup(gctx, entry.Symbol)
			if err != nil {
				fields := errs.LogFields(err)
				fields["watchlist_id"] = entry.ID
				fields["symbol"] = entry.Symbol
				s.logger.Warn("Skipping watchlist entry without quote", fields)
				return nil
			}
			statuses[i] = &entity.WatchlistStatus{
				Entry:     *entry,
				Quote:     q,
				Triggered: entry.Triggered(q.Price),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]entity.WatchlistStatus, 0, len(statuses))
	for _, st := range statuses {
		if st != nil {
			out = append(out, *st)
		}
	}
	return out, nil
}

// Get returns one entry owned by the user
func (s *Service) Get(ctx context.Context, userID, id uint64) (*entity.WatchlistEntry, error) {
	return s.entries.Get(ctx, userID, id)
}

// Edit applies the non-blank fields to an owned entry
func (s *Service) Edit(ctx context.Context, userID, id uint64, rawTarget, rawDirection string) (*entity.WatchlistEntry, bool, error) {
	entry, err := s.entries.Get(ctx, userID, id)
	if err != nil {
		return nil, false, err
	}

	target := entry.TargetPrice
	if strings.TrimSpace(rawTarget) != "" {
		if target, err = entity.ParseTargetPrice(rawTarget); err != nil {
			return nil, false, err
		}
	}
	direction := entry.Direction
	if strings.TrimSpace(rawDirection) != "" {
		if direction, err = entity.ParseDirection(rawDirection); err != nil {
			return nil, false, err
		}
	}

	if target.Equal(entry.TargetPrice) && direction == entry.Direction {
		return entry, false, nil
	}

	entry.TargetPrice = target
	entry.Direction = direction
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, false, err
	}

	s.logger.Info("Watchlist entry updated", entryFields(entry))
	s.publish(ctx, event.TypeWatchlistUpdated, entry)
	return entry, true, nil
}

// Delete removes an owned entry
func (s *Service) Delete(ctx context.Context, userID, id uint64) error {
	if err := s.entries.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("Watchlist entry deleted", map[string]any{"user_id": userID, "watchlist_id": id})
	s.publish(ctx, event.TypeWatchlistDeleted, &entity.WatchlistEntry{ID: id, UserID: userID})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, entry *entity.WatchlistEntry) {
	data := map[string]any{"watchlist_id": entry.ID}
	if entry.Symbol != "" {
		data["symbol"] = entry.Symbol
		data["target_price"] = entry.TargetPrice.String()
		data["direction"] = string(entry.Direction)
	}

	err := s.publisher.Publish(ctx, event.Event{
		Type:       eventType,
		UserID:     entry.UserID,
		OccurredAt: s.timeProvider.Now(),
		Data:       data,
	})
	if err != nil {
		s.logger.Warn("Failed to publish event", map[string]any{
			"type":    eventType,
			"user_id": entry.UserID,
			"error":   err.Error(),
		})
	}
}

func entryFields(entry *entity.WatchlistEntry) map[string]any {
	return map[string]any{
		"user_id":      entry.UserID,
		"watchlist_id": entry.ID,
		"symbol":       entry.Symbol,
		"target_price": entry.TargetPrice.String(),
		"direction":    string(entry.Direction),
	}
}
