package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/quote"
)

const cacheKeyPrefix = "quote:"

type cachedQuote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// CachedProvider serves Lookup from Redis when possible. Fresh always goes
// upstream and refreshes the cache. Redis failures fall through to upstream.
type CachedProvider struct {
	next   quote.Provider
	client redis.Cmdable
	ttl    time.Duration
	logger coreport.Logger
}

// NewCachedProvider wraps next with a Redis cache
func NewCachedProvider(next quote.Provider, client redis.Cmdable, ttl time.Duration, logger coreport.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, logger: logger}
}

func cacheKey(symbol string) string {
	return cacheKeyPrefix + entity.NormalizeSymbol(symbol)
}

// Lookup returns a cached quote younger than the TTL, or asks upstream
func (c *CachedProvider) Lookup(ctx context.Context, symbol string) (entity.Quote, error) {
	raw, err := c.client.Get(ctx, cacheKey(symbol)).Bytes()
	switch {
	case err == nil:
		var cq cachedQuote
		if jsonErr := json.Unmarshal(raw, &cq); jsonErr == nil {
			return entity.Quote{Symbol: cq.Symbol, Name: cq.Name, Price: cq.Price}, nil
		}
		c.logger.Warn("Discarding unreadable cached quote", map[string]any{"symbol": symbol})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Quote cache unavailable", map[string]any{"symbol": symbol, "error": err.Error()})
	}

	return c.Fresh(ctx, symbol)
}

// Fresh asks upstream and stores the result
func (c *CachedProvider) Fresh(ctx context.Context, symbol string) (entity.Quote, error) {
	q, err := c.next.Fresh(ctx, symbol)
	if err != nil {
		return entity.Quote{}, err
	}

	payload, err := json.Marshal(cachedQuote{Symbol: q.Symbol, Name: q.Name, Price: q.Price})
	if err == nil {
		err = c.client.Set(ctx, cacheKey(symbol), payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Failed to cache quote", map[string]any{"symbol": q.Symbol, "error": err.Error()})
	}
	return q, nil
}
