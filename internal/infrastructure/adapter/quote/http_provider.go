// Package quote implements quote.Provider over an HTTP JSON API with an
// optional Redis cache in front of it.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

// maxBodyBytes caps the provider payload that is decoded
const maxBodyBytes = 1 << 20

// HTTPConfig describes where quotes come from and how to read them
type HTTPConfig struct {
	// URL may contain {symbol} and {apiKey} placeholders
	URL        string
	APIKey     string
	Timeout    time.Duration
	SymbolPath string
	NamePath   string
	PricePath  string
}

// HTTPProvider resolves quotes with one GET per symbol
type HTTPProvider struct {
	config HTTPConfig
	client *http.Client
	logger coreport.Logger
}

// NewHTTPProvider creates a provider. A nil client uses a client bounded by config.Timeout.
func NewHTTPProvider(config HTTPConfig, client *http.Client, logger coreport.Logger) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if config.PricePath == "" {
		config.PricePath = "$.latestPrice"
	}
	return &HTTPProvider{config: config, client: client, logger: logger}
}

// Lookup asks the upstream provider; HTTPProvider never caches
func (p *HTTPProvider) Lookup(ctx context.Context, symbol string) (entity.Quote, error) {
	return p.fetch(ctx, symbol)
}

// Fresh asks the upstream provider
func (p *HTTPProvider) Fresh(ctx context.Context, symbol string) (entity.Quote, error) {
	return p.fetch(ctx, symbol)
}

func (p *HTTPProvider) requestURL(symbol string) string {
	return strings.NewReplacer(
		"{symbol}", url.QueryEscape(symbol),
		"{apiKey}", url.QueryEscape(p.config.APIKey),
	).Replace(p.config.URL)
}

func (p *HTTPProvider) fetch(ctx context.Context, raw string) (entity.Quote, error) {
	symbol := entity.NormalizeSymbol(raw)
	if symbol == "" {
		return entity.Quote{}, errs.SymbolNotFound("symbol not found")
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(symbol), nil)
	if err != nil {
		return entity.Quote{}, errs.NewQuoteError(symbol, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("Quote request failed", map[string]any{"symbol": symbol, "error": err.Error()})
		return entity.Quote{}, errs.NewQuoteError(symbol, err)
	}
	defer resp.Body.Close()

	p.logger.Debug("Quote response", map[string]any{
		"symbol":  symbol,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	})

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.Quote{}, errs.SymbolNotFound("symbol not found")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return entity.Quote{}, errs.NewQuoteError(symbol, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return entity.Quote{}, errs.NewQuoteError(symbol, fmt.Errorf("decode payload: %w", err))
	}

	return p.parse(symbol, payload)
}

func (p *HTTPProvider) parse(symbol string, payload any) (entity.Quote, error) {
	priceValue, err := lookupPath(p.config.PricePath, payload)
	if err != nil || priceValue == nil {
		return entity.Quote{}, errs.SymbolNotFound("symbol not found")
	}
	price, err := toDecimal(priceValue)
	if err != nil {
		return entity.Quote{}, errs.NewQuoteError(symbol, err)
	}
	if price.IsNegative() {
		return entity.Quote{}, errs.NewQuoteError(symbol, fmt.Errorf("negative price %s", price))
	}

	q := entity.Quote{Symbol: symbol, Name: symbol, Price: price}
	if v, err := lookupPath(p.config.SymbolPath, payload); err == nil {
		if s, ok := v.(string); ok && entity.NormalizeSymbol(s) != "" {
			q.Symbol = entity.NormalizeSymbol(s)
		}
	}
	if v, err := lookupPath(p.config.NamePath, payload); err == nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			q.Name = strings.TrimSpace(s)
		}
	}
	return q, nil
}

// lookupPath evaluates a JSONPath and unwraps single element results
func lookupPath(path string, payload any) (any, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}
	v, err := jsonpath.Get(path, payload)
	if err != nil {
		return nil, err
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, errors.New("no match")
		}
		v = list[0]
	}
	return v, nil
}

// toDecimal accepts numbers and numeric strings
func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case json.Number:
		return decimal.NewFromString(val.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(val))
	case float64:
		return decimal.NewFromFloat(val), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("price has unexpected type %T", v)
	}
}
