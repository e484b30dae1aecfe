package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"cardstats/internal/cache"
	"cardstats/internal/core"
)

const (
	defaultExchangeBaseURL = "https://api.exchangerate-api.com/v4/latest/RUB"
	defaultStockBaseURL    = "https://www.alphavantage.co/query"
)

// Client fetches exchange rates and stock prices over HTTP. Results are
// cached with a TTL and concurrent lookups for the same symbol are
// collapsed into one upstream call.
type Client struct {
	httpClient      *http.Client
	exchangeBaseURL string
	stockBaseURL    string
	exchangeAPIKey  string
	stockAPIKey     string
	cache           *cache.LRUCache[float64]
	group           singleflight.Group
	log             *slog.Logger
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	ExchangeBaseURL string
	StockBaseURL    string
	ExchangeAPIKey  string
	StockAPIKey     string
	Timeout         time.Duration
	CacheSize       int
	CacheTTL        time.Duration
	Logger          *slog.Logger
}

// NewClient builds a market client.
func NewClient(opts Options) *Client {
	if opts.ExchangeBaseURL == "" {
		opts.ExchangeBaseURL = defaultExchangeBaseURL
	}
	if opts.StockBaseURL == "" {
		opts.StockBaseURL = defaultStockBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		httpClient:      &http.Client{Timeout: opts.Timeout},
		exchangeBaseURL: opts.ExchangeBaseURL,
		stockBaseURL:    opts.StockBaseURL,
		exchangeAPIKey:  opts.ExchangeAPIKey,
		stockAPIKey:     opts.StockAPIKey,
		cache:           cache.NewLRUCache[float64](opts.CacheSize, opts.CacheTTL),
		log:             opts.Logger,
	}
}

// Cache exposes the lookup cache for cleanup registration.
func (c *Client) Cache() *cache.LRUCache[float64] {
	return c.cache
}

// ExchangeRate returns the rate of one unit of currency in rubles, rounded
// to four decimals. The second return value is false when the lookup
// failed for any reason.
func (c *Client) ExchangeRate(ctx context.Context, currency string) (float64, bool) {
	return c.lookup(ctx, "rate:"+currency, func() (float64, error) {
		return c.fetchExchangeRate(ctx, currency)
	})
}

// StockPrice returns the last quoted price for the symbol, rounded to two
// decimals. The second return value is false when the lookup failed.
func (c *Client) StockPrice(ctx context.Context, symbol string) (float64, bool) {
	return c.lookup(ctx, "stock:"+symbol, func() (float64, error) {
		return c.fetchStockPrice(ctx, symbol)
	})
}

func (c *Client) lookup(ctx context.Context, key string, fetch func() (float64, error)) (float64, bool) {
	if v, ok := c.cache.Get(key); ok {
		return v, true
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := fetch()
		if err != nil {
			return 0.0, err
		}
		c.cache.Set(key, value)
		return value, nil
	})
	if err != nil {
		c.log.Warn("market lookup failed", "key", key, "error", err)
		return 0, false
	}
	return v.(float64), true
}

func (c *Client) fetchExchangeRate(ctx context.Context, currency string) (float64, error) {
	if c.exchangeAPIKey == "" {
		return 0, fmt.Errorf("exchange API key not configured")
	}

	body, err := c.get(ctx, c.exchangeBaseURL)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode rates: %w", err)
	}

	rate, ok := payload.Rates[currency]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("no rate for %s", currency)
	}
	// The table is ruble-based; invert to get rubles per unit of currency.
	return core.Round4(1 / rate), nil
}

func (c *Client) fetchStockPrice(ctx context.Context, symbol string) (float64, error) {
	if c.stockAPIKey == "" {
		return 0, fmt.Errorf("stock API key not configured")
	}

	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", c.stockAPIKey)

	body, err := c.get(ctx, c.stockBaseURL+"?"+query.Encode())
	if err != nil {
		return 0, err
	}

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode quote: %w", err)
	}

	priceStr, ok := payload.GlobalQuote["05. price"]
	if !ok || priceStr == "" {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", priceStr, err)
	}
	return core.Round2(price), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
