package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Quote holds the display-ready market data for a ticker. Fields degrade to
// NA individually when the upstream response omits them.
type Quote struct {
	Price     string
	MarketCap string
	Float     string
}

// emptyQuote is the all-NA degradation value.
func emptyQuote() Quote {
	return Quote{Price: NA, MarketCap: NA, Float: NA}
}

// MarketClient fetches quotes from an FMP-style REST API.
type MarketClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// MarketOption configures a MarketClient.
type MarketOption func(*MarketClient)

// NewMarketClient creates a quote client. An empty apiKey disables lookups:
// every call returns the NA quote without touching the network.
func NewMarketClient(baseURL, apiKey string, opts ...MarketOption) *MarketClient {
	c := &MarketClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithMarketTimeout sets the HTTP client timeout.
func WithMarketTimeout(d time.Duration) MarketOption {
	return func(c *MarketClient) {
		c.httpClient.Timeout = d
	}
}

// WithMarketLogger sets the logger.
func WithMarketLogger(logger *slog.Logger) MarketOption {
	return func(c *MarketClient) {
		c.logger = logger
	}
}

// WithMarketHTTPClient sets a custom HTTP client.
func WithMarketHTTPClient(hc *http.Client) MarketOption {
	return func(c *MarketClient) {
		c.httpClient = hc
	}
}

// quoteResponse mirrors the fields we use from the quote endpoint. Pointers
// distinguish absent values from zero.
type quoteResponse struct {
	Price       *float64 `json:"price"`
	MarketCap   *float64 `json:"marketCap"`
	SharesFloat *float64 `json:"sharesFloat"`
}

// Lookup returns the quote for a ticker. Lookup never fails: any error path
// logs a warning and degrades to the NA quote.
func (c *MarketClient) Lookup(ctx context.Context, ticker string) Quote {
	if c.apiKey == "" {
		return emptyQuote()
	}

	quote, err := c.fetchQuote(ctx, ticker)
	if err != nil {
		c.logger.Warn("market data lookup failed",
			"ticker", ticker,
			"error", err,
		)
		return emptyQuote()
	}

	return Quote{
		Price:     FormatPrice(quote.Price),
		MarketCap: FormatCompact(quote.MarketCap),
		Float:     FormatCompact(quote.SharesFloat),
	}
}

func (c *MarketClient) fetchQuote(ctx context.Context, ticker string) (*quoteResponse, error) {
	fullURL := fmt.Sprintf("%s/quote/%s?apikey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("quote api status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var quotes []quoteResponse
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("empty response for %s", ticker)
	}
	return &quotes[0], nil
}
