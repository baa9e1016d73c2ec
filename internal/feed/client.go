package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Client fetches and parses a syndication feed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	parser     *gofeed.Parser
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a feed client for the given URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		parser: gofeed.NewParser(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Fetch retrieves the feed and returns its items in document order.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	return c.FetchURL(ctx, c.url)
}

// FetchURL retrieves an arbitrary feed URL with this client's settings.
func (c *Client) FetchURL(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch feed: status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	parsed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, entryFromItem(item))
	}
	return entries, nil
}

// entryFromItem flattens a parsed item to an Entry. Namespaced extension
// elements and unhandled custom elements keep their local names, lowercased,
// so alias lookups see the same keys regardless of feed dialect.
func entryFromItem(item *gofeed.Item) Entry {
	e := Entry{}

	set := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		key = strings.ToLower(key)
		if _, exists := e[key]; !exists {
			e[key] = value
		}
	}

	set("id", item.GUID)
	set("guid", item.GUID)
	set("title", item.Title)
	set("link", item.Link)
	set("published", item.Published)
	set("updated", item.Updated)
	set("description", item.Description)

	for key, value := range item.Custom {
		set(key, value)
	}
	for _, namespace := range item.Extensions {
		for name, exts := range namespace {
			for _, x := range exts {
				set(name, x.Value)
			}
		}
	}

	return e
}
