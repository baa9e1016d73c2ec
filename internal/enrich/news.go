package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mwhitt/haltwatch/internal/feed"
)

// Headlines holds the display-ready news summary for a ticker.
type Headlines struct {
	Link    string // lead story link
	Summary string // shortened headlines joined by "; "
}

// emptyHeadlines is the all-NA degradation value.
func emptyHeadlines() Headlines {
	return Headlines{Link: NA, Summary: NA}
}

// FeedSource fetches a feed URL into entries. Satisfied by *feed.Client.
type FeedSource interface {
	FetchURL(ctx context.Context, url string) ([]feed.Entry, error)
}

// NewsClient looks up recent headlines for a ticker via an RSS search feed.
type NewsClient struct {
	urlTemplate  string // %s is the url-encoded query
	maxHeadlines int
	source       FeedSource
	logger       *slog.Logger
}

// NewNewsClient creates a news client over an RSS search template.
func NewNewsClient(urlTemplate string, maxHeadlines int, source FeedSource, logger *slog.Logger) *NewsClient {
	if maxHeadlines < 1 {
		maxHeadlines = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsClient{
		urlTemplate:  urlTemplate,
		maxHeadlines: maxHeadlines,
		source:       source,
		logger:       logger,
	}
}

// Lookup returns the lead link and a joined-headline summary for a ticker.
// Lookup never fails: any error path logs a warning and degrades to NA.
func (c *NewsClient) Lookup(ctx context.Context, ticker string) Headlines {
	query := url.QueryEscape(ticker + " stock")
	feedURL := fmt.Sprintf(c.urlTemplate, query)

	entries, err := c.source.FetchURL(ctx, feedURL)
	if err != nil {
		c.logger.Warn("news lookup failed",
			"ticker", ticker,
			"error", err,
		)
		return emptyHeadlines()
	}

	if len(entries) > c.maxHeadlines {
		entries = entries[:c.maxHeadlines]
	}
	if len(entries) == 0 {
		return emptyHeadlines()
	}

	var headlines []string
	for _, e := range entries {
		if title := e.First("title"); title != "" {
			headlines = append(headlines, Shorten(title))
		}
	}

	summary := NA
	if len(headlines) > 0 {
		summary = strings.Join(headlines, "; ")
	}
	return Headlines{
		Link:    entries[0].FirstOr(NA, "link"),
		Summary: summary,
	}
}
