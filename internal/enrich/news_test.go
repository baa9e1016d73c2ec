package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwhitt/haltwatch/internal/feed"
)

// fakeFeedSource returns canned entries or an error.
type fakeFeedSource struct {
	entries []feed.Entry
	err     error
	lastURL string
}

func (f *fakeFeedSource) FetchURL(ctx context.Context, url string) ([]feed.Entry, error) {
	f.lastURL = url
	return f.entries, f.err
}

func TestNewsLookup(t *testing.T) {
	source := &fakeFeedSource{
		entries: []feed.Entry{
			{"title": "ABC stock halted after wild swings", "link": "https://news.example.com/1"},
			{"title": "Regulators eye ABC", "link": "https://news.example.com/2"},
			{"title": strings.Repeat("very long headline ", 10), "link": "https://news.example.com/3"},
			{"title": "fourth headline beyond the cap", "link": "https://news.example.com/4"},
		},
	}
	client := NewNewsClient("https://news.example.com/rss/search?q=%s", 3, source, nil)

	got := client.Lookup(context.Background(), "ABC")

	if got.Link != "https://news.example.com/1" {
		t.Errorf("Link = %q, want lead story link", got.Link)
	}
	headlines := strings.Split(got.Summary, "; ")
	if len(headlines) != 3 {
		t.Errorf("summary has %d headlines, want 3: %q", len(headlines), got.Summary)
	}
	if strings.Contains(got.Summary, "fourth headline") {
		t.Error("summary includes headline beyond the cap")
	}
	for _, h := range headlines {
		if len([]rune(h)) > 80 {
			t.Errorf("headline not shortened: %q", h)
		}
	}
	if !strings.Contains(source.lastURL, "ABC+stock") {
		t.Errorf("query not encoded into feed URL: %q", source.lastURL)
	}
}

func TestNewsLookupFetchError(t *testing.T) {
	source := &fakeFeedSource{err: errors.New("boom")}
	client := NewNewsClient("https://news.example.com/rss/search?q=%s", 3, source, nil)

	if got := client.Lookup(context.Background(), "ABC"); got != emptyHeadlines() {
		t.Errorf("Lookup = %+v, want all n/a", got)
	}
}

func TestNewsLookupNoEntries(t *testing.T) {
	source := &fakeFeedSource{}
	client := NewNewsClient("https://news.example.com/rss/search?q=%s", 3, source, nil)

	if got := client.Lookup(context.Background(), "ABC"); got != emptyHeadlines() {
		t.Errorf("Lookup = %+v, want all n/a", got)
	}
}

func TestNewsLookupUntitledEntries(t *testing.T) {
	source := &fakeFeedSource{
		entries: []feed.Entry{{"link": "https://news.example.com/1"}},
	}
	client := NewNewsClient("https://news.example.com/rss/search?q=%s", 3, source, nil)

	got := client.Lookup(context.Background(), "ABC")
	if got.Link != "https://news.example.com/1" {
		t.Errorf("Link = %q, want first entry link", got.Link)
	}
	if got.Summary != NA {
		t.Errorf("Summary = %q, want n/a", got.Summary)
	}
}
