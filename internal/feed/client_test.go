package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Trading Halts</title>
    <link>https://example.com/halts</link>
    <item>
      <guid>halt-1</guid>
      <title>Halt ABC</title>
      <link>https://example.com/halts/1</link>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <guid>halt-2</guid>
      <title>Halt XYZ</title>
      <link>https://example.com/halts/2</link>
    </item>
  </channel>
</rss>`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(5*time.Second))

	entries, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if got := entries[0].First("id", "guid"); got != "halt-1" {
		t.Errorf("entries[0] id = %q, want %q", got, "halt-1")
	}
	if got := entries[0].First("title"); got != "Halt ABC" {
		t.Errorf("entries[0] title = %q, want %q", got, "Halt ABC")
	}
	if got := entries[1].First("link"); got != "https://example.com/halts/2" {
		t.Errorf("entries[1] link = %q, want %q", got, "https://example.com/halts/2")
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch on 503 succeeded, want error")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch on garbage body succeeded, want error")
	}
}

func TestEntryFirst(t *testing.T) {
	e := Entry{
		"symbol":     "",
		"ticker":     "  ABC  ",
		"reasoncode": "T1",
	}

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"first alias empty falls through", []string{"symbol", "ticker"}, "ABC"},
		{"value trimmed", []string{"ticker"}, "ABC"},
		{"missing keys", []string{"resumetime", "resume_time"}, ""},
		{"alias order wins", []string{"reasoncode", "ticker"}, "T1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.First(tt.keys...); got != tt.want {
				t.Errorf("First(%v) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}

	if got := e.FirstOr("n/a", "resumetime"); got != "n/a" {
		t.Errorf("FirstOr = %q, want %q", got, "n/a")
	}
	if got := e.FirstOr("n/a", "ticker"); got != "ABC" {
		t.Errorf("FirstOr = %q, want %q", got, "ABC")
	}
}
