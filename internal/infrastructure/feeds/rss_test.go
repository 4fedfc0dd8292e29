package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CryptoScanner/internal/config"
	"CryptoScanner/internal/domain"
)

func rssDocument(entries int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Test Feed</title>`)
	for i := 0; i < entries; i++ {
		fmt.Fprintf(&b, `<item>
			<title>Story %d</title>
			<link>https://news.example.com/story-%d</link>
			<description>Summary %d</description>
			<pubDate>Mon, 24 Aug 2026 10:0%d:00 GMT</pubDate>
			<enclosure url="https://news.example.com/img-%d.jpg" type="image/jpeg" length="1"/>
		</item>`, i, i, i, i%10, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func TestFetchFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDocument(3)))
	}))
	defer server.Close()

	source := NewSource(config.FeedConfig{Name: "TestFeed", URL: server.URL}, server.Client())

	items, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.Source != "TestFeed" {
		t.Fatalf("unexpected source: %s", first.Source)
	}
	if first.Title != "Story 0" || first.Link != "https://news.example.com/story-0" {
		t.Fatalf("unexpected item: %+v", first)
	}
	if first.Type != domain.TypeFeed {
		t.Fatalf("unexpected type: %s", first.Type)
	}
	if first.Summary != "Summary 0" {
		t.Fatalf("unexpected summary: %s", first.Summary)
	}
	if first.ImageURL != "https://news.example.com/img-0.jpg" {
		t.Fatalf("enclosure image not picked up: %s", first.ImageURL)
	}
	if first.Published == "" {
		t.Fatal("published timestamp must be carried through as-is")
	}
}

func TestFetchFeedLimitsEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDocument(25)))
	}))
	defer server.Close()

	source := NewSource(config.FeedConfig{Name: "Busy", URL: server.URL}, server.Client())

	items, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != itemsPerFeed {
		t.Fatalf("expected at most %d items, got %d", itemsPerFeed, len(items))
	}
}

func TestFetchFeedError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewSource(config.FeedConfig{Name: "Down", URL: server.URL}, server.Client())

	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatal("expected an error from a failing feed")
	}
}
