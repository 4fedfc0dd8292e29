package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoScanner/internal/domain"
)

func TestEnrichScrapesOGImage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://cdn.example.com/hero.png"/>
		</head><body>article</body></html>`))
	}))
	defer server.Close()

	scraper := NewImageScraper(server.Client(), nil)

	items := []domain.Item{
		{Type: domain.TypeFeed, Link: server.URL + "/story"},
		{Type: domain.TypeFeed, Link: server.URL + "/other", ImageURL: "already-set.jpg"},
		{Type: domain.TypeMarketTrend, Link: server.URL + "/coin"},
	}

	enriched := scraper.Enrich(context.Background(), items)

	if enriched[0].ImageURL != "https://cdn.example.com/hero.png" {
		t.Fatalf("og:image not scraped: %q", enriched[0].ImageURL)
	}
	if enriched[1].ImageURL != "already-set.jpg" {
		t.Fatal("existing images must not be overwritten")
	}
	if enriched[2].ImageURL != "" {
		t.Fatal("only feed items are scraped")
	}
}

func TestEnrichToleratesFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	scraper := NewImageScraper(server.Client(), nil)

	items := scraper.Enrich(context.Background(), []domain.Item{
		{Type: domain.TypeFeed, Link: server.URL + "/gone"},
	})

	if items[0].ImageURL != "" {
		t.Fatal("failed scrape must leave the item untouched")
	}
}
