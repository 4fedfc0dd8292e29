package feeds

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CryptoScanner/internal/domain"
)

// ImageScraper fills in missing item images by pulling the og:image meta tag
// from each article page. Strictly best-effort: any failure leaves the item
// untouched and never affects the run.
type ImageScraper struct {
	client *http.Client
	logger *slog.Logger
}

// NewImageScraper wires an HTTP client; nil gets a 10-second-timeout default.
func NewImageScraper(client *http.Client, logger *slog.Logger) *ImageScraper {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ImageScraper{client: client, logger: logger}
}

// Enrich scrapes pages for items that have a link but no image yet.
func (s *ImageScraper) Enrich(ctx context.Context, items []domain.Item) []domain.Item {
	for i := range items {
		if items[i].ImageURL != "" || items[i].Link == "" || items[i].Type != domain.TypeFeed {
			continue
		}
		if img := s.scrape(ctx, items[i].Link); img != "" {
			items[i].ImageURL = img
		}
	}
	return items
}

func (s *ImageScraper) scrape(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.debug("image scrape failed", "url", pageURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	img, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	return img
}

func (s *ImageScraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
