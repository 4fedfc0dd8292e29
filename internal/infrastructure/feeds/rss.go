package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"CryptoScanner/internal/config"
	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; CryptoNewsBot/1.0)"
	itemsPerFeed = 10
)

// Source fetches the most recent entries of a single RSS/Atom feed.
type Source struct {
	name   string
	url    string
	limit  int
	parser *gofeed.Parser
}

var _ ports.Source = (*Source)(nil)

// NewSource builds a feed source; client may be nil for a default with a
// 10-second timeout.
func NewSource(cfg config.FeedConfig, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &Source{
		name:   cfg.Name,
		url:    cfg.URL,
		limit:  itemsPerFeed,
		parser: parser,
	}
}

// Name identifies the feed in logs and item provenance.
func (s *Source) Name() string {
	return s.name
}

// Fetch parses the feed and maps its most recent entries to items.
func (s *Source) Fetch(ctx context.Context) ([]domain.Item, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.url, err)
	}

	count := len(feed.Items)
	if count > s.limit {
		count = s.limit
	}

	items := make([]domain.Item, 0, count)
	for _, entry := range feed.Items[:count] {
		item := domain.Item{
			Source:    s.name,
			Title:     entry.Title,
			Link:      entry.Link,
			Summary:   summaryOf(entry),
			Published: entry.Published,
			Type:      domain.TypeFeed,
		}
		if entry.Image != nil {
			item.ImageURL = entry.Image.URL
		} else if len(entry.Enclosures) > 0 {
			item.ImageURL = entry.Enclosures[0].URL
		}
		items = append(items, item)
	}

	return items, nil
}

func summaryOf(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}
