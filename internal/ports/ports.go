package ports

import (
	"context"
	"time"

	"CryptoScanner/internal/domain"
)

// Source pulls fresh items from one upstream provider (RSS feed, market API,
// social search). A source that cannot deliver returns an error; the collector
// logs it and moves on with partial results.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Item, error)
}

// HistoryRepository persists fingerprints of processed items for deduplication.
type HistoryRepository interface {
	Load() error
	Save() error
	Contains(fingerprint string) bool
	Record(fingerprint string, seen time.Time)
	Len() int
}

// Classifier sends an analysis prompt to a generative model and returns the
// raw response text. Parsing and reconciliation belong to the caller.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers a single analyzed item to an outbound channel.
type Notifier interface {
	Deliver(ctx context.Context, item domain.Item) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
