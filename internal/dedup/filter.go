package dedup

import (
	"time"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/fingerprint"
	"CryptoScanner/internal/ports"
)

// Filter partitions collected items into new and already-processed against the
// history store. It never writes to history: marking happens only after an
// item has actually been analyzed, so a crash between the check and the
// analysis means the item is simply reconsidered next run.
type Filter struct {
	history ports.HistoryRepository
}

// NewFilter wires the history store.
func NewFilter(history ports.HistoryRepository) *Filter {
	return &Filter{history: history}
}

// Partition returns the items not yet seen plus the count filtered out. An
// item is a duplicate if either its content fingerprint or its normalized-URL
// fingerprint is present and unexpired in history.
func (f *Filter) Partition(items []domain.Item) ([]domain.Item, int) {
	newItems := make([]domain.Item, 0, len(items))
	duplicates := 0

	for _, item := range items {
		if f.seen(item) {
			duplicates++
			continue
		}
		newItems = append(newItems, item)
	}

	return newItems, duplicates
}

func (f *Filter) seen(item domain.Item) bool {
	if f.history.Contains(fingerprint.Content(item)) {
		return true
	}
	if fp, ok := fingerprint.URL(item); ok && f.history.Contains(fp) {
		return true
	}
	return false
}

// Mark records both fingerprint kinds for an analyzed item so it is skipped
// on subsequent runs, opportunity or not.
func (f *Filter) Mark(item domain.Item, seen time.Time) {
	f.history.Record(fingerprint.Content(item), seen)
	if fp, ok := fingerprint.URL(item); ok {
		f.history.Record(fp, seen)
	}
}
