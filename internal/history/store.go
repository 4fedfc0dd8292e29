package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"CryptoScanner/internal/ports"
)

// Store is a durable mapping from fingerprint to last-seen time, used to skip
// items that were already analyzed. Persisted as a flat JSON object mapping
// fingerprint to Unix seconds. Single-process, single-threaded access:
// loaded once at startup, saved once at the end of each run.
type Store struct {
	path      string
	retention time.Duration
	entries   map[string]float64
	logger    *slog.Logger
}

var _ ports.HistoryRepository = (*Store)(nil)

// NewStore wires the file path and retention window.
func NewStore(path string, retention time.Duration, logger *slog.Logger) *Store {
	return &Store{
		path:      path,
		retention: retention,
		entries:   map[string]float64{},
		logger:    logger,
	}
}

// Load reads the history file and drops entries older than the retention
// window. A missing or unreadable file yields an empty store, never an error
// that would stop the caller.
func (s *Store) Load() error {
	s.entries = map[string]float64{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("cannot read history file", "path", s.path, "error", err)
		}
		return nil
	}

	var loaded map[string]float64
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.warn("cannot parse history file, starting empty", "path", s.path, "error", err)
		return nil
	}

	cutoff := float64(time.Now().Unix()) - s.retention.Seconds()
	dropped := 0
	for fp, seen := range loaded {
		if seen < cutoff {
			dropped++
			continue
		}
		s.entries[fp] = seen
	}

	if s.logger != nil {
		s.logger.Info("history loaded", "entries", len(s.entries), "expired", dropped)
	}

	return nil
}

// Save persists the in-memory mapping. The file is written to a temporary
// sibling and renamed into place so a crash mid-write never corrupts the
// previous state.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history file: %w", err)
	}

	return nil
}

// Contains reports whether the fingerprint was recorded and has not expired.
func (s *Store) Contains(fingerprint string) bool {
	seen, ok := s.entries[fingerprint]
	if !ok {
		return false
	}
	return time.Since(time.Unix(int64(seen), 0)) < s.retention
}

// Record marks a fingerprint as seen at the given time.
func (s *Store) Record(fingerprint string, seen time.Time) {
	s.entries[fingerprint] = float64(seen.Unix())
}

// Len reports how many entries are currently held.
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
