package collector

import (
	"context"
	"log/slog"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

// Registry keeps the ordered list of content sources for a run.
type Registry struct {
	sources []ports.Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a source; registration order is fetch order.
func (r *Registry) Register(source ports.Source) {
	if source != nil {
		r.sources = append(r.sources, source)
	}
}

// Collector gathers items from every registered source into one list.
type Collector struct {
	registry *Registry
	logger   *slog.Logger
}

// NewCollector wires the registry.
func NewCollector(registry *Registry, logger *slog.Logger) *Collector {
	return &Collector{registry: registry, logger: logger}
}

// Collect fetches each source in turn. A source failure is logged and
// isolated; the run continues with whatever the other sources produced.
func (c *Collector) Collect(ctx context.Context) []domain.Item {
	var merged []domain.Item

	for _, source := range c.registry.sources {
		items, err := source.Fetch(ctx)
		if err != nil {
			c.warn("source failed", "source", source.Name(), "error", err)
			continue
		}
		c.debug("source fetched", "source", source.Name(), "items", len(items))
		merged = append(merged, items...)
	}

	return merged
}

func (c *Collector) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Collector) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
