package usecase

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"CryptoScanner/internal/analysis"
	"CryptoScanner/internal/collector"
	"CryptoScanner/internal/dedup"
	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
	"CryptoScanner/internal/selection"
)

// ImageEnricher optionally fills in missing item images before analysis.
type ImageEnricher interface {
	Enrich(ctx context.Context, items []domain.Item) []domain.Item
}

// PipelineDeps wires all collaborators into the run orchestration.
type PipelineDeps struct {
	Collector    *collector.Collector
	Filter       *dedup.Filter
	History      ports.HistoryRepository
	Dispatcher   *analysis.Dispatcher
	Selector     *selection.Selector
	Notifier     ports.Notifier
	Images       ImageEnricher
	MessageDelay time.Duration
	Logger       *slog.Logger
}

// Pipeline executes one collect-dedup-analyze-notify cycle per invocation.
type Pipeline struct {
	collector    *collector.Collector
	filter       *dedup.Filter
	history      ports.HistoryRepository
	dispatcher   *analysis.Dispatcher
	selector     *selection.Selector
	notifier     ports.Notifier
	images       ImageEnricher
	messageDelay time.Duration
	logger       *slog.Logger
	sleep        func(ctx context.Context, d time.Duration)
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		collector:    deps.Collector,
		filter:       deps.Filter,
		history:      deps.History,
		dispatcher:   deps.Dispatcher,
		selector:     deps.Selector,
		notifier:     deps.Notifier,
		images:       deps.Images,
		messageDelay: deps.MessageDelay,
		logger:       deps.Logger,
		sleep:        sleepCtx,
	}
}

// Run executes one full workflow. It never panics upward: anything unexpected
// is logged with a stack trace and the process stays alive for the next
// scheduled invocation.
func (p *Pipeline) Run(ctx context.Context, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("run aborted", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	p.logger.Info("run started", "at", now.Format(time.RFC3339))

	items := p.collector.Collect(ctx)
	if len(items) == 0 {
		p.logger.Warn("no items collected, ending run")
		return
	}
	p.logger.Info("items collected", "total", len(items))

	if p.images != nil {
		items = p.images.Enrich(ctx, items)
	}

	// Dedup before the classifier call so already-seen content spends no
	// external-API budget.
	newItems, duplicates := p.filter.Partition(items)
	p.logger.Info("duplicates filtered", "duplicates", duplicates, "new", len(newItems))
	if len(newItems) == 0 {
		return
	}

	analyzed := p.dispatcher.Analyze(ctx, newItems)

	// Every analyzed item is marked, opportunity or not; this is what keeps
	// non-opportunities from being re-analyzed every run.
	for _, item := range analyzed {
		p.filter.Mark(item, now)
	}

	opportunities := selection.Opportunities(analyzed)
	p.logger.Info("opportunities identified", "count", len(opportunities), "analyzed", len(analyzed))

	p.notify(ctx, p.selector.Sample(opportunities))

	if err := p.history.Save(); err != nil {
		p.logger.Warn("cannot save history", "error", err)
	}

	p.logger.Info("run completed", "history_entries", p.history.Len())
}

func (p *Pipeline) notify(ctx context.Context, selected []domain.Item) {
	for i, item := range selected {
		if err := p.notifier.Deliver(ctx, item); err != nil {
			p.logger.Warn("delivery failed", "title", item.Title, "error", err)
			continue
		}
		if i < len(selected)-1 && p.messageDelay > 0 {
			p.sleep(ctx, p.messageDelay)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
