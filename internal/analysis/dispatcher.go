package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

const (
	summaryLimit = 500
	excerptLimit = 200
)

// Dispatcher batches new items, delegates each batch to the classifier, and
// reconciles the returned per-item verdicts with input order. Every input
// item appears exactly once in the output regardless of how the external
// call went.
type Dispatcher struct {
	classifier ports.Classifier
	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration)
}

// NewDispatcher wires the classifier and batching parameters.
func NewDispatcher(classifier ports.Classifier, batchSize int, batchDelay time.Duration, logger *slog.Logger) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Dispatcher{
		classifier: classifier,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// Analyze processes items in fixed-size sequential batches with a fixed delay
// between calls to respect the model's rate limits. With no classifier
// configured, items pass through unanalyzed and unflagged.
func (d *Dispatcher) Analyze(ctx context.Context, items []domain.Item) []domain.Item {
	if d.classifier == nil {
		d.log("classifier not configured, skipping analysis", "items", len(items))
		return items
	}

	analyzed := make([]domain.Item, 0, len(items))

	for start := 0; start < len(items); start += d.batchSize {
		end := start + d.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		analyzed = append(analyzed, d.analyzeBatch(ctx, batch)...)

		if end < len(items) && d.batchDelay > 0 {
			d.sleep(ctx, d.batchDelay)
		}
	}

	return analyzed
}

func (d *Dispatcher) analyzeBatch(ctx context.Context, batch []domain.Item) []domain.Item {
	raw, err := d.classifier.Classify(ctx, BuildPrompt(batch))
	if err != nil {
		d.log("batch classification failed", "items", len(batch), "error", err)
		return withoutVerdicts(batch)
	}

	verdicts, err := parseVerdicts(raw)
	if err != nil {
		d.log("cannot parse classifier response", "items", len(batch), "error", err)
		return withExcerpt(batch, raw)
	}

	out := make([]domain.Item, 0, len(batch))
	for idx, item := range batch {
		key := fmt.Sprintf("item_%d", idx+1)
		if v, ok := verdicts[key]; ok && v != nil {
			item.Verdict = v
			item.IsOpportunity = v.IsOpportunity
		} else {
			item.Verdict = nil
			item.IsOpportunity = false
		}
		out = append(out, item)
	}

	return out
}

// BuildPrompt renders the batch into the analysis prompt. Summaries are
// truncated to keep single-call payloads bounded.
func BuildPrompt(batch []domain.Item) string {
	var b strings.Builder

	for idx, item := range batch {
		if idx > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source %d (%s):\nTitle: %s\nSummary: %s",
			idx+1, item.Source, item.Title, truncate(item.Summary, summaryLimit))
	}

	return fmt.Sprintf(`Analyze the following crypto news items and identify potential trading or investment opportunities.

For each item, determine:
1. Is this a significant opportunity? (YES/NO)
2. What type of opportunity? (price movement, new listing, partnership, technology breakthrough, market trend, etc.)
3. Risk level (LOW/MEDIUM/HIGH)
4. Brief explanation (max 2 sentences)

Content to analyze:
%s

Respond in JSON format for each item:
{
    "item_1": {
        "is_opportunity": true/false,
        "opportunity_type": "type",
        "risk_level": "LOW/MEDIUM/HIGH",
        "explanation": "brief explanation"
    },
    ...
}`, b.String())
}

func parseVerdicts(raw string) (map[string]*domain.Verdict, error) {
	cleaned := StripFences(raw)

	var verdicts map[string]*domain.Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		return nil, fmt.Errorf("decode verdicts: %w", err)
	}

	return verdicts, nil
}

// StripFences removes an optional Markdown code-fence wrapper from a model
// response before JSON parsing.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return text
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}

// withoutVerdicts marks the whole batch as unanalyzed after a failed call.
func withoutVerdicts(batch []domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(batch))
	for _, item := range batch {
		item.Verdict = nil
		item.IsOpportunity = false
		out = append(out, item)
	}
	return out
}

// withExcerpt attaches a degraded verdict carrying a short excerpt of the
// unparseable response, so the failure mode stays visible downstream.
func withExcerpt(batch []domain.Item, raw string) []domain.Item {
	excerpt := truncate(strings.TrimSpace(raw), excerptLimit)

	out := make([]domain.Item, 0, len(batch))
	for _, item := range batch {
		item.Verdict = &domain.Verdict{Explanation: excerpt}
		item.IsOpportunity = false
		out = append(out, item)
	}
	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (d *Dispatcher) log(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
