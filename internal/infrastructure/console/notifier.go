package console

import (
	"context"
	"log/slog"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

// Notifier reports opportunities to the log. Used when Telegram credentials
// are absent, so the pipeline still surfaces what it found.
type Notifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires the logger.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Deliver logs the opportunity and never fails.
func (n *Notifier) Deliver(_ context.Context, item domain.Item) error {
	args := []any{"source", item.Source, "title", item.Title, "link", item.Link}
	if item.Verdict != nil {
		args = append(args,
			"type", item.Verdict.OpportunityType,
			"risk", string(item.Verdict.RiskLevel),
			"analysis", item.Verdict.Explanation)
	}

	if n.logger != nil {
		n.logger.Info("opportunity found", args...)
	}
	return nil
}
