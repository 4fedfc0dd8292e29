package app

import (
	"context"
	"log/slog"
	"math/rand"

	"CryptoScanner/internal/analysis"
	"CryptoScanner/internal/collector"
	"CryptoScanner/internal/config"
	"CryptoScanner/internal/dedup"
	"CryptoScanner/internal/history"
	"CryptoScanner/internal/infrastructure/console"
	"CryptoScanner/internal/infrastructure/feeds"
	"CryptoScanner/internal/infrastructure/llm"
	"CryptoScanner/internal/infrastructure/market"
	"CryptoScanner/internal/infrastructure/scheduler"
	"CryptoScanner/internal/infrastructure/social"
	"CryptoScanner/internal/infrastructure/telegram"
	"CryptoScanner/internal/logging"
	"CryptoScanner/internal/ports"
	"CryptoScanner/internal/selection"
	"CryptoScanner/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *history.Store
	scheduler  *usecase.Scheduler
	classifier *llm.GeminiClassifier
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := collector.NewRegistry()
	for _, feed := range cfg.Feeds {
		registry.Register(feeds.NewSource(feed, nil))
	}
	registry.Register(market.NewCoinGeckoSource(cfg.Market.BaseURL, cfg.Market.TrendingLimit, nil))
	registry.Register(social.NewTwitterSource(cfg.Social.BearerToken, cfg.Social.Query, cfg.Social.MaxResults, nil))

	store := history.NewStore(cfg.History.Path, cfg.History.Retention.Std(), baseLogger.With("component", "history"))
	if err := store.Load(); err != nil {
		return nil, err
	}

	var gemini *llm.GeminiClassifier
	var classifier ports.Classifier
	if cfg.Classifier.APIKey != "" {
		var err error
		gemini, err = llm.NewGeminiClassifier(ctx, cfg.Classifier)
		if err != nil {
			baseLogger.Warn("gemini unavailable, analysis disabled", "error", err)
		} else {
			classifier = gemini
		}
	} else {
		baseLogger.Warn("gemini api key not set, analysis disabled")
	}

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	} else {
		baseLogger.Warn("telegram credentials not set, reporting to console only")
		notifier = console.NewNotifier(baseLogger.With("component", "notifier"))
	}

	var images usecase.ImageEnricher
	if cfg.Images.Scrape {
		images = feeds.NewImageScraper(nil, baseLogger.With("component", "images"))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Collector:    collector.NewCollector(registry, baseLogger.With("component", "collector")),
		Filter:       dedup.NewFilter(store),
		History:      store,
		Dispatcher:   analysis.NewDispatcher(classifier, cfg.Classifier.BatchSize, cfg.Classifier.BatchDelay.Std(), baseLogger.With("component", "analysis")),
		Selector:     selectionFor(cfg),
		Notifier:     notifier,
		Images:       images,
		MessageDelay: cfg.Notifications.MessageDelay.Std(),
		Logger:       baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval.Std())

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		store:      store,
		scheduler:  usecase.NewScheduler(driver, pipeline),
		classifier: gemini,
	}, nil
}

func selectionFor(cfg config.Config) *selection.Selector {
	sample := cfg.Notifications.Sample
	return selection.NewSelector(sample.Min, sample.Max, rand.New(rand.NewSource(rand.Int63())))
}

// Run starts the recurring pipeline and blocks until the context is done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "interval", a.cfg.Scheduler.Interval.Std())

	<-ctx.Done()

	if err := a.scheduler.Stop(context.Background()); err != nil {
		a.logger.Warn("scheduler stop failed", "error", err)
	}
	if a.classifier != nil {
		_ = a.classifier.Close()
	}

	return nil
}
