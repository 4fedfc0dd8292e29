package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30m" or "2s" parse.
type Duration time.Duration

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML accepts any string time.ParseDuration understands.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

const (
	configPathEnv         = "CRYPTO_SCANNER_CONFIG"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
	geminiModelEnv        = "GEMINI_MODEL"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
	twitterBearerTokenEnv = "TWITTER_BEARER_TOKEN"
	historyFileEnv        = "HISTORY_FILE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	History       HistoryConfig      `yaml:"history"`
	Feeds         []FeedConfig       `yaml:"feeds"`
	Images        ImageConfig        `yaml:"images"`
	Market        MarketConfig       `yaml:"market"`
	Social        SocialConfig       `yaml:"social"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines how often the pipeline runs.
type SchedulerConfig struct {
	Interval Duration `yaml:"interval"`
}

// HistoryConfig describes the dedup history file.
type HistoryConfig struct {
	Path      string   `yaml:"path"`
	Retention Duration `yaml:"retention"`
}

// FeedConfig names a single RSS/Atom feed.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ImageConfig controls best-effort og:image scraping for feed items.
type ImageConfig struct {
	Scrape bool `yaml:"scrape"`
}

// MarketConfig describes the CoinGecko trending source.
type MarketConfig struct {
	BaseURL       string `yaml:"baseUrl"`
	TrendingLimit int    `yaml:"trendingLimit"`
}

// SocialConfig describes the optional Twitter search source.
type SocialConfig struct {
	BearerToken string `yaml:"bearerToken"`
	Query       string `yaml:"query"`
	MaxResults  int    `yaml:"maxResults"`
}

// ClassifierConfig defines how to contact Gemini and how analysis is batched.
type ClassifierConfig struct {
	APIKey     string   `yaml:"apiKey"`
	Model      string   `yaml:"model"`
	BatchSize  int      `yaml:"batchSize"`
	BatchDelay Duration `yaml:"batchDelay"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram     TelegramConfig `yaml:"telegram"`
	Sample       SampleConfig   `yaml:"sample"`
	MessageDelay Duration       `yaml:"messageDelay"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SampleConfig bounds how many opportunities one run may deliver.
type SampleConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Classifier.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(twitterBearerTokenEnv); v != "" {
		c.Social.BearerToken = v
	}

	if v := os.Getenv(historyFileEnv); v != "" {
		c.History.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.History.Path != "" {
		base.History.Path = override.History.Path
	}
	if override.History.Retention > 0 {
		base.History.Retention = override.History.Retention
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	base.Images.Scrape = base.Images.Scrape || override.Images.Scrape

	if override.Market.BaseURL != "" {
		base.Market.BaseURL = override.Market.BaseURL
	}
	if override.Market.TrendingLimit > 0 {
		base.Market.TrendingLimit = override.Market.TrendingLimit
	}

	if override.Social.BearerToken != "" {
		base.Social.BearerToken = override.Social.BearerToken
	}
	if override.Social.Query != "" {
		base.Social.Query = override.Social.Query
	}
	if override.Social.MaxResults > 0 {
		base.Social.MaxResults = override.Social.MaxResults
	}

	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.BatchSize > 0 {
		base.Classifier.BatchSize = override.Classifier.BatchSize
	}
	if override.Classifier.BatchDelay > 0 {
		base.Classifier.BatchDelay = override.Classifier.BatchDelay
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Sample.Min > 0 {
		base.Notifications.Sample.Min = override.Notifications.Sample.Min
	}
	if override.Notifications.Sample.Max > 0 {
		base.Notifications.Sample.Max = override.Notifications.Sample.Max
	}
	if override.Notifications.MessageDelay > 0 {
		base.Notifications.MessageDelay = override.Notifications.MessageDelay
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Interval: Duration(time.Hour)},
		History: HistoryConfig{
			Path:      "sent_news_history.json",
			Retention: Duration(7 * 24 * time.Hour),
		},
		Feeds: []FeedConfig{
			{Name: "CoinTelegraph", URL: "https://cointelegraph.com/rss"},
			{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
			{Name: "NewsBTC", URL: "https://www.newsbtc.com/feed/"},
			{Name: "CryptoSlate", URL: "https://cryptoslate.com/feed/"},
			{Name: "Bitcoin Magazine", URL: "https://bitcoinmagazine.com/.rss/full/"},
			{Name: "The Block", URL: "https://www.theblock.co/rss.xml"},
		},
		Images: ImageConfig{Scrape: false},
		Market: MarketConfig{
			BaseURL:       "https://api.coingecko.com/api/v3",
			TrendingLimit: 5,
		},
		Social: SocialConfig{
			Query:      "crypto OR bitcoin OR ethereum",
			MaxResults: 10,
		},
		Classifier: ClassifierConfig{
			Model:      "gemini-2.5-flash",
			BatchSize:  5,
			BatchDelay: Duration(2 * time.Second),
		},
		Notifications: NotificationConfig{
			Sample:       SampleConfig{Min: 1, Max: 3},
			MessageDelay: Duration(time.Second),
		},
	}
}
