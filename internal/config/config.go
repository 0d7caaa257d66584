package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "PRODUCT_SCANNER_CONFIG"
	sourceTokenEnv    = "PRODUCT_HUNT_TOKEN"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Source        SourceConfig       `yaml:"source"`
	Filter        FilterConfig       `yaml:"filter"`
	Output        OutputConfig       `yaml:"output"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig controls log verbosity and output encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig selects the fetch strategy and its endpoints.
type SourceConfig struct {
	Strategy string `yaml:"strategy"`
	APIURL   string `yaml:"apiUrl"`
	FeedURL  string `yaml:"feedUrl"`
	Token    string `yaml:"token"`
	PageSize int    `yaml:"pageSize"`
}

// FilterConfig overrides the built-in classification rules. A nil list keeps
// the defaults; an explicitly empty list disables that rule stage.
type FilterConfig struct {
	ExcludedCategories []string `yaml:"excludedCategories"`
	ExcludedKeywords   []string `yaml:"excludedKeywords"`
}

// OutputConfig describes where batch and summary files land.
type OutputConfig struct {
	DataDir string `yaml:"dataDir"`
}

// ArchiveConfig describes the optional Postgres history connection.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often the scanner runs.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
	RunOnce  bool   `yaml:"runOnce"`
}

// IntervalDuration resolves the interval string; bad or missing values fall
// back to one run per day.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads .env and YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	_ = godotenv.Load()

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

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(sourceTokenEnv); v != "" {
		c.Source.Token = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Archive.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Source.Strategy != "" {
		base.Source.Strategy = override.Source.Strategy
	}
	if override.Source.APIURL != "" {
		base.Source.APIURL = override.Source.APIURL
	}
	if override.Source.FeedURL != "" {
		base.Source.FeedURL = override.Source.FeedURL
	}
	if override.Source.Token != "" {
		base.Source.Token = override.Source.Token
	}
	if override.Source.PageSize > 0 {
		base.Source.PageSize = override.Source.PageSize
	}

	if override.Filter.ExcludedCategories != nil {
		base.Filter.ExcludedCategories = override.Filter.ExcludedCategories
	}
	if override.Filter.ExcludedKeywords != nil {
		base.Filter.ExcludedKeywords = override.Filter.ExcludedKeywords
	}

	if override.Output.DataDir != "" {
		base.Output.DataDir = override.Output.DataDir
	}

	if override.Archive.DSN != "" {
		base.Archive.DSN = override.Archive.DSN
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.RunOnce {
		base.Scheduler.RunOnce = true
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source: SourceConfig{
			Strategy: "graphql",
			APIURL:   "https://api.producthunt.com/v2/api/graphql",
			FeedURL:  "https://www.producthunt.com/feed",
			PageSize: 20,
		},
		Output:    OutputConfig{DataDir: "data"},
		Scheduler: SchedulerConfig{Interval: "24h"},
	}
}
