package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Slack     SlackConfig     `yaml:"slack"`
	LLM       LLMConfig       `yaml:"llm"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SlackConfig holds Slack credentials and the digest recipient.
type SlackConfig struct {
	// UserToken (xoxp-) reads conversations and marks them read.
	UserToken string `yaml:"user_token"`

	// BotToken (xoxb-) delivers the digest DM.
	BotToken string `yaml:"bot_token"`

	// UserID is the recipient of the digest.
	UserID string `yaml:"user_id"`
}

// LLMConfig holds the summarizer endpoint settings.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`

	// MaxOutputTokens bounds the summary length requested per conversation.
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

// RateLimitConfig holds the transport pacing and retry settings.
type RateLimitConfig struct {
	// Delay is the fixed pause before every remote call.
	Delay time.Duration `yaml:"delay"`

	// MaxRetries bounds rate-limit retries per call.
	MaxRetries int `yaml:"max_retries"`

	// BackoffMultiplier grows the wait between rate-limit retries.
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`

	// MaxBackoff caps the wait between retries, including
	// server-suggested waits.
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// FetchConfig holds the aggregation window settings.
type FetchConfig struct {
	MaxMessagesPerConversation int `yaml:"max_messages_per_conversation"`
	MaxThreadReplies           int `yaml:"max_thread_replies"`
	MaxMessageLength           int `yaml:"max_message_length"`

	// ConversationTypes are the conversations.list type filters to scan.
	ConversationTypes []string `yaml:"conversation_types"`

	// SkipMarkAsRead keeps messages unread after the digest is delivered.
	SkipMarkAsRead bool `yaml:"skip_mark_as_read"`
}

// StorageConfig selects the run-history backend.
type StorageConfig struct {
	Type   string       `yaml:"type"` // "memory", "sqlite", or "mysql"
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"` // Database file path, use ":memory:" for in-memory
}

// MySQLConfig holds MySQL-specific settings.
type MySQLConfig struct {
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	Database string          `yaml:"database"`
	Username string          `yaml:"username"`
	Password string          `yaml:"password"`
	Timeout  time.Duration   `yaml:"timeout"`
	Pool     MySQLPoolConfig `yaml:"pool"`
}

// MySQLPoolConfig holds MySQL connection pool settings.
type MySQLPoolConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// MetricsConfig holds the optional Prometheus listener settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// Load from file if exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			expandedData := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// overrideFromEnv overrides config values from environment variables.
func (c *Config) overrideFromEnv() {
	// Slack
	if v := os.Getenv("SLACK_USER_TOKEN"); v != "" {
		c.Slack.UserToken = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_USER_ID"); v != "" {
		c.Slack.UserID = v
	}

	// LLM
	if v := os.Getenv("LLM_ENABLED"); v != "" {
		c.LLM.Enabled = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}

	// Fetch
	if v := os.Getenv("SKIP_MARK_AS_READ"); v != "" {
		c.Fetch.SkipMarkAsRead = strings.ToLower(v) == "true"
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	// Metrics
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("METRICS_LISTEN_ADDR"); v != "" {
		c.Metrics.ListenAddr = v
	}

	// Storage
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("SQLITE_DATABASE_PATH"); v != "" {
		c.Storage.SQLite.Path = v
	}

	// MySQL
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		c.Storage.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Storage.MySQL.Port = port
		}
	}
	if v := os.Getenv("MYSQL_DATABASE"); v != "" {
		c.Storage.MySQL.Database = v
	}
	if v := os.Getenv("MYSQL_USERNAME"); v != "" {
		c.Storage.MySQL.Username = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		c.Storage.MySQL.Password = v
	}
}

// applyDefaults sets default values for unset config options.
func (c *Config) applyDefaults() {
	// Rate limit defaults
	if c.RateLimit.Delay == 0 {
		c.RateLimit.Delay = 1 * time.Second
	}
	if c.RateLimit.MaxRetries == 0 {
		c.RateLimit.MaxRetries = 3
	}
	if c.RateLimit.BackoffMultiplier == 0 {
		c.RateLimit.BackoffMultiplier = 2.0
	}
	if c.RateLimit.MaxBackoff == 0 {
		c.RateLimit.MaxBackoff = 5 * time.Minute
	}

	// Fetch defaults
	if c.Fetch.MaxMessagesPerConversation == 0 {
		c.Fetch.MaxMessagesPerConversation = 50
	}
	if c.Fetch.MaxThreadReplies == 0 {
		c.Fetch.MaxThreadReplies = 10
	}
	if c.Fetch.MaxMessageLength == 0 {
		c.Fetch.MaxMessageLength = 500
	}
	if len(c.Fetch.ConversationTypes) == 0 {
		c.Fetch.ConversationTypes = []string{
			"public_channel", "private_channel", "mpim", "im",
		}
	}

	// LLM defaults
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxOutputTokens == 0 {
		c.LLM.MaxOutputTokens = 500
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	// Storage defaults
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = "./data/slack-digest.db"
	}
	if c.Storage.MySQL.Port == 0 {
		c.Storage.MySQL.Port = 3306
	}
	if c.Storage.MySQL.Timeout == 0 {
		c.Storage.MySQL.Timeout = 5 * time.Second
	}
	if c.Storage.MySQL.Pool.MaxOpenConns == 0 {
		c.Storage.MySQL.Pool.MaxOpenConns = 25
	}
	if c.Storage.MySQL.Pool.MaxIdleConns == 0 {
		c.Storage.MySQL.Pool.MaxIdleConns = 5
	}
	if c.Storage.MySQL.Pool.ConnMaxLifetime == 0 {
		c.Storage.MySQL.Pool.ConnMaxLifetime = 3 * time.Minute
	}

	// Metrics defaults
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
}

var validConversationTypes = map[string]bool{
	"public_channel":  true,
	"private_channel": true,
	"mpim":            true,
	"im":              true,
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.Slack.UserToken == "" {
		return fmt.Errorf("slack.user_token is required")
	}
	if !strings.HasPrefix(c.Slack.UserToken, "xoxp-") {
		return fmt.Errorf("slack.user_token must start with 'xoxp-'")
	}
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if !strings.HasPrefix(c.Slack.BotToken, "xoxb-") {
		return fmt.Errorf("slack.bot_token must start with 'xoxb-'")
	}
	if c.Slack.UserID == "" {
		return fmt.Errorf("slack.user_id is required")
	}

	if c.LLM.Enabled {
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm.base_url is required when llm is enabled")
		}
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required when llm is enabled")
		}
	}

	if c.RateLimit.MaxRetries < 1 {
		return fmt.Errorf("rate_limit.max_retries must be at least 1")
	}
	if c.RateLimit.BackoffMultiplier < 1 {
		return fmt.Errorf("rate_limit.backoff_multiplier must be at least 1")
	}

	for _, t := range c.Fetch.ConversationTypes {
		if !validConversationTypes[t] {
			return fmt.Errorf("invalid conversation type: %s (must be public_channel, private_channel, mpim, or im)", t)
		}
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	// Validate storage type
	validStorageTypes := map[string]bool{"memory": true, "sqlite": true, "mysql": true}
	if !validStorageTypes[strings.ToLower(c.Storage.Type)] {
		return fmt.Errorf("invalid storage type: %s (must be memory, sqlite, or mysql)", c.Storage.Type)
	}

	if strings.ToLower(c.Storage.Type) == "mysql" {
		if c.Storage.MySQL.Host == "" {
			return fmt.Errorf("storage.mysql.host is required when storage type is mysql")
		}
		if c.Storage.MySQL.Database == "" {
			return fmt.Errorf("storage.mysql.database is required when storage type is mysql")
		}
		if c.Storage.MySQL.Username == "" {
			return fmt.Errorf("storage.mysql.username is required when storage type is mysql")
		}
	}

	return nil
}
