// Package config loads and validates leadscout configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Access    AccessConfig    `mapstructure:"access"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Hunter    HunterConfig    `mapstructure:"hunter"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls the ops HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// TelegramConfig holds the bot transport settings.
type TelegramConfig struct {
	Token              string `mapstructure:"token"`
	APIBaseURL         string `mapstructure:"api_base_url"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	MaxMessageLength   int    `mapstructure:"max_message_length"`
	JoinURL            string `mapstructure:"join_url"`
	PurchaseURL        string `mapstructure:"purchase_url"`
}

// AccessConfig points at the allow-list file.
type AccessConfig struct {
	AllowListPath string `mapstructure:"allow_list_path"`
}

// DirectoryConfig governs the business directory scraper.
type DirectoryConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxPages       int    `mapstructure:"max_pages"`
}

// HunterConfig configures the email-finder API client.
type HunterConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RelayConfig configures the chat-completion relay.
type RelayConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	Token          string  `mapstructure:"token"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	CreditsPath    string  `mapstructure:"credits_path"`
	Replacement    string  `mapstructure:"replacement"`
	Signature      string  `mapstructure:"signature"`
}

// StoreConfig selects and configures the lead store backend.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.poll_timeout_seconds", 30)
	v.SetDefault("telegram.max_message_length", 4096)
	v.SetDefault("access.allow_list_path", "user.txt")
	v.SetDefault("directory.base_url", "https://www.yellowpages.com")
	v.SetDefault("directory.user_agent", "leadscout/0.1")
	v.SetDefault("directory.timeout_seconds", 15)
	v.SetDefault("directory.max_pages", 20)
	v.SetDefault("hunter.base_url", "https://api.hunter.io")
	v.SetDefault("hunter.timeout_seconds", 15)
	v.SetDefault("relay.base_url", "https://api.openai.com/v1")
	v.SetDefault("relay.model", "gpt-3.5-turbo-instruct")
	v.SetDefault("relay.max_tokens", 4000)
	v.SetDefault("relay.temperature", 1.0)
	v.SetDefault("relay.timeout_seconds", 60)
	v.SetDefault("relay.credits_path", "credits.txt")
	v.SetDefault("relay.replacement", "Hackers Assemble")
	v.SetDefault("relay.signature", "@hackers_assemble")
	v.SetDefault("store.provider", "memory")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Telegram.MaxMessageLength <= 0 {
		return fmt.Errorf("telegram.max_message_length must be > 0")
	}
	if c.Access.AllowListPath == "" {
		return fmt.Errorf("access.allow_list_path is required")
	}
	if c.Directory.MaxPages <= 0 {
		return fmt.Errorf("directory.max_pages must be > 0")
	}
	if c.Store.Provider == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required when store.provider is postgres")
	}
	return nil
}

// DirectoryTimeout converts the configured directory timeout into a duration.
func (c Config) DirectoryTimeout() time.Duration {
	return time.Duration(c.Directory.TimeoutSeconds) * time.Second
}

// HunterTimeout converts the configured hunter timeout into a duration.
func (c Config) HunterTimeout() time.Duration {
	return time.Duration(c.Hunter.TimeoutSeconds) * time.Second
}

// RelayTimeout converts the configured relay timeout into a duration.
func (c Config) RelayTimeout() time.Duration {
	return time.Duration(c.Relay.TimeoutSeconds) * time.Second
}
