// Package config provides configuration management for the NewsSense application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data        DataConfig   `mapstructure:"data"`
	News        NewsConfig   `mapstructure:"news"`
	Server      ServerConfig `mapstructure:"server"`
	UI          UIConfig     `mapstructure:"ui"`
	Credentials Credentials  `mapstructure:"-"` // Loaded separately
}

// DataConfig holds data directory and cache configuration.
type DataConfig struct {
	Dir             string `mapstructure:"dir"`
	QueryCacheTTL   int    `mapstructure:"query_cache_ttl"` // seconds
	PersistQueries  bool   `mapstructure:"persist_queries"`
	PersistNews     bool   `mapstructure:"persist_news"`
	InstrumentsFile string `mapstructure:"instruments_file"`
}

// NewsConfig holds news aggregation configuration.
type NewsConfig struct {
	Provider       string `mapstructure:"provider"` // "mock", "scrape"
	MaxPerSource   int    `mapstructure:"max_per_source"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	RateLimitMS    int    `mapstructure:"rate_limit_ms"`   // per-source minimum spacing
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials for the optional NLP service.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/newssense"
	}
	return filepath.Join(home, ".config", "newssense")
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	return filepath.Join(DefaultConfigDir(), "data")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template and continue with defaults.
			if werr := createTemplateConfig(configDir, name); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", DefaultDataDir())
	v.SetDefault("data.query_cache_ttl", 300)
	v.SetDefault("data.persist_queries", true)
	v.SetDefault("data.persist_news", true)
	v.SetDefault("data.instruments_file", "")
	v.SetDefault("news.provider", "mock")
	v.SetDefault("news.max_per_source", 10)
	v.SetDefault("news.request_timeout", 10)
	v.SetDefault("news.rate_limit_ms", 1000)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04:05")
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("openai.model", "gpt-4o-mini")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateCredentials(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(creds)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("NEWSSENSE_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("NEWSSENSE_NEWS_PROVIDER"); v != "" {
		cfg.News.Provider = v
	}
	if v := os.Getenv("NEWSSENSE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.News.Provider != "" && c.News.Provider != "mock" && c.News.Provider != "scrape" {
		return fmt.Errorf("invalid news provider: %s (must be 'mock' or 'scrape')", c.News.Provider)
	}
	if c.News.MaxPerSource < 1 {
		return fmt.Errorf("news.max_per_source must be at least 1")
	}
	if c.Data.QueryCacheTTL < 0 {
		return fmt.Errorf("data.query_cache_ttl must be non-negative")
	}
	if c.News.RequestTimeout < 1 {
		return fmt.Errorf("news.request_timeout must be at least 1 second")
	}
	return nil
}

// HasNLP returns true if the optional NLP collaborator is configured.
func (c *Config) HasNLP() bool {
	return c.Credentials.OpenAI.APIKey != ""
}

// CacheTTL returns the query cache expiry as a duration.
func (d DataConfig) CacheTTL() time.Duration {
	return time.Duration(d.QueryCacheTTL) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (n NewsConfig) Timeout() time.Duration {
	return time.Duration(n.RequestTimeout) * time.Second
}

// RateLimit returns the per-source minimum request spacing as a duration.
func (n NewsConfig) RateLimit() time.Duration {
	return time.Duration(n.RateLimitMS) * time.Millisecond
}
