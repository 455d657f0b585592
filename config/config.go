package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Fetcher backends
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Config represents the scraper configuration
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Fetcher   string        `yaml:"fetcher"`
	UserAgent string        `yaml:"user_agent"`
	MaxPages  int           `yaml:"max_pages"`
	Timeout   time.Duration `yaml:"timeout"`

	Filters struct {
		Authors []string `yaml:"authors"`
		Tags    []string `yaml:"tags"`
	} `yaml:"filters"`

	Sheets struct {
		SpreadsheetURL  string `yaml:"spreadsheet_url"`
		CredentialsPath string `yaml:"credentials_path"`
	} `yaml:"sheets"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.BaseURL = "https://quotes.toscrape.com"
	cfg.Fetcher = FetcherHTTP
	cfg.MaxPages = 0
	cfg.Timeout = 30 * time.Second
	return cfg
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("QUOTES_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		return errors.Newf("unknown fetcher %q (want %q or %q)", c.Fetcher, FetcherHTTP, FetcherBrowser)
	}
	if c.MaxPages < 0 {
		return errors.Newf("max_pages must not be negative, got %d", c.MaxPages)
	}
	return nil
}
