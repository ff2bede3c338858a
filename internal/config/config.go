package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultIndexURL is the published Rdatasets index.
const DefaultIndexURL = "https://raw.githubusercontent.com/vincentarelbundock/Rdatasets/master/datasets.csv"

// Config holds all rdata configuration.
type Config struct {
	// Dataset index source and optional local cache
	Index IndexConfig `yaml:"index"`

	// Documentation page fetching
	Docs DocsConfig `yaml:"docs"`

	// CSV downloads
	Download DownloadConfig `yaml:"download"`

	// Interactive browser
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// IndexConfig configures where the dataset index comes from.
type IndexConfig struct {
	URL       string `yaml:"url"`
	Timeout   string `yaml:"timeout"`
	CachePath string `yaml:"cache_path"` // empty disables the cache
	CacheTTL  string `yaml:"cache_ttl"`
}

// DocsConfig configures documentation page fetching.
type DocsConfig struct {
	Timeout   string `yaml:"timeout"`
	MaxChars  int    `yaml:"max_chars"`
	UserAgent string `yaml:"user_agent"`
}

// DownloadConfig configures CSV downloads.
type DownloadConfig struct {
	Timeout string `yaml:"timeout"`
	Dir     string `yaml:"dir"` // empty means the working directory
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			URL:      DefaultIndexURL,
			Timeout:  "10s",
			CacheTTL: "24h",
		},
		Docs: DocsConfig{
			Timeout:   "10s",
			MaxChars:  3000,
			UserAgent: "rdata/1.0 (+https://github.com/vincentarelbundock/Rdatasets)",
		},
		Download: DownloadConfig{
			Timeout: "30s",
		},
		UI: *DefaultUIConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/rdata/config.yaml or the
// platform equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".rdata", "config.yaml")
	}
	return filepath.Join(dir, "rdata", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if the file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RDATA_INDEX_URL"); v != "" {
		c.Index.URL = v
	}
	if v := os.Getenv("RDATA_CACHE_PATH"); v != "" {
		c.Index.CachePath = v
	}
	if v := os.Getenv("RDATA_DOWNLOAD_DIR"); v != "" {
		c.Download.Dir = v
	}
	if v, err := strconv.ParseBool(os.Getenv("RDATA_PLAIN")); err == nil {
		c.UI.Plain = v
	}
	if v, err := strconv.ParseBool(os.Getenv("RDATA_DEBUG")); err == nil {
		c.Logging.DebugMode = v
		if v {
			c.Logging.Level = "debug"
		}
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IndexTimeout returns the index fetch timeout.
func (c *Config) IndexTimeout() time.Duration {
	return parseDuration(c.Index.Timeout, 10*time.Second)
}

// CacheTTL returns how long a cached index stays fresh.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Index.CacheTTL, 24*time.Hour)
}

// DocsTimeout returns the documentation fetch timeout.
func (c *Config) DocsTimeout() time.Duration {
	return parseDuration(c.Docs.Timeout, 10*time.Second)
}

// DownloadTimeout returns the CSV download timeout.
func (c *Config) DownloadTimeout() time.Duration {
	return parseDuration(c.Download.Timeout, 30*time.Second)
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Index.URL == "" {
		return fmt.Errorf("index url not configured (set index.url or RDATA_INDEX_URL)")
	}
	u, err := url.Parse(c.Index.URL)
	if err != nil {
		return fmt.Errorf("invalid index url %q: %w", c.Index.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid index url %q: scheme must be http or https", c.Index.URL)
	}

	if c.Docs.MaxChars < 0 {
		return fmt.Errorf("docs.max_chars must not be negative, got %d", c.Docs.MaxChars)
	}

	if err := c.UI.Validate(); err != nil {
		return err
	}

	if c.Logging.Level != "" {
		valid := false
		for _, l := range ValidLogLevels {
			if c.Logging.Level == l {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
		}
	}

	return nil
}
