// Package config loads service configuration from an optional YAML file
// overlaid with AUTHORSITE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AUTHORSITE_"

type Config struct {
	Addr    string `koanf:"addr"`
	WebRoot string `koanf:"web_root"`

	AuthorID   string `koanf:"author_id"`
	AuthorName string `koanf:"author_name"`
	FetchLimit int    `koanf:"fetch_limit"`

	OpenLibraryURL  string        `koanf:"openlibrary_url"`
	UserAgent       string        `koanf:"user_agent"`
	UpstreamRPS     int           `koanf:"upstream_rps"`
	UpstreamRetries int           `koanf:"upstream_retries"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	DetailTimeout   time.Duration `koanf:"detail_timeout"`

	DatasetURL   string `koanf:"dataset_url"`
	DatasetToken string `koanf:"dataset_token"`

	OpenAIKey   string `koanf:"openai_key"`
	OpenAIModel string `koanf:"openai_model"`

	AllowedOrigins  []string `koanf:"allowed_origins"`
	RateLimitRPS    float64  `koanf:"rate_limit_rps"`
	RateLimitBurst  int      `koanf:"rate_limit_burst"`
	MaxRequestBytes int64    `koanf:"max_request_bytes"`
}

// Default returns a configuration usable for local development without any
// config file.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		WebRoot:         "web",
		AuthorID:        "OL23919A",
		AuthorName:      "J.K. Rowling",
		FetchLimit:      50,
		OpenLibraryURL:  "https://openlibrary.org",
		UserAgent:       "authorsite/1.0 (book catalog)",
		UpstreamRPS:     3,
		UpstreamRetries: 2,
		CacheTTL:        5 * time.Minute,
		DetailTimeout:   5 * time.Second,
		AllowedOrigins:  []string{"http://localhost:8080"},
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		MaxRequestBytes: 1 << 20,
	}
}

// Load reads configuration from the given YAML file if it exists, then
// overlays AUTHORSITE_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// AUTHORSITE_AUTHOR_ID -> author_id, etc.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.AuthorID == "" {
		return fmt.Errorf("author_id is required")
	}
	if c.AuthorName == "" {
		return fmt.Errorf("author_name is required")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive")
	}
	if c.UpstreamRPS <= 0 {
		return fmt.Errorf("upstream_rps must be positive")
	}
	if c.UpstreamRetries < 0 {
		return fmt.Errorf("upstream_retries must be non-negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if c.DetailTimeout <= 0 {
		return fmt.Errorf("detail_timeout must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}
	return nil
}
