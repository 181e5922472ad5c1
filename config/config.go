// Package config loads the scoring engine's YAML configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Avatar    AvatarConfig    `yaml:"avatar"`
	Mirror    MirrorConfig    `yaml:"mirror"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
}

// ModelConfig locates the pretrained classifier artifact.
type ModelConfig struct {
	// Path to the artifact bundle. Required for the structured path.
	Path string `yaml:"path"`
}

// AvatarConfig lists reference images for default-avatar detection.
type AvatarConfig struct {
	// ReferencePaths are images considered platform defaults.
	ReferencePaths []string `yaml:"referencePaths"`
}

// MirrorConfig configures the scrape path.
type MirrorConfig struct {
	// BaseURL of the mirror instance serving profile pages.
	BaseURL string `yaml:"baseUrl"`
}

// HeuristicConfig tunes the additive scorer.
type HeuristicConfig struct {
	// SuspiciousKeywords flag spammy handles and bios. Empty means the
	// built-in list.
	SuspiciousKeywords []string `yaml:"suspiciousKeywords"`
}

// CacheConfig controls the shared HTTP response cache.
type CacheConfig struct {
	// Disabled turns off disk caching entirely.
	Disabled bool `yaml:"disabled"`
	// TTL for cached responses, e.g. "6h". Empty means the default.
	TTL string `yaml:"ttl"`
	// Dir overrides the cache directory.
	Dir string `yaml:"dir"`
}

// SearchConfig configures the web search fan-out.
type SearchConfig struct {
	// BraveAPIKey for the search API. If empty, read from BRAVE_API_KEY
	// or ~/.brave.
	BraveAPIKey string `yaml:"braveApiKey"`
}

// DefaultCacheTTL applies when CacheConfig.TTL is unset or unparseable.
const DefaultCacheTTL = 6 * time.Hour

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Model:  ModelConfig{Path: "model.json"},
		Mirror: MirrorConfig{BaseURL: "https://nitter.privacydev.net"},
		Cache:  CacheConfig{TTL: "6h"},
	}
}

// CacheTTL parses the configured TTL, falling back to DefaultCacheTTL.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		return DefaultCacheTTL
	}
	return ttl
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Search.BraveAPIKey == "" {
		c.Search.BraveAPIKey = os.Getenv("BRAVE_API_KEY")
	}
	if c.Model.Path == "" {
		c.Model.Path = os.Getenv("IMPOSTER_MODEL_PATH")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
