package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidThreshold = errors.New("match threshold must be between 0 and 1")
	ErrInvalidBatchSize = errors.New("query batch size must be positive")
	ErrInvalidRetries   = errors.New("query max retries must not be negative")
)

// Config represents the application configuration
type Config struct {
	Brew     BrewConfig  `yaml:"brew"`
	Cache    CacheConfig `yaml:"cache"`
	Query    QueryConfig `yaml:"query"`
	Match    MatchConfig `yaml:"match"`
	Excludes []string    `yaml:"excludes,omitempty"`
}

// BrewConfig holds Homebrew invocation settings
type BrewConfig struct {
	Path string `yaml:"path"` // brew executable, default resolved from PATH
}

// CacheConfig holds cache tier settings
type CacheConfig struct {
	Dir               string `yaml:"dir"`                // empty means XDG cache dir
	MemoryEntries     int    `yaml:"memory_entries"`
	DiskEntries       int    `yaml:"disk_entries"`
	TTLHours          int    `yaml:"ttl_hours"`          // per-cask version records
	CatalogTTLHours   int    `yaml:"catalog_ttl_hours"`  // cask name index
	CompressThreshold int    `yaml:"compress_threshold"` // bytes
}

// QueryConfig holds batch query and rate limiting settings
type QueryConfig struct {
	BatchSize      int `yaml:"batch_size"`
	Workers        int `yaml:"workers"`
	MaxRetries     int `yaml:"max_retries"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MinDelayMillis int `yaml:"min_delay_millis"`
	MaxDelayMillis int `yaml:"max_delay_millis"`
}

// MatchConfig holds fuzzy matching settings
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"`
	AliasFile string  `yaml:"alias_file,omitempty"` // optional TOML alias overrides
}

// DefaultConfig returns a config populated with working defaults
func DefaultConfig() *Config {
	return &Config{
		Brew: BrewConfig{Path: "brew"},
		Cache: CacheConfig{
			MemoryEntries:     512,
			DiskEntries:       4096,
			TTLHours:          1,
			CatalogTTLHours:   24,
			CompressThreshold: 4096,
		},
		Query: QueryConfig{
			BatchSize:      8,
			Workers:        4,
			MaxRetries:     3,
			TimeoutSeconds: 30,
			MinDelayMillis: 100,
			MaxDelayMillis: 5000,
		},
		Match: MatchConfig{Threshold: 0.75},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/versiontracker/config.yaml (XDG standard - priority)
// 2. ~/.versiontracker/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "versiontracker", "config.yaml"),
		filepath.Join(home, ".versiontracker", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path.
// Returns the default path if no config file exists yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file,
// writing defaults on first run, then applies environment overrides.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks settings that would break downstream components
func (c *Config) Validate() error {
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return ErrInvalidThreshold
	}
	if c.Query.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.Query.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	return nil
}

// CacheDir returns the configured cache directory, defaulting to
// $XDG_CACHE_HOME/versiontracker.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}

	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgCache = filepath.Join(home, ".cache")
	}
	return filepath.Join(xdgCache, "versiontracker"), nil
}

// TTL returns the per-cask record lifetime
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// CatalogTTL returns the cask name index lifetime
func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.Cache.CatalogTTLHours) * time.Hour
}

// QueryTimeout returns the per-attempt catalog query deadline
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Query.TimeoutSeconds) * time.Second
}

// MinDelay returns the rate limiter floor
func (c *Config) MinDelay() time.Duration {
	return time.Duration(c.Query.MinDelayMillis) * time.Millisecond
}

// MaxDelay returns the rate limiter ceiling
func (c *Config) MaxDelay() time.Duration {
	return time.Duration(c.Query.MaxDelayMillis) * time.Millisecond
}

// applyEnv overlays VERSIONTRACKER_* environment variables onto the
// loaded config. Only a handful of knobs are worth overriding per run.
func (c *Config) applyEnv() {
	if v := os.Getenv("VERSIONTRACKER_BREW_PATH"); v != "" {
		c.Brew.Path = v
	}
	if v := os.Getenv("VERSIONTRACKER_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("VERSIONTRACKER_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Match.Threshold = f
		}
	}
	if v := os.Getenv("VERSIONTRACKER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Query.Workers = n
		}
	}
	if v := os.Getenv("VERSIONTRACKER_EXCLUDES"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Excludes = append(c.Excludes, name)
			}
		}
	}
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
