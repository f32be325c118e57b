// Package config loads server and cache configuration for lineagraph.
//
// Configuration is layered: built-in defaults, then an optional TOML file,
// then environment variables. Later layers win. The CLI only needs the cache
// section; the serve command reads everything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/datamaplabs/lineagraph/pkg/cache"
)

// Cache backend names accepted in configuration.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// SessionTTL bounds how long an uploaded graph stays resident.
	SessionTTL duration `toml:"session_ttl"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // file, redis, or none
	Dir      string   `toml:"dir"`     // file backend only
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
	// KeyPrefix namespaces cache keys, for deployments sharing one Redis.
	KeyPrefix string `toml:"key_prefix"`
}

// LayoutConfig sets layout defaults applied when a request omits them.
type LayoutConfig struct {
	Direction   string  `toml:"direction"`
	NodeSpacing float64 `toml:"node_spacing"`
}

// duration wraps time.Duration with TOML string parsing ("15m", "1h").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Duration returns the wrapped value.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: duration(30 * time.Minute),
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     defaultCacheDir(),
			TTL:     duration(12 * time.Hour),
		},
		Layout: LayoutConfig{
			Direction:   "TB",
			NodeSpacing: 150,
		},
	}
}

// Load reads configuration from the given TOML file path, falling back to
// defaults when path is empty or the file does not exist, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend %q (expected file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache backend redis requires redis_url")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}
	if c.Layout.NodeSpacing <= 0 {
		return fmt.Errorf("layout node_spacing must be positive")
	}
	switch c.Layout.Direction {
	case "TB", "LR":
	default:
		return fmt.Errorf("invalid layout direction %q (expected TB or LR)", c.Layout.Direction)
	}
	return nil
}

// Environment variable names. Values override both defaults and file values.
const (
	EnvAddr         = "LINEAGRAPH_ADDR"
	EnvCacheBackend = "LINEAGRAPH_CACHE_BACKEND"
	EnvCacheDir     = "LINEAGRAPH_CACHE_DIR"
	EnvRedisURL     = "LINEAGRAPH_REDIS_URL"
	EnvCacheTTL     = "LINEAGRAPH_CACHE_TTL"
	EnvKeyPrefix    = "LINEAGRAPH_CACHE_KEY_PREFIX"
	EnvDirection    = "LINEAGRAPH_DIRECTION"
	EnvNodeSpacing  = "LINEAGRAPH_NODE_SPACING"
)

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = duration(parsed)
		}
	}
	if v := os.Getenv(EnvKeyPrefix); v != "" {
		cfg.Cache.KeyPrefix = v
	}
	if v := os.Getenv(EnvDirection); v != "" {
		cfg.Layout.Direction = v
	}
	if v := os.Getenv(EnvNodeSpacing); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Layout.NodeSpacing = parsed
		}
	}
}

// Open constructs the cache backend described by the configuration.
func (c CacheConfig) Open() (cache.Cache, error) {
	switch c.Backend {
	case BackendRedis:
		return cache.NewRedisCache(c.RedisURL)
	case BackendNone:
		return cache.NewNullCache(), nil
	default:
		return cache.NewFileCache(c.Dir)
	}
}

// Keyer returns the cache keyer for the configuration. With a key prefix
// set, keys are scoped so deployments sharing a backend do not collide.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.KeyPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.KeyPrefix)
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lineagraph")
	}
	return filepath.Join(base, "lineagraph")
}
