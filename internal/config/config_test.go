package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamaplabs/lineagraph/pkg/cache"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, "TB", cfg.Layout.Direction)
	assert.Equal(t, 150.0, cfg.Layout.NodeSpacing)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineagraph.toml")
	content := `
[server]
addr = ":9090"
session_ttl = "1h"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "30m"

[layout]
direction = "LR"
node_spacing = 200.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Server.SessionTTL.Duration())
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL.Duration())
	assert.Equal(t, "LR", cfg.Layout.Direction)
	assert.Equal(t, 200.0, cfg.Layout.NodeSpacing)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvCacheBackend, BackendNone)
	t.Setenv(EnvDirection, "LR")
	t.Setenv(EnvNodeSpacing, "75")
	t.Setenv(EnvCacheTTL, "2h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
	assert.Equal(t, "LR", cfg.Layout.Direction)
	assert.Equal(t, 75.0, cfg.Layout.NodeSpacing)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL.Duration())
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineagraph.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0644))
	t.Setenv(EnvAddr, ":7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "invalid cache backend",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Cache.Backend = BackendRedis },
			wantErr: "requires redis_url",
		},
		{
			name:    "empty addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "addr cannot be empty",
		},
		{
			name:    "bad direction",
			mutate:  func(c *Config) { c.Layout.Direction = "BT" },
			wantErr: "invalid layout direction",
		},
		{
			name:    "bad spacing",
			mutate:  func(c *Config) { c.Layout.NodeSpacing = 0 },
			wantErr: "node_spacing must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCacheConfigOpen(t *testing.T) {
	// File backend
	c, err := CacheConfig{Backend: BackendFile, Dir: t.TempDir()}.Open()
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// None backend
	c, err = CacheConfig{Backend: BackendNone}.Open()
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Redis backend with an invalid URL fails fast
	_, err = CacheConfig{Backend: BackendRedis, RedisURL: "://bad"}.Open()
	assert.Error(t, err)
}

func TestCacheConfigKeyer(t *testing.T) {
	plain := CacheConfig{}.Keyer()
	scoped := CacheConfig{KeyPrefix: "staging:"}.Keyer()

	key := plain.LayoutKey("abc", cache.LayoutKeyOpts{Direction: "TB", NodeSpacing: 150})
	assert.Equal(t, "staging:"+key, scoped.LayoutKey("abc", cache.LayoutKeyOpts{Direction: "TB", NodeSpacing: 150}))
	assert.Equal(t, "staging:"+plain.PathKey("abc", "n1", "upstream"), scoped.PathKey("abc", "n1", "upstream"))
}

func TestLoadKeyPrefixFromEnv(t *testing.T) {
	t.Setenv(EnvKeyPrefix, "tenant:42:")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tenant:42:", cfg.Cache.KeyPrefix)
}
