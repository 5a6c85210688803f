// Package config loads readability settings from a TOML file.
//
// Config file locations (priority order):
//  1. the --config flag
//  2. $READABILITY_CONFIG
//  3. $XDG_CONFIG_HOME/readability/config.toml
//  4. ~/.config/readability/config.toml
//
// A missing file at one of the default locations is not an error: [Load]
// returns [Default]. Settings from the file fill pipeline options the caller
// left unset, so command-line flags always win.
//
// Example file:
//
//	ideal_angle = 70
//	divisor = "degree"
//	workers = 8
//	engine = "neato"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//	namespace = "team-a"
//
//	[server]
//	addr = ":8080"
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/readability/pkg/cache"
	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/pipeline"
)

const (
	// AppName names the config and cache directories.
	AppName = "readability"

	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "READABILITY_CONFIG"

	// ConfigFileName is the file name looked up under the config directory.
	ConfigFileName = "config.toml"

	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = ":8080"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the content of a config file.
type Config struct {
	IdealAngle float64 `toml:"ideal_angle"`
	Divisor    string  `toml:"divisor"`
	Workers    int     `toml:"workers"`
	Engine     string  `toml:"engine"`
	Clamp      bool    `toml:"clamp"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // file (default), redis or none
	Dir       string   `toml:"dir"`     // file backend; defaults to the XDG cache dir
	RedisURL  string   `toml:"redis_url"`
	TTL       Duration `toml:"ttl"`
	Namespace string   `toml:"namespace"` // optional key prefix shared by all entries
}

// ServerConfig configures `readability serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Load resolves the config path (see the package doc) and loads it.
// explicit is the --config flag value and may be empty. It returns the
// path that was read, or "" when defaults are used.
func Load(explicit string) (*Config, string, error) {
	for _, path := range []string{explicit, os.Getenv(EnvConfigPath)} {
		if path == "" {
			continue
		}
		cfg, err := LoadFile(path)
		return cfg, path, err
	}

	path := FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes TOML config text. Unknown keys are rejected so typos
// don't silently fall back to defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every set value.
func (c *Config) Validate() error {
	opts := pipeline.Options{
		IdealAngle: c.IdealAngle,
		Divisor:    c.Divisor,
		Workers:    c.Workers,
		Engine:     c.Engine,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidOption, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache ttl must not be negative")
	}
	return nil
}

// ApplyTo fills the options the caller left unset.
func (c *Config) ApplyTo(opts *pipeline.Options) {
	if opts.IdealAngle == 0 {
		opts.IdealAngle = c.IdealAngle
	}
	if opts.Divisor == "" {
		opts.Divisor = c.Divisor
	}
	if opts.Workers == 0 {
		opts.Workers = c.Workers
	}
	if opts.Engine == "" {
		opts.Engine = c.Engine
	}
	if opts.TTL == 0 {
		opts.TTL = time.Duration(c.Cache.TTL)
	}
	opts.Clamp = opts.Clamp || c.Clamp
}

// NewCache opens the configured cache backend. noCache forces a null cache.
func (c *Config) NewCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisURL)
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// Keyer returns the cache keyer, scoped by the configured namespace.
func (c *Config) Keyer() cache.Keyer {
	k := cache.NewDefaultKeyer()
	if c.Cache.Namespace != "" {
		k = cache.NewScopedKeyer(k, c.Cache.Namespace+":")
	}
	return k
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	if c.Server.Addr == "" {
		return DefaultAddr
	}
	return c.Server.Addr
}

// FindConfigPath returns the first existing default config file, or "".
func FindConfigPath() string {
	for _, path := range defaultPaths() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file.
func DefaultConfigPath() string {
	if paths := defaultPaths(); len(paths) > 0 {
		return paths[0]
	}
	return ConfigFileName
}

func defaultPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName, ConfigFileName))
	}
	return paths
}

// CacheDir returns the cache directory using XDG standard (~/.cache/readability/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
