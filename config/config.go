/*
Package config loads server settings from YAML or TOML.

PURPOSE:
  One file configures the HTTP server, history storage, result cache,
  retention pruning and rate limiting. Command-line flags in cmd/server
  override individual values after loading.

FORMATS:
  The extension picks the decoder:
    .yaml / .yml  gopkg.in/yaml.v3
    .toml         github.com/BurntSushi/toml
  Keys absent from the file keep their Default() value.

EXAMPLE (YAML):
  server:
    port: 8080
    cors_origins: ["http://localhost:3000"]
  storage:
    driver: sqlite
    path: ./data/finance.db
  cache:
    driver: redis
    redis_addr: localhost:6379
    ttl: 10m
  retention:
    days: 90
    interval: 1h
  rate_limit:
    requests: 60
    window: 1m

SEE ALSO:
  - cmd/server/main.go: flag overrides
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Storage   StorageConfig   `yaml:"storage" toml:"storage"`
	Cache     CacheConfig     `yaml:"cache" toml:"cache"`
	Retention RetentionConfig `yaml:"retention" toml:"retention"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string   `yaml:"host" toml:"host"`
	Port         int      `yaml:"port" toml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout" toml:"idle_timeout"`
	CORSOrigins  []string `yaml:"cors_origins" toml:"cors_origins"`
}

// StorageConfig selects the history store.
type StorageConfig struct {
	Driver string `yaml:"driver" toml:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path" toml:"path"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Driver    string   `yaml:"driver" toml:"driver"` // "memory", "redis" or "none"
	RedisAddr string   `yaml:"redis_addr" toml:"redis_addr"`
	TTL       Duration `yaml:"ttl" toml:"ttl"`
}

// RetentionConfig controls history pruning. Days = 0 keeps everything.
type RetentionConfig struct {
	Days     int      `yaml:"days" toml:"days"`
	Interval Duration `yaml:"interval" toml:"interval"`
}

// RateLimitConfig bounds calculation requests per client. Requests = 0
// disables limiting.
type RateLimitConfig struct {
	Requests int      `yaml:"requests" toml:"requests"`
	Window   Duration `yaml:"window" toml:"window"`
}

// Duration wraps time.Duration so both formats accept "90s", "10m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
			CORSOrigins:  []string{"*"},
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "finance.db",
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    Duration{10 * time.Minute},
		},
		Retention: RetentionConfig{
			Days:     90,
			Interval: Duration{time.Hour},
		},
		RateLimit: RateLimitConfig{
			Requests: 60,
			Window:   Duration{time.Minute},
		},
	}
}

// Load reads path on top of Default() and validates the result.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and driver names.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	default:
		return fmt.Errorf("storage.driver must be sqlite or memory, got %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for redis")
		}
	default:
		return fmt.Errorf("cache.driver must be memory, redis or none, got %q", c.Cache.Driver)
	}
	if c.Retention.Days < 0 {
		return fmt.Errorf("retention.days cannot be negative")
	}
	if c.Retention.Days > 0 && c.Retention.Interval.Duration <= 0 {
		return fmt.Errorf("retention.interval must be positive")
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests cannot be negative")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window.Duration <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// RetentionWindow returns how long history is kept, or 0 for forever.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.Retention.Days) * 24 * time.Hour
}

// Overrides are command-line values that replace file settings. Zero
// values leave the setting alone.
type Overrides struct {
	Port  int
	DB    string // a SQLite path, or "memory"
	Redis string
}

// Apply writes o onto c and revalidates.
func (o Overrides) Apply(c *Config) error {
	if o.Port != 0 {
		c.Server.Port = o.Port
	}
	switch o.DB {
	case "":
	case "memory":
		c.Storage.Driver = "memory"
	default:
		c.Storage.Driver = "sqlite"
		c.Storage.Path = o.DB
	}
	if o.Redis != "" {
		c.Cache.Driver = "redis"
		c.Cache.RedisAddr = o.Redis
	}
	return c.Validate()
}

// LoadWithOverrides loads path (or defaults when path is empty) and
// applies o.
func LoadWithOverrides(path string, o Overrides) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := o.Apply(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
