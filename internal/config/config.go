package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string
	Port        int

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`
	AuthTokenTTLHours           int `toml:"auth_token_ttl_hours"`

	// workout session
	Timezone             string `toml:"timezone"`
	SaveDebounceMillis   int    `toml:"save_debounce_millis"`
	AutoSaveSeconds      int    `toml:"auto_save_seconds"`
	WriteDeadlineSeconds int    `toml:"write_deadline_seconds"`
	WrapUpRepeatSeconds  int    `toml:"wrap_up_repeat_seconds"`

	// exercise index
	CatalogCacheTTLSeconds int `toml:"catalog_cache_ttl_seconds"`
	CatalogCacheSizeMB     int `toml:"catalog_cache_size_mb"`
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	case "ddev", "dockerdev":
		return t.DockerDev, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.SaveDebounceMillis <= 0 {
		c.SaveDebounceMillis = 750
	}
	if c.AutoSaveSeconds <= 0 {
		c.AutoSaveSeconds = 30
	}
	if c.WriteDeadlineSeconds <= 0 {
		c.WriteDeadlineSeconds = 30
	}
	if c.CatalogCacheTTLSeconds <= 0 {
		c.CatalogCacheTTLSeconds = 300
	}
	if c.CatalogCacheSizeMB <= 0 {
		c.CatalogCacheSizeMB = 10
	}
	if c.AuthTokenTTLHours <= 0 {
		c.AuthTokenTTLHours = 24 * 7
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

// Location returns the time zone used to decide what "today" is for a session.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(c.SaveDebounceMillis) * time.Millisecond
}

func (c *Config) AutoSaveInterval() time.Duration {
	return time.Duration(c.AutoSaveSeconds) * time.Second
}

func (c *Config) WriteDeadline() time.Duration {
	return time.Duration(c.WriteDeadlineSeconds) * time.Second
}

func (c *Config) WrapUpRepeat() time.Duration {
	return time.Duration(c.WrapUpRepeatSeconds) * time.Second
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

func (c *Config) AuthTokenTTL() time.Duration {
	return time.Duration(c.AuthTokenTTLHours) * time.Hour
}
