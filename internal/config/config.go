package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres (document store)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis (sessions, rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	AuthRateLimitAllowedPerMin int      `toml:"auth_rate_limit_allowed_per_min"`
	GenRateLimitAllowedPerMin  int      `toml:"generate_rate_limit_allowed_per_min"`
	SessionTTLHours            int      `toml:"session_ttl_hours"`
	CorsAllowedOrigins         []string `toml:"cors_allowed_origins"`

	// generative text
	GeminiModel string `toml:"gemini_model"`

	// object storage: "gcs" or "disk"
	StorageBackend       string `toml:"storage_backend"`
	StorageBucket        string `toml:"storage_bucket"`
	StorageDiskRootPath  string `toml:"storage_disk_root_path"`
	StoragePublicBaseURL string `toml:"storage_public_base_url"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the config section for env,
// with defaults applied to the fields left empty.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, env)
}

// Parse is like Load, but reads the TOML from a string.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.AuthRateLimitAllowedPerMin == 0 {
		c.AuthRateLimitAllowedPerMin = 15
	}
	if c.GenRateLimitAllowedPerMin == 0 {
		c.GenRateLimitAllowedPerMin = 10
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = "disk"
	}
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "disk":
		if c.StorageDiskRootPath == "" {
			return errors.New("storage_disk_root_path must be set for disk storage")
		}
	case "gcs":
		if c.StorageBucket == "" {
			return errors.New("storage_bucket must be set for gcs storage")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
