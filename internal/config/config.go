package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/2beens/gymtracker/internal/storage"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "GYMTRACKER_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"-" env:"-"`

	Host                  string   `toml:"host" env:"HOST"`
	Port                  int      `toml:"port" env:"PORT"`
	PrometheusMetricsHost string   `toml:"prometheus_metrics_host" env:"METRICS_HOST"`
	PrometheusMetricsPort string   `toml:"prometheus_metrics_port" env:"METRICS_PORT"`
	AllowedOrigins        []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// logging
	LogLevel      string `toml:"log_level" env:"LOG_LEVEL"`
	LogsPath      string `toml:"logs_path" env:"LOGS_PATH"`
	LogToStdout   bool   `toml:"log_to_stdout" env:"LOG_TO_STDOUT"`
	LogFormatJSON bool   `toml:"log_format_json" env:"LOG_FORMAT_JSON"`
	SentryEnabled bool   `toml:"sentry_enabled" env:"SENTRY_ENABLED"`
	SentryDSN     string `toml:"-" env:"SENTRY_DSN"`

	// tracing
	HoneycombEnabled bool `toml:"honeycomb_enabled" env:"HONEYCOMB_ENABLED"`

	// storage
	StoreBackend   string `toml:"store_backend" env:"STORE_BACKEND"`
	DataDir        string `toml:"data_dir" env:"DATA_DIR"`
	SqlitePath     string `toml:"sqlite_path" env:"SQLITE_PATH"`
	RedisHost      string `toml:"redis_host" env:"REDIS_HOST"`
	RedisPort      string `toml:"redis_port" env:"REDIS_PORT"`
	RedisPassword  string `toml:"-" env:"REDIS_PASS"`
	PostgresHost   string `toml:"postgres_host" env:"POSTGRES_HOST"`
	PostgresPort   string `toml:"postgres_port" env:"POSTGRES_PORT"`
	PostgresDBName string `toml:"postgres_db_name" env:"POSTGRES_DB_NAME"`
	PostgresUser   string `toml:"postgres_user" env:"POSTGRES_USER"`
	PostgresPass   string `toml:"-" env:"POSTGRES_PASS"`
	SeedSampleData bool   `toml:"seed_sample_data" env:"SEED_SAMPLE_DATA"`

	// offline shell
	WebDir               string   `toml:"web_dir" env:"WEB_DIR"`
	OriginURL            string   `toml:"origin_url" env:"ORIGIN_URL"`
	ShellVersion         string   `toml:"shell_version" env:"SHELL_VERSION"`
	SkipWaiting          bool     `toml:"skip_waiting" env:"SKIP_WAITING"`
	PrecacheURLs         []string `toml:"precache_urls" env:"PRECACHE_URLS" envSeparator:","`
	CachePartitionSizeMB int      `toml:"cache_partition_size_mb" env:"CACHE_PARTITION_SIZE_MB"`

	ImportRateLimitPerMin int `toml:"import_rate_limit_per_min" env:"IMPORT_RATE_LIMIT_PER_MIN"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file, then applies the GYMTRACKER_*
// environment overrides and validates the result.
func Load(environment, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := tomlConfig.Get(environment)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no [%s] section in [%s]", ErrInvalidConfig, environment, path)
	}
	cfg.Environment = strings.ToLower(environment)

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the fields whose environment variable is set.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = storage.BackendSqlite
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SqlitePath == "" {
		c.SqlitePath = c.DataDir + "/gymtracker.db"
	}
	if c.CachePartitionSizeMB <= 0 {
		c.CachePartitionSizeMB = 128
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}

	switch c.StoreBackend {
	case storage.BackendDisk, storage.BackendSqlite, storage.BackendMemory:
	case storage.BackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("%w: redis backend without redis host/port", ErrInvalidConfig)
		}
	case storage.BackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("%w: postgres backend without postgres host/port/db name", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend [%s]", ErrInvalidConfig, c.StoreBackend)
	}

	if c.WebDir == "" && c.OriginURL == "" {
		return fmt.Errorf("%w: one of web_dir or origin_url must be set", ErrInvalidConfig)
	}
	if c.OriginURL != "" {
		u, err := url.Parse(c.OriginURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: origin url [%s]", ErrInvalidConfig, c.OriginURL)
		}
	}

	if c.SentryEnabled && c.SentryDSN == "" {
		return fmt.Errorf("%w: sentry enabled without %sSENTRY_DSN", ErrInvalidConfig, EnvPrefix)
	}
	return nil
}

// RedisEnabled is true when a redis server is configured, the import rate
// limiter needs it even with another store backend.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}
