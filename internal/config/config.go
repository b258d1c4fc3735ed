package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"https://localhost:3000",
}

const (
	DefaultSessionLifetime        = 24 * time.Hour
	DefaultSessionCleanupInterval = time.Hour
	DefaultLoginRateLimitPerMin   = 15
	DefaultCacheSizeMB            = 16
	DefaultCacheTTLSeconds        = 600
	DefaultLogMaxSizeMB           = 50
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port" validate:"required,min=1,max=65535"`
	MetricsPort int    `toml:"metrics_port" validate:"omitempty,min=1,max=65535,nefield=Port"`
	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb" validate:"min=0"`
	LogMaxBackups int    `toml:"log_max_backups" validate:"min=0"`
	LogMaxAgeDays int    `toml:"log_max_age_days" validate:"min=0"`
	LogCompress   bool   `toml:"log_compress"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-"`
	// postgres
	DatabaseURL   string        `toml:"database_url" validate:"required"`
	DBMaxConns    int32         `toml:"db_max_conns" validate:"min=0"`
	DBMaxIdleTime time.Duration `toml:"db_max_idle_time"`
	DBAutoMigrate bool          `toml:"db_auto_migrate"`
	// redis, only used by login rate limiting; empty host disables it
	RedisHost            string `toml:"redis_host"`
	RedisPort            string `toml:"redis_port"`
	RedisPassword        string `toml:"-"`
	LoginRateLimitPerMin int    `toml:"login_rate_limit_per_min" validate:"min=0"`
	// auth
	SessionLifetime        time.Duration `toml:"session_lifetime" validate:"min=0"`
	SessionCleanupInterval time.Duration `toml:"session_cleanup_interval" validate:"min=0"`
	CookieSecure           bool          `toml:"cookie_secure"`
	AllowedOrigins         []string      `toml:"allowed_origins" validate:"dive,url"`
	// public response cache
	CacheSizeMB     int `toml:"cache_size_mb" validate:"min=0"`
	CacheTTLSeconds int `toml:"cache_ttl_seconds" validate:"min=0"`
	// tracing
	HoneycombEnabled bool   `toml:"honeycomb_enabled"`
	OtelServiceName  string `toml:"otel_service_name"`
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
		return nil, fmt.Errorf("no [%s] section in config", env)
	}
	return cfg, nil
}

// Load reads the TOML file section for env, then a .env file in the working
// directory (if any), then environment overrides, and validates the result.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %s", err)
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(env)
	cfg.applyEnv(os.LookupEnv)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.SessionLifetime <= 0 {
		c.SessionLifetime = DefaultSessionLifetime
	}
	if c.SessionCleanupInterval <= 0 {
		c.SessionCleanupInterval = DefaultSessionCleanupInterval
	}
	if c.LoginRateLimitPerMin == 0 {
		c.LoginRateLimitPerMin = DefaultLoginRateLimitPerMin
	}
	if c.CacheSizeMB == 0 {
		c.CacheSizeMB = DefaultCacheSizeMB
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.OtelServiceName == "" {
		c.OtelServiceName = "neuralspace-backend"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = append([]string{}, DefaultAllowedOrigins...)
	}
}

// applyEnv overrides secrets and deployment specific values. ALLOWED_ORIGINS
// is a comma separated list added to the configured origins.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.DatabaseURL = v
	}
	if v, ok := lookup("NEURAL_REDIS_PASS"); ok {
		c.RedisPassword = v
	}
	if v, ok := lookup("SENTRY_DSN"); ok {
		c.SentryDSN = v
	}
	if v, ok := lookup("HONEYCOMB_ENABLED"); ok {
		c.HoneycombEnabled = v == "true"
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		c.OtelServiceName = v
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		for _, origin := range strings.Split(v, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" && !contains(c.AllowedOrigins, origin) {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
