package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL     MySQLConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Providers ProvidersConfig
	Worker    PullWorkerConfig
	Migrate   bool
	HTTPAddr  string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string // logrus level name
	Format string // text or json
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Exporter string // none, console or otlp
	Endpoint string // otlp collector address
}

// ProvidersConfig holds DNS provider adapter configuration
type ProvidersConfig struct {
	TimeoutSec        int
	PorkbunBaseURL    string
	CloudflareBaseURL string
	ListCacheTTLSec   int
}

// PullWorkerConfig holds the periodic pull worker configuration
type PullWorkerConfig struct {
	Enabled     bool
	IntervalSec int
	Concurrency int
}

// Timeout returns the per call provider timeout
func (p ProvidersConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// ListCacheTTL returns how long a provider listing stays cached
func (p ProvidersConfig) ListCacheTTL() time.Duration {
	return time.Duration(p.ListCacheTTLSec) * time.Second
}

// BaseURLs maps adapter names to their configured base URL overrides
func (p ProvidersConfig) BaseURLs() map[string]string {
	urls := make(map[string]string)
	if p.PorkbunBaseURL != "" {
		urls["porkbun"] = p.PorkbunBaseURL
	}
	if p.CloudflareBaseURL != "" {
		urls["cloudflare"] = p.CloudflareBaseURL
	}
	return urls
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "go_gizmo"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Telemetry: TelemetryConfig{
			Exporter: getEnv("OTEL_EXPORTER", "none"),
			Endpoint: getEnv("OTEL_ENDPOINT", "localhost:4317"),
		},
		Providers: ProvidersConfig{
			TimeoutSec:        getEnvInt("PROVIDER_TIMEOUT_SEC", 10),
			PorkbunBaseURL:    getEnv("PORKBUN_BASE_URL", ""),
			CloudflareBaseURL: getEnv("CLOUDFLARE_BASE_URL", ""),
			ListCacheTTLSec:   getEnvInt("RECORD_CACHE_TTL_SEC", 60),
		},
		Worker: PullWorkerConfig{
			Enabled:     getEnv("PULL_WORKER_ENABLED", "0") == "1",
			IntervalSec: getEnvInt("PULL_WORKER_INTERVAL_SEC", 3600),
			Concurrency: getEnvInt("PULL_WORKER_CONCURRENCY", 2),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Telemetry.Exporter {
	case "none", "console", "otlp":
	default:
		return fmt.Errorf("OTEL_EXPORTER must be none, console or otlp, got %q", c.Telemetry.Exporter)
	}
	if c.Providers.TimeoutSec <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SEC must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	// the INI file counts seconds, the environment minutes
	expireMinutes := getValueInt("JWT_EXPIRE_MINUTES", "", "", 0)
	if expireMinutes <= 0 {
		expireMinutes = getValueInt("", "jwt", "expire_seconds", 86400) / 60
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: expireMinutes,
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "go_gizmo"),
		},
		Log: LogConfig{
			Level:  getValue("LOG_LEVEL", "log", "level", "info"),
			Format: getValue("LOG_FORMAT", "log", "format", "text"),
		},
		Telemetry: TelemetryConfig{
			Exporter: getValue("OTEL_EXPORTER", "telemetry", "exporter", "none"),
			Endpoint: getValue("OTEL_ENDPOINT", "telemetry", "endpoint", "localhost:4317"),
		},
		Providers: ProvidersConfig{
			TimeoutSec:        getValueInt("PROVIDER_TIMEOUT_SEC", "providers", "timeout_sec", 10),
			PorkbunBaseURL:    getValue("PORKBUN_BASE_URL", "porkbun", "base_url", ""),
			CloudflareBaseURL: getValue("CLOUDFLARE_BASE_URL", "cloudflare", "base_url", ""),
			ListCacheTTLSec:   getValueInt("RECORD_CACHE_TTL_SEC", "providers", "cache_ttl_sec", 60),
		},
		Worker: PullWorkerConfig{
			Enabled:     getValueBool("PULL_WORKER_ENABLED", "pull_worker", "enabled", false),
			IntervalSec: getValueInt("PULL_WORKER_INTERVAL_SEC", "pull_worker", "interval_sec", 3600),
			Concurrency: getValueInt("PULL_WORKER_CONCURRENCY", "pull_worker", "concurrency", 2),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":8080"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAuto reads the INI file named by GIZMO_CONFIG when set, the environment otherwise
func LoadAuto() (*Config, error) {
	if path := os.Getenv("GIZMO_CONFIG"); path != "" {
		return LoadFromINI(path)
	}
	return Load()
}
