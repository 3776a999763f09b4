package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Port        string
	Environment string
	ServiceName string
	Version     string

	JWTSecret string
	JWTExpiry time.Duration

	DBDriver     string
	DatabasePath string
	DatabaseURL  string
	LogQueries   bool

	RateLimitEnabled bool
	RateLimitStore   string
	RedisAddr        string
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool

	LokiURL      string
	OTLPEndpoint string
	MetricsPort  string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:         "8080",
		Environment:  "development",
		ServiceName:  "taskapp",
		Version:      "1.0.0",
		JWTSecret:    "change-me",
		JWTExpiry:    7 * 24 * time.Hour,
		DBDriver:     DriverSQLite,
		DatabasePath: "tasks.db",

		RateLimitEnabled: true,
		RateLimitStore:   "memory",
		RedisAddr:        "localhost:6379",
		RateLimitConfigs: map[string]RateLimitConfig{
			"/auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
		MetricsPort:  "9091",
	}
}

// Load reads .env when present, then the process environment. Unset keys keep
// the values of GetDefaultConfig.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	defaults := GetDefaultConfig()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", defaults.Port)
	v.SetDefault("APP_ENV", defaults.Environment)
	v.SetDefault("SERVICE_NAME", defaults.ServiceName)
	v.SetDefault("APP_VERSION", defaults.Version)
	v.SetDefault("JWT_SECRET", defaults.JWTSecret)
	v.SetDefault("JWT_EXPIRY", defaults.JWTExpiry)
	v.SetDefault("DB_DRIVER", defaults.DBDriver)
	v.SetDefault("DATABASE_PATH", defaults.DatabasePath)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("LOG_QUERIES", false)
	v.SetDefault("RATE_LIMIT_ENABLED", defaults.RateLimitEnabled)
	v.SetDefault("RATE_LIMIT_STORE", defaults.RateLimitStore)
	v.SetDefault("REDIS_ADDR", defaults.RedisAddr)
	v.SetDefault("ENFORCE_HTTPS", defaults.EnforceHTTPS)
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("METRICS_PORT", defaults.MetricsPort)

	cfg := &AppConfig{
		Port:             v.GetString("PORT"),
		Environment:      v.GetString("APP_ENV"),
		ServiceName:      v.GetString("SERVICE_NAME"),
		Version:          v.GetString("APP_VERSION"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTExpiry:        v.GetDuration("JWT_EXPIRY"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabasePath:     v.GetString("DATABASE_PATH"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		LogQueries:       v.GetBool("LOG_QUERIES"),
		RateLimitEnabled: v.GetBool("RATE_LIMIT_ENABLED"),
		RateLimitStore:   strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RateLimitConfigs: defaults.RateLimitConfigs,
		EnforceHTTPS:     v.GetBool("ENFORCE_HTTPS"),
		LokiURL:          v.GetString("LOKI_URL"),
		OTLPEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		MetricsPort:      v.GetString("METRICS_PORT"),
	}

	if strings.EqualFold(v.GetString("GIN_MODE"), "release") {
		cfg.Environment = "production"
	}

	return cfg, nil
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
