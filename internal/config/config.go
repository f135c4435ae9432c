package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	ENV string
}

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type DBConfig struct {
	Driver     string
	DSN        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GRPCConfig struct {
	Host string
	Port string
}

type MetricsConfig struct {
	Addr string
}

// DiscoveryConfig tunes the suggestion feed.
type DiscoveryConfig struct {
	SuggestRadiusKm float64
}

// RelationshipConfig bounds the per-pair lock taken around every toggle.
type RelationshipConfig struct {
	LockTTL  time.Duration
	LockWait time.Duration
}

type Config struct {
	App          AppConfig
	Log          LogConfig
	DB           DBConfig
	Redis        RedisConfig
	GRPC         GRPCConfig
	Metrics      MetricsConfig
	Discovery    DiscoveryConfig
	Relationship RelationshipConfig
}

// New builds the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables win.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "grpc_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.SQLitePath = getEnvDefault("SQLITE_PATH", "matcha.db")
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "matcha")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// Metrics
	cfg.Metrics.Addr = getEnvDefault("METRICS_ADDR", ":9090")

	// Discovery
	cfg.Discovery.SuggestRadiusKm = getEnvFloat("SUGGEST_RADIUS_KM", 50)

	// Relationship toggles
	cfg.Relationship.LockTTL = getEnvDuration("PAIR_LOCK_TTL", 5*time.Second)
	cfg.Relationship.LockWait = getEnvDuration("PAIR_LOCK_WAIT", 2*time.Second)

	return cfg
}

// Validate reports settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "mysql":
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("mysql DSN is empty"))
		}
	case "sqlite":
		if c.DB.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is empty"))
	}
	if c.Discovery.SuggestRadiusKm <= 0 {
		errs = append(errs, errors.New("SUGGEST_RADIUS_KM must be positive"))
	}
	if c.Relationship.LockTTL <= 0 || c.Relationship.LockWait <= 0 {
		errs = append(errs, errors.New("PAIR_LOCK_TTL and PAIR_LOCK_WAIT must be positive"))
	}
	return errors.Join(errs...)
}

// GRPCAddr is the host:port the gRPC server listens on.
func (c *Config) GRPCAddr() string {
	return c.GRPC.Host + ":" + c.GRPC.Port
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
