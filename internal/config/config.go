// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	DatabaseURL string
	DBMaxConns  int32
	Port        int
	LogLevel    string
	CORSOrigins []string
	RateLimit   float64
	JWT         JWTConfig
	BcryptCost  int
	Redis       RedisConfig
	Login       LoginConfig
	Kafka       KafkaConfig
	WorkerCount int
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoginConfig holds failed-login throttling settings
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// KafkaConfig holds inventory event settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// loadDotenv is swapped in tests so a developer's .env does not leak in.
var loadDotenv = func() { _ = godotenv.Load() }

// LoadDatabase reads only the settings the maintenance commands need:
// DATABASE_URL, DB_MAX_CONNS and BCRYPT_COST.
func LoadDatabase() (*Config, error) {
	loadDotenv()

	cfg := &Config{}
	if err := cfg.loadDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) loadDatabase() error {
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid DB_MAX_CONNS: %q", v)
		}
		cfg.DBMaxConns = int32(n)
	}

	var err error
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", 10); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from environment variables, after an optional .env file.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{}
	if err := cfg.loadDatabase(); err != nil {
		return nil, err
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.JWT.TTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Port, err = intEnv("PORT", 5000); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d", cfg.Port)
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.CORSOrigins = listEnv("CORS_ALLOWED_ORIGINS")
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		cfg.RateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.RateLimit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %q", v)
		}
	} else {
		cfg.RateLimit = 20
	}

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.Login.MaxAttempts, err = intEnv("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.Login.Window, err = durationEnv("LOGIN_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}

	cfg.Kafka.Brokers = listEnv("KAFKA_BROKERS")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "sweet-events"
	}

	if cfg.WorkerCount, err = intEnv("WORKER_COUNT", 2); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %d", cfg.WorkerCount)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func listEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
