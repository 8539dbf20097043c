package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// defaultTokenTTL matches the validity window of both session and reset
// tokens when TOKEN_TTL is not set.
const defaultTokenTTL = time.Hour

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	TokenTTL     time.Duration
	ResetBaseURL string
	SwaggerHost  string
}

// Load builds Config from environment. The JWT secret has no default on
// purpose: running with a known signing key is worse than not starting.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	ttl := defaultTokenTTL
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("TOKEN_TTL must be a valid duration, e.g. 1h")
		}
		ttl = parsed
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    secret,
		TokenTTL:     ttl,
		ResetBaseURL: getEnv("RESET_BASE_URL", "http://localhost:5500"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
