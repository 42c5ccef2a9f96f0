package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the process configuration assembled from the environment.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogPretty bool

	StoreDriver string

	RedisURI       string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	SQLitePath  string
	DatabaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3Prefix    string

	APIToken  string
	JWTSecret string
}

var drivers = map[string]bool{
	"redis":    true,
	"sqlite":   true,
	"postgres": true,
	"s3":       true,
	"memory":   true,
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}
}

func GetEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getBool(key string, fallback bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, val)
	}
	return b, nil
}

// Load reads the environment into a Config. Call LoadEnv first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:           GetEnv("PORT", "8080"),
		GinMode:        GetEnv("GIN_MODE", "release"),
		LogLevel:       strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		StoreDriver:    strings.ToLower(GetEnv("STORE_DRIVER", "redis")),
		RedisURI:       GetEnv("REDIS_URI", "localhost:6379"),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		RedisKeyPrefix: GetEnv("REDIS_KEY_PREFIX", ""),
		SQLitePath:     GetEnv("SQLITE_PATH", "ballotboard.db"),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		S3Bucket:       GetEnv("S3_BUCKET", ""),
		S3Region:       GetEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     GetEnv("S3_ENDPOINT", ""),
		S3Prefix:       GetEnv("S3_PREFIX", ""),
		APIToken:       GetEnv("API_TOKEN", ""),
		JWTSecret:      GetEnv("JWT_SECRET", ""),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT: invalid port %q", cfg.Port)
	}
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil || db < 0 {
		return Config{}, fmt.Errorf("REDIS_DB: invalid database index %q", os.Getenv("REDIS_DB"))
	}
	cfg.RedisDB = db

	if cfg.LogPretty, err = getBool("LOG_PRETTY", false); err != nil {
		return Config{}, err
	}
	if cfg.S3PathStyle, err = getBool("S3_PATH_STYLE", false); err != nil {
		return Config{}, err
	}

	if !drivers[cfg.StoreDriver] {
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "s3" && cfg.S3Bucket == "" {
		return Config{}, fmt.Errorf("S3_BUCKET required for s3 driver")
	}
	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL required for postgres driver")
	}
	return cfg, nil
}

// AuthEnabled reports whether the /api routes require a bearer token.
func (c Config) AuthEnabled() bool {
	return c.APIToken != "" || c.JWTSecret != ""
}
