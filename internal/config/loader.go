package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfigFile names the config file when no --config flag is given.
const EnvConfigFile = "LMSEVAL_CONFIG"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. YAML file (path argument, else $LMSEVAL_CONFIG)
// 3. .env file in the working directory, if present
// 4. Environment variables
func (l *Loader) Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Failed to load .env", slog.String("error", err.Error()))
	}

	if path == "" {
		path = l.getenv(EnvConfigFile)
	}
	config := DefaultConfig()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config = fileConfig
	}

	if err := l.applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// applyEnv overrides config values with any set environment variables.
func (l *Loader) applyEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v := l.getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := l.getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("LMSEVAL_ADDR", &c.Server.Addr)
	str("LMSEVAL_STORAGE", &c.Storage.Driver)
	str("LMSEVAL_DATA_FILE", &c.Storage.Path)
	str("DATABASE_URL", &c.Storage.DSN)
	str("MINIO_ENDPOINT", &c.Storage.S3.Endpoint)
	str("MINIO_BUCKET", &c.Storage.S3.Bucket)
	str("MINIO_ACCESS_KEY", &c.Storage.S3.AccessKey)
	str("MINIO_SECRET_KEY", &c.Storage.S3.SecretKey)
	if v := l.getenv("MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		c.Storage.S3.UseSSL = b
	}
	str("API_KEY", &c.AI.APIKey)
	str("AI_PROVIDER", &c.AI.Provider)
	str("AI_MODEL", &c.AI.Model)
	str("AI_BASE_URL", &c.AI.BaseURL)
	str("REDIS_ADDR", &c.Queue.RedisAddr)
	str("RUBRIC_FILE", &c.RubricFile)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	c.AI.Provider = strings.ToLower(c.AI.Provider)

	if err := dur("LMSEVAL_SAVE_DELAY", &c.Server.SaveDelay); err != nil {
		return err
	}
	return dur("AI_TIMEOUT", &c.AI.Timeout)
}

// NewLogger builds the slog logger described by the log section.
func NewLogger(c LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
