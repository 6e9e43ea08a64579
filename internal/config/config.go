// Package config provides configuration loading for the evaluation service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lms-evaluation/internal/storage"
	"lms-evaluation/internal/summary"
)

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Queue   QueueConfig   `yaml:"queue"`
	Log     LogConfig     `yaml:"log"`
	// RubricFile replaces the built-in rubric when set
	RubricFile string `yaml:"rubric_file"`
}

type ServerConfig struct {
	// Addr is the listen address (default: :8000)
	Addr string `yaml:"addr"`
	// SaveDelay is the pause before a saved evaluation is handed over
	SaveDelay time.Duration `yaml:"save_delay"`
}

type StorageConfig struct {
	// Driver is one of file, s3, postgres, sqlite
	Driver string   `yaml:"driver"`
	Path   string   `yaml:"path"`
	DSN    string   `yaml:"dsn"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type AIConfig struct {
	// Provider is gemini or openai
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	// Timeout bounds one summary call; 0 leaves it to the transport
	Timeout time.Duration `yaml:"timeout"`
}

type QueueConfig struct {
	// RedisAddr enables queued summaries when set
	RedisAddr string `yaml:"redis_addr"`
	Queue     string `yaml:"queue"`
	// PollInterval is how often the API checks a queued summary
	PollInterval time.Duration `yaml:"poll_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8000",
			SaveDelay: 500 * time.Millisecond,
		},
		Storage: StorageConfig{
			Driver: storage.DriverFile,
			Path:   storage.DefaultKey + ".json",
		},
		AI: AIConfig{
			Provider: summary.ProviderGemini,
		},
		Queue: QueueConfig{
			Queue:        "default",
			PollInterval: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.SaveDelay < 0 {
		return fmt.Errorf("server.save_delay must not be negative")
	}
	switch c.Storage.Driver {
	case storage.DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file driver")
		}
	case storage.DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	case storage.DriverPostgres, storage.DriverSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.AI.Provider {
	case summary.ProviderGemini, summary.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}
	if c.Queue.RedisAddr != "" && c.Queue.PollInterval <= 0 {
		return fmt.Errorf("queue.poll_interval must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// StorageOptions converts the storage section for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver: c.Storage.Driver,
		Path:   c.Storage.Path,
		DSN:    c.Storage.DSN,
		S3: storage.S3Config{
			Endpoint:  c.Storage.S3.Endpoint,
			Bucket:    c.Storage.S3.Bucket,
			AccessKey: c.Storage.S3.AccessKey,
			SecretKey: c.Storage.S3.SecretKey,
			Region:    c.Storage.S3.Region,
			Key:       c.Storage.S3.Key,
			UseSSL:    c.Storage.S3.UseSSL,
		},
	}
}

// GeneratorConfig converts the ai section for summary.NewGenerator.
func (c *Config) GeneratorConfig() summary.GeneratorConfig {
	return summary.GeneratorConfig{
		Provider: c.AI.Provider,
		Model:    c.AI.Model,
		APIKey:   c.AI.APIKey,
		BaseURL:  c.AI.BaseURL,
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
