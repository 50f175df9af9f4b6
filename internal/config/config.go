package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultGeminiModel    = "gemini-2.5-pro"

	// MaxTopK is the largest number of matches a single request may return.
	MaxTopK = 5
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Inference InferenceConfig `yaml:"inference"`
	Events    EventsConfig    `yaml:"events"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port               int `yaml:"port"`
	MetricsPort        int `yaml:"metrics_port"`
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// CatalogConfig selects where the read-only catalog snapshot is loaded from:
// "file", "s3" or "postgres".
type CatalogConfig struct {
	Source           string   `yaml:"source"`
	ScholarshipsPath string   `yaml:"scholarships_path"`
	NarrativesPath   string   `yaml:"narratives_path"`
	DatabaseURL      string   `yaml:"database_url"`
	S3               S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKey       string `yaml:"access_key"`
	SecretKey       string `yaml:"secret_key"`
	ScholarshipsKey string `yaml:"scholarships_key"`
	NarrativesKey   string `yaml:"narratives_key"`
}

// InferenceConfig selects the language model backend: "anthropic" or "gemini".
type InferenceConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"base_url"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	GoogleAPIKey    string `yaml:"google_api_key"`
	TimeoutMs       int    `yaml:"timeout_ms"`
	MaxTokens       int    `yaml:"max_tokens"`
}

type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
}

type RankingConfig struct {
	TopK int `yaml:"top_k"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) InferenceTimeout() time.Duration {
	return time.Duration(c.Inference.TimeoutMs) * time.Millisecond
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and finally NORTHSTAR_* environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Catalog: CatalogConfig{
			Source:           "file",
			ScholarshipsPath: "data/scholarships.json",
			NarrativesPath:   "data/success_stories.json",
			S3: S3Config{
				Region:          "auto",
				ScholarshipsKey: "scholarships.json",
				NarrativesKey:   "success_stories.json",
			},
		},
		Inference: InferenceConfig{
			Provider:  "anthropic",
			TimeoutMs: 60000,
			MaxTokens: 1024,
		},
		Ranking: RankingConfig{
			TopK: MaxTopK,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)
	cfg.Inference.Model = resolveModel(cfg.Inference.Provider, cfg.Inference.Model)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and unusable ports.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("invalid port configuration: %d/%d", c.Server.Port, c.Server.MetricsPort)
	}
	switch c.Catalog.Source {
	case "file", "s3", "postgres":
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Inference.Provider {
	case "anthropic", "gemini":
	default:
		return fmt.Errorf("unknown inference provider %q", c.Inference.Provider)
	}
	if c.Ranking.TopK <= 0 || c.Ranking.TopK > MaxTopK {
		return fmt.Errorf("ranking.top_k must be between 1 and %d, got %d", MaxTopK, c.Ranking.TopK)
	}
	return nil
}

// resolveModel fills in the provider's default when no model was configured.
func resolveModel(provider, model string) string {
	if model != "" {
		return model
	}
	switch provider {
	case "gemini":
		return DefaultGeminiModel
	case "anthropic":
		return DefaultAnthropicModel
	}
	return ""
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NORTHSTAR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("NORTHSTAR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("NORTHSTAR_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("NORTHSTAR_SCHOLARSHIPS_PATH"); v != "" {
		cfg.Catalog.ScholarshipsPath = v
	}
	if v := os.Getenv("NORTHSTAR_NARRATIVES_PATH"); v != "" {
		cfg.Catalog.NarrativesPath = v
	}
	if v := os.Getenv("NORTHSTAR_DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("NORTHSTAR_S3_BUCKET"); v != "" {
		cfg.Catalog.S3.Bucket = v
	}
	if v := os.Getenv("NORTHSTAR_S3_ENDPOINT"); v != "" {
		cfg.Catalog.S3.Endpoint = v
	}
	if v := os.Getenv("NORTHSTAR_S3_ACCESS_KEY"); v != "" {
		cfg.Catalog.S3.AccessKey = v
	}
	if v := os.Getenv("NORTHSTAR_S3_SECRET_KEY"); v != "" {
		cfg.Catalog.S3.SecretKey = v
	}
	if v := os.Getenv("NORTHSTAR_INFERENCE_PROVIDER"); v != "" {
		cfg.Inference.Provider = v
	}
	if v := os.Getenv("NORTHSTAR_INFERENCE_MODEL"); v != "" {
		cfg.Inference.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Inference.AnthropicAPIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Inference.GoogleAPIKey = v
	}
	if v := os.Getenv("NORTHSTAR_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("NORTHSTAR_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.TopK = n
		}
	}
	if v := os.Getenv("NORTHSTAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
