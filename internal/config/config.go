package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "paddy.yaml"

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	JWTSecret      string   `yaml:"jwt_secret"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the merged configuration. Environment variables override the
// YAML file, which overrides the defaults.
type Config struct {
	Database     DatabaseConfig `yaml:"database"`
	Server       ServerConfig   `yaml:"server"`
	OpenAI       OpenAIConfig   `yaml:"openai"`
	Kafka        KafkaConfig    `yaml:"kafka"`
	Log          LogConfig      `yaml:"log"`
	BusinessCode string         `yaml:"business_code"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxBodyBytes:   1 << 20,
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
		Kafka:  KafkaConfig{Topic: "paddy.events"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env (if present), then the YAML file named by PADDY_CONFIG
// (default paddy.yaml, optional), then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("PADDY_CONFIG")
	required := path != ""
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFile(path, required)
}

// LoadFile is Load without the .env step. A missing file is an error only
// when required is set.
func LoadFile(path string, required bool) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	overrideWithEnv(&cfg)
	return &cfg, nil
}

func overrideWithEnv(cfg *Config) {
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)
	cfg.Server.JWTSecret = getEnv("JWT_SECRET", cfg.Server.JWTSecret)
	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.BusinessCode = getEnv("BUSINESS_CODE", cfg.BusinessCode)
}

// Validate reports every missing value at once. needServer adds the HTTP-only
// requirements.
func (c *Config) Validate(needServer bool) error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if needServer {
		if c.Server.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port %d", c.Server.Port)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// KafkaEnabled reports whether events should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
