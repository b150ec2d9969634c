package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "SERVER_PORT", "ALLOWED_ORIGINS", "JWT_SECRET",
		"OPENAI_API_KEY", "OPENAI_MODEL", "KAFKA_BROKERS", "KAFKA_TOPIC", "LOG_LEVEL", "LOG_FORMAT", "BUSINESS_CODE"} {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paddy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_MissingOptionalFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "paddy.events", cfg.Kafka.Topic)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadFile_MissingRequiredFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoadFile_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
database:
  url: postgres://file/db
server:
  port: 9000
  jwt_secret: from-file
kafka:
  brokers: [broker-a:9092]
log:
  format: json
business_code: ACME
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/db", cfg.Database.URL)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ":9100", cfg.HTTPAddr())
	assert.Equal(t, "from-file", cfg.Server.JWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "ACME", cfg.BusinessCode)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoadFile_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "server: [not a map")

	_, err := LoadFile(path, true)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	err := cfg.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Database.URL = "postgres://x"
	assert.NoError(t, cfg.Validate(false), "the CLI does not need a JWT secret")

	cfg.Server.JWTSecret = "s"
	assert.NoError(t, cfg.Validate(true))

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate(true))
}
