package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":           "www.example:9000",
		"database_dsn":            "postgres://example/softgate",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "45m",
		"redis_addr":              "redis:6379",
		"cache_ttl":               "2m",
		"kafka_brokers":           []string{"kafka-1:9092", "kafka-2:9092"},
		"kafka_topic":             "decisions",
		"inference_endpoint":      "http://inference:8500/v1/infer",
		"inference_api_key":       "inf-key",
		"inference_timeout":       "15s",
		"catalog_path":            "/etc/softgate/catalog.yaml",
		"auto_screen":             true,
		"confidence_gate":         85,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "postgres://example/softgate", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 45*time.Minute, cfg.TokenValidityDuration)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "decisions", cfg.KafkaTopic)
		assert.Equal(t, "http://inference:8500/v1/infer", cfg.InferenceEndpoint)
		assert.Equal(t, "inf-key", cfg.InferenceAPIKey)
		assert.Equal(t, 15*time.Second, cfg.InferenceTimeout)
		assert.Equal(t, "/etc/softgate/catalog.yaml", cfg.CatalogPath)
		assert.True(t, cfg.AutoScreen)
		assert.Equal(t, 85, cfg.ConfidenceGate)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddr:          "defaults:1234",
			DatabaseDSN:           "postgres://defaults",
			SecretKey:             "key",
			TokenValidityDuration: 2 * time.Minute,
			RedisAddr:             "localhost:6379",
			CacheTTL:              time.Minute,
			KafkaTopic:            "topic",
			ConfidenceGate:        70,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddr)
		assert.Equal(t, "postgres://defaults", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.TokenValidityDuration)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, time.Minute, cfg.CacheTTL)
		assert.Equal(t, "topic", cfg.KafkaTopic)
		assert.Equal(t, 70, cfg.ConfidenceGate)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"database_dsn": "postgres://prod/softgate",
			"auto_screen":  false,
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "postgres://prod/softgate", cfg.DatabaseDSN)
		assert.Equal(t, ":8338", cfg.EndpointAddr)
		assert.Equal(t, 60*time.Minute, cfg.TokenValidityDuration)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Equal(t, "softgate.decisions", cfg.KafkaTopic)
		assert.Equal(t, 80, cfg.ConfidenceGate)
		// An explicit false is honored; only an absent key keeps the default.
		assert.False(t, cfg.AutoScreen)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
