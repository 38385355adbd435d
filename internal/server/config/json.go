package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/softgatehq/softgate/internal/flagx"
	"github.com/softgatehq/softgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	RedisAddr             string         `json:"redis_addr"`
	CacheTTL              timex.Duration `json:"cache_ttl"`
	KafkaBrokers          []string       `json:"kafka_brokers"`
	KafkaTopic            string         `json:"kafka_topic"`
	InferenceEndpoint     string         `json:"inference_endpoint"`
	InferenceAPIKey       string         `json:"inference_api_key"`
	InferenceTimeout      timex.Duration `json:"inference_timeout"`
	CatalogPath           string         `json:"catalog_path"`
	// Pointer so an absent key is distinguishable from an explicit false.
	AutoScreen     *bool `json:"auto_screen"`
	ConfidenceGate int   `json:"confidence_gate"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	// Only fields present in the file override defaults; a partial config
	// must not blank the listen address or zero the durations.
	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.CacheTTL.Duration > 0 {
		config.CacheTTL = time.Duration(c.CacheTTL.Duration)
	}
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.KafkaTopic != "" {
		config.KafkaTopic = c.KafkaTopic
	}
	if c.InferenceEndpoint != "" {
		config.InferenceEndpoint = c.InferenceEndpoint
	}
	if c.InferenceAPIKey != "" {
		config.InferenceAPIKey = c.InferenceAPIKey
	}
	if c.InferenceTimeout.Duration > 0 {
		config.InferenceTimeout = time.Duration(c.InferenceTimeout.Duration)
	}
	if c.CatalogPath != "" {
		config.CatalogPath = c.CatalogPath
	}
	if c.AutoScreen != nil {
		config.AutoScreen = *c.AutoScreen
	}
	if c.ConfidenceGate > 0 {
		config.ConfidenceGate = c.ConfidenceGate
	}
}
