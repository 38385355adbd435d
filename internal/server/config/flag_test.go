package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "30", "-r", "redis:6379", "-k", "kafka-1:9092,kafka-2:9092",
			"-o", "decisions", "-i", "http://inference:8500/v1/infer", "-g", "90",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:          "127.0.0.1:9090",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: 30 * time.Minute,
				RedisAddr:             "redis:6379",
				KafkaBrokers:          []string{"kafka-1:9092", "kafka-2:9092"},
				KafkaTopic:            "decisions",
				InferenceEndpoint:     "http://inference:8500/v1/infer",
				ConfidenceGate:        90,
			}},
		{name: "Test2 empty brokers stay nil", args: []string{"cmd",
			"-a", ":8338",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr: ":8338",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
