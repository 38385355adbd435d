package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/softgatehq/softgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8338")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      reviewer token validity, minutes
//	-r string   Redis address (empty disables the Redis cache)
//	-k string   Kafka brokers, comma-separated (empty disables Kafka)
//	-o string   Kafka topic for decision events
//	-i string   inference backend endpoint (empty selects local analysis)
//	-g int      confidence gate for automated decisions
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-k", "-o", "-i", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	kafkaBrokers := fs.String("k", strings.Join(config.KafkaBrokers, ","), "kafka brokers (comma-separated)")

	fs.StringVar(&config.KafkaTopic, "o", config.KafkaTopic, "kafka topic for decision events")
	fs.StringVar(&config.InferenceEndpoint, "i", config.InferenceEndpoint, "inference backend endpoint")
	fs.IntVar(&config.ConfidenceGate, "g", config.ConfidenceGate, "confidence gate for automated decisions")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute

	if *kafkaBrokers == "" {
		config.KafkaBrokers = nil
	} else {
		config.KafkaBrokers = strings.Split(*kafkaBrokers, ",")
	}
}
