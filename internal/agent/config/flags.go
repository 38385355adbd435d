package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/softgatehq/softgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   candidate base URLs, comma-separated, in probe order
//	-p string   candidate submission paths, comma-separated
//	-f string   path to the local SQLite database
//	-i int      online check interval in seconds
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-p", "-f", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	baseURLs := fs.String("u", strings.Join(cfg.CandidateBaseURLs, ","), "candidate base urls (comma-separated)")
	submitPaths := fs.String("p", strings.Join(cfg.CandidateSubmitPaths, ","), "candidate submit paths (comma-separated)")

	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path to the local database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *baseURLs != "" {
		cfg.CandidateBaseURLs = strings.Split(*baseURLs, ",")
	}
	if *submitPaths != "" {
		cfg.CandidateSubmitPaths = strings.Split(*submitPaths, ",")
	}
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
