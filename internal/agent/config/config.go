// Package config handles configuration for the agent component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the SoftGate agent.
//
// Fields:
//   - CandidateBaseURLs: ordered server base URLs probed during endpoint
//     discovery; earlier entries win.
//   - CandidateSubmitPaths: ordered submission paths probed once a base is
//     known.
//   - DatabasePath: local SQLite file for captured downloads.
//   - OnlineCheckInterval: how often the background watcher probes the
//     server and refreshes pending records.
//   - ProbeTimeout: per-candidate timeout during discovery.
//   - RequestTimeout: timeout for regular API calls.
type Config struct {
	CandidateBaseURLs    []string
	CandidateSubmitPaths []string
	DatabasePath         string
	OnlineCheckInterval  time.Duration
	ProbeTimeout         time.Duration
	RequestTimeout       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CandidateBaseURLs = []string{
		"http://127.0.0.1:8338",
		"http://localhost:8338",
	}
	c.CandidateSubmitPaths = []string{
		"/api/software-requests",
		"/software-requests",
	}
	c.DatabasePath = "softgate-agent.db"
	c.OnlineCheckInterval = 30 * time.Second
	c.ProbeTimeout = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
