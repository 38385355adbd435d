package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/softgatehq/softgate/internal/flagx"
	"github.com/softgatehq/softgate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	CandidateBaseURLs    []string       `json:"candidate_base_urls"`
	CandidateSubmitPaths []string       `json:"candidate_submit_paths"`
	DatabasePath         string         `json:"database_path"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	ProbeTimeout         timex.Duration `json:"probe_timeout"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c or -config flags; when neither is set, nothing is
// loaded. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	// Only fields present in the file override defaults; a partial config
	// must not zero out discovery candidates or timeouts.
	if len(jc.CandidateBaseURLs) > 0 {
		cfg.CandidateBaseURLs = jc.CandidateBaseURLs
	}
	if len(jc.CandidateSubmitPaths) > 0 {
		cfg.CandidateSubmitPaths = jc.CandidateSubmitPaths
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.ProbeTimeout.Duration > 0 {
		cfg.ProbeTimeout = time.Duration(jc.ProbeTimeout.Duration)
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
