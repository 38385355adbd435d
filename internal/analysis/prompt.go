package analysis

import (
	"fmt"
	"strings"

	"github.com/softgatehq/softgate/internal/decision"
)

// NotSpecified is the sentinel substituted for absent metadata fields so that
// prompt building and signal extraction never fail on partial input.
const NotSpecified = "not specified"

// SoftwareInfo is the metadata an analysis runs on.
type SoftwareInfo struct {
	Name           string
	Version        string
	DownloadSource string
	RequestedBy    string
	FileSizeBytes  int64
	SHA256         string
	MD5            string
}

func orNotSpecified(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotSpecified
	}
	return v
}

// BuildPrompt renders the software metadata and the question catalog into the
// prompt format understood by both the remote backend and the local
// heuristic.
func BuildPrompt(info SoftwareInfo, catalog *decision.Catalog) string {
	var b strings.Builder

	b.WriteString("Evaluate the risk of approving the following software download request.\n\n")
	fmt.Fprintf(&b, "Software name: %s\n", orNotSpecified(info.Name))
	fmt.Fprintf(&b, "Version: %s\n", orNotSpecified(info.Version))
	fmt.Fprintf(&b, "Download source: %s\n", orNotSpecified(info.DownloadSource))
	if info.FileSizeBytes > 0 {
		fmt.Fprintf(&b, "File size: %d bytes\n", info.FileSizeBytes)
	} else {
		fmt.Fprintf(&b, "File size: %s\n", NotSpecified)
	}
	fmt.Fprintf(&b, "SHA-256: %s\n", orNotSpecified(info.SHA256))
	fmt.Fprintf(&b, "MD5: %s\n", orNotSpecified(info.MD5))
	fmt.Fprintf(&b, "Requested by: %s\n\n", orNotSpecified(info.RequestedBy))

	b.WriteString("For each question below, restate the question and reply with \"Answer: <value>\".\n")
	for i, q := range catalog.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Text)
	}
	b.WriteString("\nFinish with an overall assessment and \"Confidence: NN%\".\n")

	return b.String()
}

// promptField extracts a "Label: value" line from semi-structured prompt
// text, returning NotSpecified when the label is absent or empty.
func promptField(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		rest, ok := strings.CutPrefix(line, label+":")
		if !ok {
			continue
		}
		return orNotSpecified(rest)
	}
	return NotSpecified
}
