package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/softgatehq/softgate/internal/decision"
)

// riskyNameTerms are substrings of a software name that indicate a risky
// artifact on their own.
var riskyNameTerms = []string{
	"malware", "crack", "pirate", "keygen", "warez", "cheat", "torrent", "hack",
}

// suspiciousSourceTerms flag a download source as untrustworthy.
var suspiciousSourceTerms = []string{
	"torrent", "warez", "crack", "keygen", "rapidshare", "filehippo", "softonic",
}

var legacyYearPattern = regexp.MustCompile(`\b(19\d{2}|200\d)\b`)

// LocalInferrer is the deterministic fallback used when no inference backend
// is configured or reachable. It parses the signals back out of the prompt,
// accumulates risk factors, and emits one of two canned narratives covering
// every catalog question, so that the downstream parsing and decision path is
// identical to the remote one.
type LocalInferrer struct {
	catalog *decision.Catalog
}

func NewLocalInferrer(catalog *decision.Catalog) *LocalInferrer {
	return &LocalInferrer{catalog: catalog}
}

// riskFactors scores the prompt's extracted signals:
//
//	+2 risky term in the software name
//	+1 suspicious or unspecified download source
//	+1 both integrity hashes absent
//	+1 legacy year or legacy/deprecated wording in the version
func riskFactors(name, version, source, sha256, md5 string) int {
	factors := 0

	lowerName := strings.ToLower(name)
	for _, term := range riskyNameTerms {
		if strings.Contains(lowerName, term) {
			factors += 2
			break
		}
	}

	lowerSource := strings.ToLower(source)
	if lowerSource == NotSpecified {
		factors++
	} else {
		for _, term := range suspiciousSourceTerms {
			if strings.Contains(lowerSource, term) {
				factors++
				break
			}
		}
	}

	if sha256 == NotSpecified && md5 == NotSpecified {
		factors++
	}

	lowerVersion := strings.ToLower(version)
	if legacyYearPattern.MatchString(lowerVersion) ||
		strings.Contains(lowerVersion, "legacy") ||
		strings.Contains(lowerVersion, "deprecated") {
		factors++
	}

	return factors
}

// negativeAnswers fills every catalog question with its most damning value.
var negativeAnswers = map[decision.QuestionID]string{
	decision.QPrivacyPolicy:          "no",
	decision.QActiveVulnerabilities:  "yes",
	decision.QTrojanizedVersions:     "yes",
	decision.QDeveloperReputation:    "unknown",
	decision.QUpdateFrequency:        "unknown",
	decision.QSecurityCertifications: "no",
	decision.QPatchedVulnHistory:     "no",
	decision.QSourceAvailability:     "unknown",
}

// positiveAnswers fills every catalog question with its most favorable value.
var positiveAnswers = map[decision.QuestionID]string{
	decision.QPrivacyPolicy:          "yes",
	decision.QActiveVulnerabilities:  "no",
	decision.QTrojanizedVersions:     "no",
	decision.QDeveloperReputation:    "major_company",
	decision.QUpdateFrequency:        "frequent",
	decision.QSecurityCertifications: "yes",
	decision.QPatchedVulnHistory:     "yes",
	decision.QSourceAvailability:     "open",
}

const (
	negativeConfidence = 92
	positiveConfidence = 85
)

// Infer never fails: it always produces a narrative.
func (l *LocalInferrer) Infer(ctx context.Context, prompt string) (string, error) {
	name := promptField(prompt, "Software name")
	version := promptField(prompt, "Version")
	source := promptField(prompt, "Download source")
	sha := promptField(prompt, "SHA-256")
	md5 := promptField(prompt, "MD5")

	factors := riskFactors(name, version, source, sha, md5)

	negative := factors >= 2
	answers := positiveAnswers
	confidence := positiveConfidence
	verdict := "The available signals are consistent with a legitimate, maintained product."
	if negative {
		answers = negativeAnswers
		confidence = negativeConfidence
		verdict = "Multiple risk indicators were found; this artifact should not be installed."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Risk assessment for %s (version %s, source %s).\n", name, version, source)
	fmt.Fprintf(&b, "%s\n\n", verdict)
	for _, q := range l.catalog.Questions {
		value, ok := answers[q.ID]
		if !ok {
			value = "unknown"
		}
		fmt.Fprintf(&b, "%s\nAnswer: %s\n\n", q.Text, value)
	}
	fmt.Fprintf(&b, "Confidence: %d%%\n", confidence)

	return b.String(), nil
}
