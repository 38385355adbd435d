package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/softgatehq/softgate/internal/decision"
)

// answerWindow bounds how far past a question's text the parser looks for an
// answer before giving up.
const answerWindow = 320

var answerMarker = regexp.MustCompile(`(?i)answer\s*[:=]\s*([a-z_]+)`)

// affirmativeTerms and negativeTerms drive the keyword fallback when a
// narrative lacks an explicit answer marker.
var affirmativeTerms = []string{"yes", "does", "present", "confirmed", "available", "active"}
var negativeTerms = []string{"no", "not", "none", "absent", "never", "lacks"}

// parseAnswers extracts one answer per catalog question from a narrative.
//
// For each question the parser locates the question text, then inspects a
// bounded window of the following text for an explicit "Answer: value"
// marker; values outside the question's vocabulary fall back to counting
// affirmative versus negative keywords within the window. Ties and absent
// questions resolve to "unknown".
func parseAnswers(text string, catalog *decision.Catalog) decision.Answers {
	answers := make(decision.Answers, len(catalog.Questions))
	lower := strings.ToLower(text)

	for _, q := range catalog.Questions {
		answers[q.ID] = parseAnswer(lower, q)
	}
	return answers
}

func parseAnswer(lowerText string, q decision.Question) string {
	idx := strings.Index(lowerText, strings.ToLower(q.Text))
	if idx < 0 {
		return "unknown"
	}

	start := idx + len(q.Text)
	end := start + answerWindow
	if end > len(lowerText) {
		end = len(lowerText)
	}
	window := lowerText[start:end]

	if m := answerMarker.FindStringSubmatch(window); m != nil {
		value := m[1]
		if validAnswer(value, q) {
			return value
		}
	}

	return keywordVerdict(window)
}

// validAnswer reports whether value belongs to the question's vocabulary.
func validAnswer(value string, q decision.Question) bool {
	if value == "yes" || value == "no" || value == "unknown" {
		return true
	}
	_, ok := q.Weights[value]
	return ok
}

func keywordVerdict(window string) string {
	affirmative, negative := 0, 0
	for _, w := range strings.FieldsFunc(window, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		for _, t := range affirmativeTerms {
			if w == t {
				affirmative++
			}
		}
		for _, t := range negativeTerms {
			if w == t {
				negative++
			}
		}
	}

	switch {
	case affirmative > negative:
		return "yes"
	case negative > affirmative:
		return "no"
	default:
		return "unknown"
	}
}

// confidencePatterns are tried in order; the first match wins.
var confidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)confidence\s*[:=]?\s*(\d{1,3})\s*%`),
	regexp.MustCompile(`(?i)(\d{1,3})\s*%\s*confidence`),
	regexp.MustCompile(`(?i)confidence\s+level\s*[:=]?\s*(\d{1,3})`),
}

const (
	defaultConfidence = 80
	minConfidence     = 60
	unknownPenalty    = 5
)

// parseConfidence extracts a 0–100 confidence value from the narrative. When
// no pattern matches, it starts from 80 and subtracts 5 per "unknown" answer,
// never going below 60.
func parseConfidence(text string, answers decision.Answers) int {
	for _, p := range confidencePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			v, err := strconv.Atoi(m[1])
			if err == nil && v >= 0 && v <= 100 {
				return v
			}
		}
	}

	unknowns := 0
	for _, v := range answers {
		if v == "unknown" {
			unknowns++
		}
	}

	confidence := defaultConfidence - unknowns*unknownPenalty
	if confidence < minConfidence {
		confidence = minConfidence
	}
	return confidence
}
