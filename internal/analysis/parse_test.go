package analysis

import (
	"strings"
	"testing"

	"github.com/softgatehq/softgate/internal/decision"
	"github.com/stretchr/testify/assert"
)

func TestParseAnswer_ExplicitMarker(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QPrivacyPolicy)

	text := strings.ToLower(q.Text + " The vendor does publish one. Answer: yes.")
	assert.Equal(t, "yes", parseAnswer(text, q))
}

func TestParseAnswer_VocabularyMarker(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QDeveloperReputation)

	text := strings.ToLower(q.Text + " Answer: major_company")
	assert.Equal(t, "major_company", parseAnswer(text, q))
}

func TestParseAnswer_MarkerOutsideVocabularyFallsBack(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QSecurityCertifications)

	// "probably" is not a valid value; the keyword fallback sees one
	// affirmative term.
	text := strings.ToLower(q.Text + " Answer: probably. It does hold several certifications. yes indeed.")
	assert.Equal(t, "yes", parseAnswer(text, q))
}

func TestParseAnswer_KeywordCounting(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QPatchedVulnHistory)

	negative := strings.ToLower(q.Text + " the vendor never patched anything, fixes were absent")
	assert.Equal(t, "no", parseAnswer(negative, q))
}

func TestParseAnswer_TieResolvesUnknown(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QSourceAvailability)

	tie := strings.ToLower(q.Text + " some say yes, others say no")
	assert.Equal(t, "unknown", parseAnswer(tie, q))
}

func TestParseAnswer_QuestionAbsent(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QTrojanizedVersions)

	assert.Equal(t, "unknown", parseAnswer("completely unrelated narrative", q))
}

func TestParseAnswer_MarkerBeyondWindowIgnored(t *testing.T) {
	catalog := decision.DefaultCatalog()
	q := *catalog.Question(decision.QPrivacyPolicy)

	padding := strings.Repeat("x ", answerWindow)
	text := strings.ToLower(q.Text + " " + padding + " answer: yes")
	assert.Equal(t, "unknown", parseAnswer(text, q))
}

func TestParseConfidence_Patterns(t *testing.T) {
	answers := decision.Answers{}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"colon form", "Overall Confidence: 93%", 93},
		{"trailing form", "I estimate 71% confidence in this result", 71},
		{"level form", "confidence level 65", 65},
		{"out of range ignored", "confidence: 250%", defaultConfidence},
		{"no match", "no numbers here", defaultConfidence},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseConfidence(tc.text, answers))
		})
	}
}

func TestParseConfidence_UnknownPenalty(t *testing.T) {
	answers := decision.Answers{
		"a": "unknown",
		"b": "unknown",
		"c": "yes",
	}
	assert.Equal(t, 70, parseConfidence("narrative without confidence", answers))

	// Floor at 60 regardless of unknown count.
	many := decision.Answers{}
	for _, id := range []decision.QuestionID{"a", "b", "c", "d", "e", "f", "g", "h"} {
		many[id] = "unknown"
	}
	assert.Equal(t, minConfidence, parseConfidence("narrative", many))
}

func TestParseAnswers_FullNarrative(t *testing.T) {
	catalog := decision.DefaultCatalog()

	var b strings.Builder
	for _, q := range catalog.Questions {
		b.WriteString(q.Text + "\nAnswer: unknown\n\n")
	}
	answers := parseAnswers(b.String(), catalog)

	assert.Len(t, answers, len(catalog.Questions))
	for id, v := range answers {
		assert.Equal(t, "unknown", v, "question %s", id)
	}
}
