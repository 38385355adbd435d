package analysis

import (
	"context"
	"fmt"

	"github.com/softgatehq/softgate/internal/decision"
)

// Report is the outcome of one automated analysis.
type Report struct {
	Answers decision.Answers
	// Narrative is the raw assessment text the answers were extracted from.
	Narrative string
	// Confidence (0–100) gates whether the verdict auto-applies or falls
	// back to human review. It carries no other business meaning.
	Confidence int
	Approved   bool
	RiskScore  int
	Reason     string
}

// Screener runs the full pre-screening pipeline: prompt building, inference,
// answer extraction, and the deterministic decision.
type Screener struct {
	inferrer Inferrer
	catalog  *decision.Catalog
}

func NewScreener(inferrer Inferrer, catalog *decision.Catalog) *Screener {
	return &Screener{inferrer: inferrer, catalog: catalog}
}

// Analyze evaluates the software metadata. A backend failure is returned as
// an error; it is never converted into an approval or denial.
//
// Approved is always computed by feeding the extracted answers through the
// decision engine, regardless of what the narrative itself claims.
func (s *Screener) Analyze(ctx context.Context, info SoftwareInfo) (*Report, error) {
	prompt := BuildPrompt(info, s.catalog)

	narrative, err := s.inferrer.Infer(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis did not complete: %w", err)
	}

	answers := parseAnswers(narrative, s.catalog)
	confidence := parseConfidence(narrative, answers)
	outcome := s.catalog.Decide(answers)

	return &Report{
		Answers:    answers,
		Narrative:  narrative,
		Confidence: confidence,
		Approved:   outcome.Approved,
		RiskScore:  outcome.RiskScore,
		Reason:     outcome.Reason,
	}, nil
}
