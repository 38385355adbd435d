package decision

import (
	"fmt"
	"strings"
)

// ApprovalThreshold is the strict upper bound for an approvable risk score.
const ApprovalThreshold = 5

// Outcome is the result of evaluating a set of answers against the catalog.
type Outcome struct {
	Approved  bool
	RiskScore int
	// Reason is set when a critical question forced rejection.
	Reason string
}

// Decide evaluates answers against the catalog and returns an Outcome.
//
// Critical questions are checked first, in catalog order; any one of them
// answered with its rejecting value denies the request immediately. A missing
// or unrecognized answer to a critical question also denies: the engine fails
// closed rather than guessing.
//
// Remaining questions contribute integer weights summed into a risk score;
// missing or unrecognized answers take the question's Default weight (its
// most conservative documented value). Approval requires the score to be
// strictly below ApprovalThreshold.
//
// Decide is total: it never fails, regardless of input.
func (c *Catalog) Decide(answers Answers) Outcome {
	score := 0

	for _, q := range c.Questions {
		value := normalize(answers[q.ID])

		if q.Critical {
			// Fail closed: only the one safe answer passes. Anything
			// else denies, including a missing answer.
			if value != safeAnswer(q.RejectOn) {
				return Outcome{
					Approved: false,
					Reason:   fmt.Sprintf("%s answered %s", q.ID, orMissing(value)),
				}
			}
			continue
		}

		w, ok := q.Weights[value]
		if !ok {
			w = q.Default
		}
		score += w
	}

	return Outcome{Approved: score < ApprovalThreshold, RiskScore: score}
}

// safeAnswer returns the only answer value that passes a critical check.
func safeAnswer(rejectOn string) string {
	if rejectOn == "no" {
		return "yes"
	}
	return "no"
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func orMissing(v string) string {
	if v == "" {
		return "(missing)"
	}
	return v
}
