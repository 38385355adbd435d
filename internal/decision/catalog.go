// Package decision implements the deterministic risk-scoring engine that
// turns a set of categorical questionnaire answers into an approve/deny
// outcome. The engine is pure: no I/O, no state, no failure path.
package decision

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionID identifies a catalog question.
type QuestionID string

// Catalog question ids. The three critical questions trigger automatic
// rejection on a specific answer; the remaining five contribute integer
// weights to the risk score.
const (
	QPrivacyPolicy          QuestionID = "privacy_policy"
	QActiveVulnerabilities  QuestionID = "active_vulnerabilities"
	QTrojanizedVersions     QuestionID = "trojanized_versions"
	QDeveloperReputation    QuestionID = "developer_reputation"
	QUpdateFrequency        QuestionID = "update_frequency"
	QSecurityCertifications QuestionID = "security_certifications"
	QPatchedVulnHistory     QuestionID = "patched_vuln_history"
	QSourceAvailability     QuestionID = "source_availability"
)

// Answers maps question ids to categorical answer values ("yes", "no",
// "unknown", "major_company", ...).
type Answers map[QuestionID]string

// Question describes one catalog entry. Critical questions carry a RejectOn
// value; weighted questions carry a weight table and a Default weight applied
// to missing or unrecognized answers. The Default must never be more
// favorable than the question's "unknown" option.
type Question struct {
	ID       QuestionID     `yaml:"id"`
	Text     string         `yaml:"text"`
	Critical bool           `yaml:"critical,omitempty"`
	RejectOn string         `yaml:"reject_on,omitempty"`
	Weights  map[string]int `yaml:"weights,omitempty"`
	Default  int            `yaml:"default,omitempty"`
}

// Catalog is an ordered list of questions. Order matters: critical questions
// are evaluated in catalog order.
type Catalog struct {
	Questions []Question `yaml:"questions"`
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog parses the embedded question catalog.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is validated by tests; a parse failure here
		// is a build defect.
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parseCatalog(b)
}

func parseCatalog(b []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Questions) == 0 {
		return nil, fmt.Errorf("parse catalog: no questions")
	}
	for _, q := range c.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("parse catalog: question without id")
		}
		if q.Critical && q.RejectOn == "" {
			return nil, fmt.Errorf("parse catalog: critical question %q without reject_on", q.ID)
		}
	}
	return c, nil
}

// Question returns the catalog entry with the given id, or nil.
func (c *Catalog) Question(id QuestionID) *Question {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i]
		}
	}
	return nil
}
