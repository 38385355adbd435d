package decision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.Len(t, c.Questions, 8)

	// The three critical questions come first, in their fixed order.
	assert.Equal(t, QPrivacyPolicy, c.Questions[0].ID)
	assert.Equal(t, QActiveVulnerabilities, c.Questions[1].ID)
	assert.Equal(t, QTrojanizedVersions, c.Questions[2].ID)
	for _, q := range c.Questions[:3] {
		assert.True(t, q.Critical, "question %s", q.ID)
		assert.NotEmpty(t, q.RejectOn, "question %s", q.ID)
	}

	// Weighted questions must never default more favorably than "unknown".
	for _, q := range c.Questions[3:] {
		assert.False(t, q.Critical, "question %s", q.ID)
		require.NotEmpty(t, q.Weights, "question %s", q.ID)
		if unknown, ok := q.Weights["unknown"]; ok {
			assert.GreaterOrEqual(t, q.Default, unknown, "question %s", q.ID)
		}
	}
}

func TestCatalog_Question(t *testing.T) {
	c := DefaultCatalog()

	q := c.Question(QUpdateFrequency)
	require.NotNil(t, q)
	assert.Equal(t, 3, q.Weights["abandoned"])

	assert.Nil(t, c.Question("nope"))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
questions:
  - id: custom_q
    text: "Custom?"
    weights:
      "yes": 0
      "no": 2
    default: 2
`), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Questions, 1)
	assert.Equal(t, QuestionID("custom_q"), c.Questions[0].ID)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("questions: {"), 0o600))
	_, err = LoadCatalog(bad)
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("questions: []"), 0o600))
	_, err = LoadCatalog(empty)
	require.Error(t, err)

	noReject := filepath.Join(dir, "noreject.yaml")
	require.NoError(t, os.WriteFile(noReject, []byte(`
questions:
  - id: q
    critical: true
`), 0o600))
	_, err = LoadCatalog(noReject)
	require.Error(t, err)
}
