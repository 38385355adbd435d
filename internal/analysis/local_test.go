package analysis

import (
	"context"
	"testing"

	"github.com/softgatehq/softgate/internal/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskFactors(t *testing.T) {
	tests := []struct {
		name    string
		info    SoftwareInfo
		factors int
	}{
		{
			name: "clean",
			info: SoftwareInfo{
				Name: "Blender", Version: "4.2.1",
				DownloadSource: "https://www.blender.org",
				SHA256:         "abc", MD5: "def",
			},
			factors: 0,
		},
		{
			name:    "risky name and no source",
			info:    SoftwareInfo{Name: "photoshop-crack", SHA256: "abc", MD5: "def"},
			factors: 3,
		},
		{
			name: "suspicious source",
			info: SoftwareInfo{
				Name: "VLC", DownloadSource: "http://warez.example.com",
				SHA256: "abc", MD5: "def",
			},
			factors: 1,
		},
		{
			name: "missing hashes and legacy version",
			info: SoftwareInfo{
				Name: "WinZip", Version: "8.0 (2003 legacy)",
				DownloadSource: "https://example.com",
			},
			factors: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := riskFactors(
				orNotSpecified(tc.info.Name),
				orNotSpecified(tc.info.Version),
				orNotSpecified(tc.info.DownloadSource),
				orNotSpecified(tc.info.SHA256),
				orNotSpecified(tc.info.MD5),
			)
			assert.Equal(t, tc.factors, got)
		})
	}
}

func TestLocalInferrer_NegativeNarrative(t *testing.T) {
	catalog := decision.DefaultCatalog()
	s := NewScreener(NewLocalInferrer(catalog), catalog)

	report, err := s.Analyze(context.Background(), SoftwareInfo{
		Name: "office-crack-2019",
		// download source deliberately unspecified
	})
	require.NoError(t, err)

	assert.False(t, report.Approved)
	assert.GreaterOrEqual(t, report.Confidence, 90)
	assert.Equal(t, "no", report.Answers[decision.QPrivacyPolicy])
	assert.Equal(t, "yes", report.Answers[decision.QActiveVulnerabilities])
	assert.NotEmpty(t, report.Reason)
}

func TestLocalInferrer_PositiveNarrative(t *testing.T) {
	catalog := decision.DefaultCatalog()
	s := NewScreener(NewLocalInferrer(catalog), catalog)

	report, err := s.Analyze(context.Background(), SoftwareInfo{
		Name:           "Visual Studio Code",
		Version:        "1.92.0",
		DownloadSource: "https://code.visualstudio.com",
		SHA256:         "aa11",
		MD5:            "bb22",
	})
	require.NoError(t, err)

	assert.True(t, report.Approved)
	assert.Equal(t, 0, report.RiskScore)
	assert.Equal(t, positiveConfidence, report.Confidence)
	assert.Equal(t, "yes", report.Answers[decision.QPrivacyPolicy])
	assert.Equal(t, "major_company", report.Answers[decision.QDeveloperReputation])
}

// Same narrative, same verdict, every time.
func TestLocalInferrer_Deterministic(t *testing.T) {
	catalog := decision.DefaultCatalog()
	inf := NewLocalInferrer(catalog)
	prompt := BuildPrompt(SoftwareInfo{Name: "keygen-studio"}, catalog)

	first, err := inf.Infer(context.Background(), prompt)
	require.NoError(t, err)
	second, err := inf.Infer(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
