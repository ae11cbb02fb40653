package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumeforge/internal/llm"
	"resumeforge/pkg/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Temperature = 0.2
	cfg.LLM.MaxTokens = 2000
	cfg.Credits.OptimizeCost = 5
	cfg.Credits.ExportCost = 1
	return cfg
}

func testRequest() *OptimizeRequest {
	return &OptimizeRequest{
		ResumeText: "Built web apps with React.",
		JobAdText:  "Looking for a frontend developer with React experience.",
		Role:       "Frontend Developer",
	}
}

func TestRunProducesResult(t *testing.T) {
	mock := &llm.MockClient{}
	o := NewOrchestrator(mock, testConfig())

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.False(t, result.Placeholder)
	require.Equal(t, 75, result.Score)
	require.NotEmpty(t, result.RewrittenBullets)
	require.Equal(t, 2, mock.Calls)
}

func TestRunClampsScoreAbove(t *testing.T) {
	mock := &llm.MockClient{RewriteResponse: `{"score": 150, "gaps": [], "missing_keywords": [], "rewritten_bullets": [], "professional_summary": "", "cover_letter": "", "ats_keywords": [], "notes": []}`}
	o := NewOrchestrator(mock, testConfig())

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, 100, result.Score)
}

func TestRunClampsScoreBelow(t *testing.T) {
	mock := &llm.MockClient{RewriteResponse: `{"score": -10}`}
	o := NewOrchestrator(mock, testConfig())

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, 0, result.Score)
}

func TestRunQuotaFallsBackToPlaceholder(t *testing.T) {
	mock := &llm.MockClient{Err: llm.ErrQuotaExceeded}
	o := NewOrchestrator(mock, testConfig())

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.True(t, result.Placeholder)
	require.Equal(t, 75, result.Score)
}

func TestExtractParseFailureIsAnError(t *testing.T) {
	mock := &llm.MockClient{ExtractResponse: `not json at all`}
	o := NewOrchestrator(mock, testConfig())

	_, err := o.Run(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrRequirementsParse)
}

func TestRewriteParseFailureFallsBack(t *testing.T) {
	mock := &llm.MockClient{RewriteResponse: `resume looks great, ship it`}
	o := NewOrchestrator(mock, testConfig())

	result, err := o.Run(context.Background(), testRequest())
	require.NoError(t, err)
	require.True(t, result.Placeholder)
}

func TestExtractNormalizesRequirements(t *testing.T) {
	mock := &llm.MockClient{ExtractResponse: `{
		"must_have_skills": ["a","b","c","d","e","f","g","h","i","j","k","l"],
		"nice_to_have_skills": [],
		"hard_requirements": [],
		"role_keywords": [],
		"seniority": "principal",
		"domain": ""
	}`}
	o := NewOrchestrator(mock, testConfig())

	requirements, err := o.ExtractRequirements(context.Background(), "job ad", "")
	require.NoError(t, err)
	require.Len(t, requirements.MustHaveSkills, 10)
	require.Equal(t, "mid", requirements.Seniority)
	require.Equal(t, "general", requirements.Domain)
}

func TestRedact(t *testing.T) {
	in := "Contact jane.doe@example.com or +1 (555) 123-4567 for details"
	out := Redact(in)
	require.NotContains(t, out, "jane.doe@example.com")
	require.NotContains(t, out, "555")
	require.Contains(t, out, "[redacted-email]")
	require.Contains(t, out, "[redacted-phone]")
}
