package llm

import (
	"context"
	"strings"
)

// MockClient returns canned JSON for demo mode (no API key configured) and
// tests. The payloads mirror the fixed placeholder data used by the fallback
// path so demo output is recognizable as such.
type MockClient struct {
	// ExtractResponse and RewriteResponse override the canned payloads when set.
	ExtractResponse string
	RewriteResponse string
	// Err, when set, is returned from every call.
	Err error

	Calls int
}

const mockRequirementsJSON = `{
  "must_have_skills": ["JavaScript", "React", "Node.js"],
  "nice_to_have_skills": ["TypeScript", "AWS"],
  "hard_requirements": ["3+ years experience", "Bachelor's degree"],
  "role_keywords": ["frontend", "web development", "user interface"],
  "seniority": "mid",
  "domain": "tech"
}`

const mockResultJSON = `{
  "score": 75,
  "gaps": ["Missing experience with TypeScript", "No AWS cloud experience mentioned"],
  "missing_keywords": ["TypeScript", "AWS", "Agile", "CI/CD", "Docker"],
  "rewritten_bullets": [
    "Developed responsive web applications using React and JavaScript, improving user engagement by 25%",
    "Collaborated with cross-functional teams to deliver 3 major features on time and within budget"
  ],
  "professional_summary": "Experienced developer with a track record of delivering responsive web applications.",
  "cover_letter": "I am excited to apply for this position. With my experience in React and JavaScript, I have delivered multiple web applications that improved user engagement.",
  "ats_keywords": ["JavaScript", "React", "HTML", "CSS", "Git", "Agile"],
  "notes": ["Consider adding more specific metrics to quantify achievements"]
}`

func (m *MockClient) Model() string {
	return "mock"
}

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.Calls++

	if m.Err != nil {
		return nil, m.Err
	}

	content := mockResultJSON
	if strings.Contains(req.UserPrompt, "job requirements") {
		content = mockRequirementsJSON
		if m.ExtractResponse != "" {
			content = m.ExtractResponse
		}
	} else if m.RewriteResponse != "" {
		content = m.RewriteResponse
	}

	return &CompletionResponse{
		Content: content,
		Usage:   TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}
