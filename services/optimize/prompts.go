package optimize

import (
	"encoding/json"
	"fmt"
)

func extractSystemPrompt(role string) string {
	if role == "" {
		role = "general position"
	}
	return fmt.Sprintf(`You are a meticulous hiring assistant for the role: %s.
Be ATS-aware and concise.`, role)
}

func extractUserPrompt(jobAdText string) string {
	return fmt.Sprintf(`Extract job requirements from the job ad and return ONLY valid JSON in this exact format:
{
 "must_have_skills": ["skill1", "skill2"],
 "nice_to_have_skills": ["skill1", "skill2"],
 "hard_requirements": ["requirement1", "requirement2"],
 "role_keywords": ["keyword1", "keyword2"],
 "seniority": "junior",
 "domain": "tech"
}

Rules:
- Return ONLY the JSON object, no other text
- Do not invent or infer unstated requirements
- Keep arrays to max 10 items for must_have_skills, max 8 for nice_to_have_skills, max 25 for role_keywords
- seniority must be exactly "junior", "mid", or "senior"
- domain should be one word like "tech", "healthcare", "finance"

Job ad:
%s`, jobAdText)
}

const rewriteSystemPrompt = `You are an honest, precise resume optimizer.
NEVER invent experience, employers, or dates. Suggest truthful rephrasings.`

func rewriteUserPrompt(resumeText string, requirements *JobRequirements) string {
	reqJSON, _ := json.MarshalIndent(requirements, "", "  ")
	return fmt.Sprintf(`Compare this resume to requirements and return ONLY valid JSON in this exact format:
{
 "score": 85,
 "gaps": ["gap1", "gap2"],
 "missing_keywords": ["keyword1", "keyword2"],
 "rewritten_bullets": ["bullet1", "bullet2"],
 "professional_summary": "summary text here",
 "cover_letter": "cover letter text here",
 "ats_keywords": ["keyword1", "keyword2"],
 "notes": ["note1", "note2"]
}

Rules:
- Return ONLY the JSON object, no other text
- score must be 0-100 integer
- All arrays should have 2-10 items
- Bullets must be <=28 words each
- Include metrics when possible (%%, #, time)
- If no metric exists, use proxy ("reduced rework from frequent to weekly")
- professional_summary: 3-4 lines, role-specific
- cover_letter: 120-180 words, references 2-3 must-have skills
- ats_keywords: 15-25 deduped items
- notes: flag ambiguous or risky claims

Resume:
%s

Requirements:
%s`, resumeText, string(reqJSON))
}
