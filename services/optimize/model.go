package optimize

// JobRequirements is the structured output of the extract stage.
type JobRequirements struct {
	MustHaveSkills   []string `json:"must_have_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	HardRequirements []string `json:"hard_requirements"`
	RoleKeywords     []string `json:"role_keywords"`
	Seniority        string   `json:"seniority"`
	Domain           string   `json:"domain"`
}

// OptimizationResult is the structured output of the rewrite stage.
// Placeholder marks fixed fallback output produced when the reasoning
// service was unavailable; such results are free.
type OptimizationResult struct {
	Score               int      `json:"score"`
	Gaps                []string `json:"gaps"`
	MissingKeywords     []string `json:"missing_keywords"`
	RewrittenBullets    []string `json:"rewritten_bullets"`
	ProfessionalSummary string   `json:"professional_summary"`
	CoverLetter         string   `json:"cover_letter"`
	ATSKeywords         []string `json:"ats_keywords"`
	Notes               []string `json:"notes"`
	Placeholder         bool     `json:"placeholder,omitempty"`
}

type OptimizeRequest struct {
	ResumeText string `json:"resumeText" binding:"required"`
	JobAdText  string `json:"jobAdText" binding:"required"`
	Role       string `json:"role"`
}

const (
	maxMustHaveSkills   = 10
	maxNiceToHaveSkills = 8
	maxRoleKeywords     = 25
)

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// normalize enforces the schema caps and defaults on model output.
func (r *JobRequirements) normalize() {
	r.MustHaveSkills = capList(r.MustHaveSkills, maxMustHaveSkills)
	r.NiceToHaveSkills = capList(r.NiceToHaveSkills, maxNiceToHaveSkills)
	r.RoleKeywords = capList(r.RoleKeywords, maxRoleKeywords)

	switch r.Seniority {
	case "junior", "mid", "senior":
	default:
		r.Seniority = "mid"
	}
	if r.Domain == "" {
		r.Domain = "general"
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
