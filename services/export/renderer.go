package export

import (
	"fmt"
	"strings"

	"resumeforge/services/optimize"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Renderer turns an optimization result into a downloadable document.
// The built-in implementation emits a plain-text ATS layout; a real
// docx/pdf engine plugs in here.
type Renderer interface {
	Render(result *optimize.OptimizationResult, user UserData, format string) (*Document, error)
}

type textRenderer struct{}

func NewTextRenderer() Renderer {
	return textRenderer{}
}

func (textRenderer) Render(result *optimize.OptimizationResult, user UserData, format string) (*Document, error) {
	var b strings.Builder

	b.WriteString(user.Name + "\n")
	b.WriteString(user.Email)
	if user.Phone != "" {
		b.WriteString(" • " + user.Phone)
	}
	b.WriteString("\n\n")

	b.WriteString("PROFESSIONAL SUMMARY\n")
	b.WriteString(result.ProfessionalSummary + "\n\n")

	b.WriteString("CORE SKILLS & TOOLS\n")
	b.WriteString(strings.Join(result.ATSKeywords, " • ") + "\n\n")

	b.WriteString("PROFESSIONAL EXPERIENCE\n")
	for _, bullet := range result.RewrittenBullets {
		b.WriteString("• " + bullet + "\n")
	}
	b.WriteString("\n")

	b.WriteString("COVER LETTER\n")
	b.WriteString(result.CoverLetter + "\n")

	doc := &Document{Content: []byte(b.String())}
	switch format {
	case "pdf":
		doc.ContentType = contentTypePDF
		doc.Filename = "resume.pdf"
	case "docx":
		doc.ContentType = contentTypeDocx
		doc.Filename = "resume.docx"
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	return doc, nil
}
