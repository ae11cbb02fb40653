package optimize

import "regexp"

var (
	emailPattern = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// Redact masks emails and phone numbers before a value reaches the logs.
// Resume and job ad payloads routinely carry both.
func Redact(s string) string {
	s = emailPattern.ReplaceAllString(s, "[redacted-email]")
	s = phonePattern.ReplaceAllString(s, "[redacted-phone]")
	return s
}
