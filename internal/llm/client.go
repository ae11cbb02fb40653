package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// Client is a textual reasoning service: prompt in, text (usually JSON) out.
// It is stateless; latency and failure modes are the whole contract.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool
}

type CompletionResponse struct {
	Content string
	Usage   TokenUsage
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// ErrQuotaExceeded marks quota/billing-class upstream failures. These are not
// retried; callers switch to their fallback path instead.
var ErrQuotaExceeded = errors.New("llm: quota exceeded")

var quotaMarkers = []string{
	"quota",
	"billing",
	"429",
	"insufficient_quota",
}

// IsQuotaError reports whether err looks like a quota/billing rejection from
// the upstream provider, matching the known error substrings.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// DecodeJSON unmarshals LLM output into v. Models occasionally emit JSON with
// trailing prose, unquoted keys or truncated braces; jsonrepair recovers the
// common cases before we give up.
func DecodeJSON(content string, v any) error {
	trimmed := strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}
