package llm

import (
	"resumeforge/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("llm", fx.Provide(Provide))

// Provide builds the reasoning-service client from configuration. Without an
// API key the service runs in demo mode against the mock client, mirroring
// how the rest of the stack behaves with an empty config.
func Provide(cfg *config.Config) Client {
	if cfg.LLM.APIKey == "" {
		zap.L().Warn("no LLM API key configured, running in demo mode with mock client")
		return &MockClient{}
	}

	base := NewOpenAIClient(Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLM.Timeout,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})

	return NewRetryClient(base, cfg.LLM.MaxRetries)
}
