package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// retryBaseDelay is multiplied by the attempt number, so backoff grows
// linearly: 300ms, 600ms, ...
const retryBaseDelay = 300 * time.Millisecond

// retryClient wraps a Client with bounded retries on transient failure.
// Quota/billing errors short-circuit immediately as ErrQuotaExceeded so the
// caller can take its fallback path instead of burning retries.
type retryClient struct {
	underlying Client
	maxRetries int
}

func NewRetryClient(client Client, maxRetries int) Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retryClient{
		underlying: client,
		maxRetries: maxRetries,
	}
}

func (c *retryClient) Model() string {
	return c.underlying.Model()
}

func (c *retryClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.underlying.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if IsQuotaError(err) {
			zap.L().Warn("llm quota exceeded, skipping retries",
				zap.String("model", c.underlying.Model()),
				zap.Error(err),
			)
			return nil, ErrQuotaExceeded
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < c.maxRetries {
			delay := retryBaseDelay * time.Duration(attempt+1)
			zap.L().Warn("llm call failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay),
				zap.Error(err),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, lastErr
}
