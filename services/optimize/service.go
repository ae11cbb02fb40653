package optimize

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"resumeforge/pkg/config"
	"resumeforge/pkg/errutil"
	"resumeforge/services/ledger"
)

// Service gates the optimization pipeline behind the credit balance.
// Placeholder results are free; real results cost OptimizeCost credits,
// consumed only after both stages succeed.
type Service struct {
	orchestrator *Orchestrator
	credits      *ledger.Service
	cost         int64
}

type ServiceParams struct {
	fx.In
	Orchestrator *Orchestrator
	Credits      *ledger.Service
	Config       *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		orchestrator: p.Orchestrator,
		credits:      p.Credits,
		cost:         p.Config.Credits.OptimizeCost,
	}
}

func spanFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	return []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	}
}

func (s *Service) Optimize(ctx context.Context, userID string, req *OptimizeRequest) (*OptimizationResult, error) {
	if userID == "" {
		return nil, errutil.Unauthorized("missing user identity")
	}

	balance, err := s.credits.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.Available < s.cost {
		return nil, ledger.InsufficientCreditsError{Available: balance.Available, Required: s.cost}
	}

	zap.L().With(spanFields(ctx)...).Info("starting optimization",
		zap.String("user_id", userID),
		zap.String("role", Redact(req.Role)),
	)

	result, err := s.orchestrator.Run(ctx, req)
	if err != nil {
		var be errutil.BaseError
		if errors.As(err, &be) {
			return nil, err
		}
		if errors.Is(err, ErrRequirementsParse) {
			return nil, errutil.BadGateway("failed to parse job requirements", errutil.WithErr(err))
		}
		return nil, errutil.BadGateway("resume optimization failed", errutil.WithErr(err))
	}

	// Charging happens after the fact. A failed consume is logged and the
	// result still returned; the user keeps what they paid attention for.
	if !result.Placeholder {
		consumed, err := s.credits.ConsumeCredits(ctx, userID, s.cost)
		if err != nil {
			zap.L().With(spanFields(ctx)...).Error("failed to consume credits after optimization",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else if !consumed {
			zap.L().With(spanFields(ctx)...).Error("credits vanished between check and consume",
				zap.String("user_id", userID),
			)
		}
	}

	zap.L().With(spanFields(ctx)...).Info("optimization complete",
		zap.String("user_id", userID),
		zap.Int("score", result.Score),
		zap.Int("bullets", len(result.RewrittenBullets)),
		zap.Bool("placeholder", result.Placeholder),
	)

	return result, nil
}
