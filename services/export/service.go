package export

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"resumeforge/pkg/config"
	"resumeforge/pkg/errutil"
	"resumeforge/services/ledger"
)

// Service gates document export behind the credit balance. Unlike
// optimization, the credit is consumed before rendering; rendering is local
// and deterministic, so a post-charge failure window is not worth the
// bookkeeping.
type Service struct {
	renderer Renderer
	credits  *ledger.Service
	cost     int64
}

type ServiceParams struct {
	fx.In
	Renderer Renderer
	Credits  *ledger.Service
	Config   *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		renderer: p.Renderer,
		credits:  p.Credits,
		cost:     p.Config.Credits.ExportCost,
	}
}

func (s *Service) Export(ctx context.Context, userID string, req *ExportRequest) (*Document, error) {
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

	consumed, err := s.credits.ConsumeCredits(ctx, userID, s.cost)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ledger.InsufficientCreditsError{Available: balance.Available, Required: s.cost}
	}

	doc, err := s.renderer.Render(&req.Result, req.UserData, req.Format)
	if err != nil {
		zap.L().Error("export rendering failed",
			zap.String("user_id", userID),
			zap.String("format", req.Format),
			zap.Error(err),
		)
		return nil, errutil.Internal("export failed", errutil.WithErr(err))
	}

	zap.L().Info("document exported",
		zap.String("user_id", userID),
		zap.String("format", req.Format),
		zap.Int("bytes", len(doc.Content)),
	)

	return doc, nil
}
