package ledger

import (
	"context"
	"time"

	"resumeforge/pkg/errutil"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service exposes the credit operations: balance lookup, grants and the
// atomic debit. All writes go through the append-only CreditStore.
type Service struct {
	store CreditStore
	node  *snowflake.Node
}

type ServiceParams struct {
	fx.In
	Store CreditStore
	Node  *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		store: p.Store,
		node:  p.Node,
	}
}

func spanFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	return []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	}
}

// storeUnavailable wraps store failures. The caller must treat this as a
// hard failure for the request; credits are never silently granted or denied.
func storeUnavailable(err error) error {
	return errutil.Unavailable("credit store unavailable", errutil.WithErr(err))
}

// GetBalance derives the balance from the user's entry history. Unknown
// users get the zero balance. Side-effect free.
func (s *Service) GetBalance(ctx context.Context, userID string) (Balance, error) {
	if userID == "" {
		return Balance{}, errutil.BadRequest("userId is required")
	}

	entries, err := s.store.EntriesByUser(ctx, userID)
	if err != nil {
		zap.L().With(spanFields(ctx)...).Error("failed to load ledger entries", zap.Error(err))
		return Balance{}, storeUnavailable(err)
	}

	balance, inconsistent := ComputeBalance(entries)
	if len(inconsistent) > 0 {
		zap.L().With(spanFields(ctx)...).Warn("inconsistent ledger entries excluded from balance",
			zap.String("user_id", userID),
			zap.Strings("entry_ids", inconsistent),
		)
	}

	return balance, nil
}

// AddCredits appends one purchase or bonus entry.
func (s *Service) AddCredits(ctx context.Context, userID string, amount int64, kind Kind) (*CreditEntry, error) {
	if userID == "" {
		return nil, errutil.BadRequest("userId is required")
	}
	if amount <= 0 {
		return nil, errutil.UnprocessableEntity("amount must be a positive integer")
	}
	if !kind.Additive() {
		return nil, errutil.BadRequest("kind must be purchase or bonus")
	}

	entry := &CreditEntry{
		ID:        s.node.Generate().String(),
		UserID:    userID,
		Amount:    amount,
		Kind:      string(kind),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Append(ctx, entry); err != nil {
		zap.L().With(spanFields(ctx)...).Error("failed to append credit entry", zap.Error(err))
		return nil, storeUnavailable(err)
	}

	zap.L().With(spanFields(ctx)...).Info("credits added",
		zap.String("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("kind", string(kind)),
	)

	return entry, nil
}

// ConsumeCredits atomically debits the balance. It reports false, with no
// entry appended, when the available balance does not cover the amount.
func (s *Service) ConsumeCredits(ctx context.Context, userID string, amount int64) (bool, error) {
	if userID == "" {
		return false, errutil.BadRequest("userId is required")
	}
	if amount <= 0 {
		return false, errutil.UnprocessableEntity("amount must be a positive integer")
	}

	entry := &CreditEntry{
		ID:        s.node.Generate().String(),
		UserID:    userID,
		Amount:    amount,
		Kind:      string(KindConsumption),
		CreatedAt: time.Now().UTC(),
	}

	consumed, err := s.store.ConsumeAtomic(ctx, entry)
	if err != nil {
		zap.L().With(spanFields(ctx)...).Error("failed to consume credits", zap.Error(err))
		return false, storeUnavailable(err)
	}

	if !consumed {
		zap.L().With(spanFields(ctx)...).Info("consume refused, insufficient balance",
			zap.String("user_id", userID),
			zap.Int64("amount", amount),
		)
	}

	return consumed, nil
}

// ListEntries returns the user's audit trail, newest first.
func (s *Service) ListEntries(ctx context.Context, userID string) ([]*CreditEntry, error) {
	if userID == "" {
		return nil, errutil.BadRequest("userId is required")
	}

	entries, err := s.store.EntriesByUser(ctx, userID)
	if err != nil {
		return nil, storeUnavailable(err)
	}

	return entries, nil
}
