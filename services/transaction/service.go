package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resumeforge/pkg/db/option"
	"resumeforge/pkg/errutil"
	"resumeforge/pkg/repository"
	"resumeforge/pkg/task"
	"resumeforge/services/ledger"
	transactiontask "resumeforge/services/transaction/task"
)

// Service manages purchase transaction records. Credits are only granted
// through CompletePurchase, never by Record.
type Service struct {
	db           *gorm.DB
	node         *snowflake.Node
	transactions repository.Repository[Transaction]
	credits      *ledger.Service
	enqueuer     task.Enqueuer
}

type Params struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Credits  *ledger.Service
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p Params) *Service {
	return &Service{
		db:           p.DB,
		node:         p.Node,
		transactions: repository.ProvideStore[Transaction](p.DB),
		credits:      p.Credits,
		enqueuer:     p.Enqueuer,
	}
}

func spanFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	return []zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	}
}

func storeError(err error) error {
	var be errutil.BaseError
	if errors.As(err, &be) {
		return err
	}
	return errutil.Unavailable("transaction store unavailable", errutil.WithErr(err))
}

// Record creates a transaction record in the given state. Pre-resolved
// records (a payment confirmed before it was recorded) are allowed; an empty
// status defaults to pending. It never touches the credit ledger.
func (s *Service) Record(ctx context.Context, userID string, externalPaymentID *string, credits int64, price float64, status string) (*Transaction, error) {
	if userID == "" {
		return nil, errutil.BadRequest("userId is required")
	}
	if credits <= 0 {
		return nil, errutil.UnprocessableEntity("credits must be a positive integer")
	}
	if price < 0 {
		return nil, errutil.UnprocessableEntity("price must not be negative")
	}
	if status == "" {
		status = StatusPending
	}
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
	default:
		return nil, errutil.BadRequest("status must be pending, completed or failed")
	}

	record := &Transaction{
		ID:                s.node.Generate().String(),
		UserID:            userID,
		ExternalPaymentID: externalPaymentID,
		Credits:           credits,
		Price:             price,
		Status:            status,
		CreatedAt:         time.Now().UTC(),
	}
	if status == StatusCompleted {
		now := time.Now().UTC()
		record.CompletedAt = &now
	}

	if err := s.transactions.Create(ctx, record); err != nil {
		zap.L().With(spanFields(ctx)...).Error("failed to create transaction", zap.Error(err))
		return nil, storeError(err)
	}

	zap.L().With(spanFields(ctx)...).Info("transaction recorded",
		zap.String("transaction_id", record.ID),
		zap.String("user_id", userID),
		zap.Int64("credits", credits),
		zap.String("status", status),
	)

	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, errutil.BadRequest("transaction id is required")
	}

	record, err := s.transactions.FindOne(ctx, &Transaction{ID: id})
	if err != nil {
		return nil, storeError(err)
	}
	if record == nil {
		return nil, errutil.NotFound("transaction not found")
	}
	return record, nil
}

// UpdateStatus moves a pending transaction to completed or failed. Terminal
// records are immutable; a second resolution is a conflict.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Transaction, error) {
	if id == "" {
		return nil, errutil.BadRequest("transaction id is required")
	}
	if status != StatusCompleted && status != StatusFailed {
		return nil, errutil.BadRequest("status must be completed or failed")
	}

	var out *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.transactions.WithTrx(tx)

		var opts []option.QueryOption
		if tx.Dialector.Name() == "postgres" {
			opts = append(opts, option.WithLockingUpdate())
		}

		record, err := repo.FindOne(ctx, &Transaction{ID: id}, opts...)
		if err != nil {
			return err
		}
		if record == nil {
			return errutil.NotFound("transaction not found")
		}
		if Terminal(record.Status) {
			return errutil.Conflict("transaction already " + record.Status)
		}

		updates := map[string]any{"status": status}
		record.Status = status
		if status == StatusCompleted {
			now := time.Now().UTC()
			record.CompletedAt = &now
			updates["completed_at"] = &now
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}

		out = record
		return nil
	})
	if err != nil {
		var be errutil.BaseError
		if errors.As(err, &be) {
			return nil, err
		}
		zap.L().With(spanFields(ctx)...).Error("failed to update transaction status", zap.Error(err))
		return nil, storeError(err)
	}

	zap.L().With(spanFields(ctx)...).Info("transaction status updated",
		zap.String("transaction_id", id),
		zap.String("status", status),
	)

	return out, nil
}

// CompletePurchase resolves a pending transaction and grants its credits as
// one purchase entry. A reconcile task is enqueued either way; if the grant
// fails after the status flip the sweep will flag the gap.
func (s *Service) CompletePurchase(ctx context.Context, id string) (*Transaction, error) {
	record, err := s.UpdateStatus(ctx, id, StatusCompleted)
	if err != nil {
		return nil, err
	}

	_, grantErr := s.credits.AddCredits(ctx, record.UserID, record.Credits, ledger.KindPurchase)
	s.enqueueReconcile(ctx, record.ID)

	if grantErr != nil {
		zap.L().With(spanFields(ctx)...).Error("credit grant failed for completed transaction",
			zap.String("transaction_id", record.ID),
			zap.Error(grantErr),
		)
		return nil, grantErr
	}

	zap.L().With(spanFields(ctx)...).Info("purchase completed",
		zap.String("transaction_id", record.ID),
		zap.String("user_id", record.UserID),
		zap.Int64("credits", record.Credits),
	)

	return record, nil
}

func (s *Service) enqueueReconcile(ctx context.Context, transactionID string) {
	if s.enqueuer == nil {
		return
	}

	t, err := transactiontask.NewReconcileTask(transactiontask.ReconcilePayload{TransactionID: transactionID})
	if err != nil {
		zap.L().With(spanFields(ctx)...).Warn("failed to build reconcile task", zap.Error(err))
		return
	}

	// small delay so the check runs after the grant has settled
	if _, err := s.enqueuer.Enqueue(ctx, t, asynq.ProcessIn(30*time.Second)); err != nil {
		zap.L().With(spanFields(ctx)...).Warn("failed to enqueue reconcile task", zap.Error(err))
	}
}
