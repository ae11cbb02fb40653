package transaction

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resumeforge/pkg/repository"
	"resumeforge/services/ledger"
	transactiontask "resumeforge/services/transaction/task"
)

// Reconciler cross-checks completed transactions against the credit ledger.
// It is advisory: mismatches are logged, never repaired, and the two stores
// stay free of foreign keys.
type Reconciler struct {
	transactions repository.Repository[Transaction]
	store        ledger.CreditStore
}

type ReconcilerParams struct {
	fx.In
	DB    *gorm.DB
	Store ledger.CreditStore
}

func NewReconciler(p ReconcilerParams) *Reconciler {
	return &Reconciler{
		transactions: repository.ProvideStore[Transaction](p.DB),
		store:        p.Store,
	}
}

func (r *Reconciler) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var payload transactiontask.ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	var records []*Transaction
	var err error
	if payload.TransactionID != "" {
		var record *Transaction
		record, err = r.transactions.FindOne(ctx, &Transaction{ID: payload.TransactionID})
		if record != nil {
			records = append(records, record)
		}
	} else {
		records, err = r.transactions.Find(ctx, &Transaction{Status: StatusCompleted})
	}
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Status != StatusCompleted {
			continue
		}
		flagged, err := r.check(ctx, record)
		if err != nil {
			return err
		}
		if flagged {
			zap.L().Warn("completed transaction has no matching purchase entry",
				zap.String("transaction_id", record.ID),
				zap.String("user_id", record.UserID),
				zap.Int64("credits", record.Credits),
			)
		}
	}

	return nil
}

// check reports true when no purchase entry of equal amount, created at or
// after the transaction, exists for the user.
func (r *Reconciler) check(ctx context.Context, record *Transaction) (bool, error) {
	entries, err := r.store.EntriesByUser(ctx, record.UserID)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if entry.Kind != string(ledger.KindPurchase) {
			continue
		}
		if entry.Amount != record.Credits {
			continue
		}
		if entry.CreatedAt.Before(record.CreatedAt) {
			continue
		}
		return false, nil
	}

	return true, nil
}
