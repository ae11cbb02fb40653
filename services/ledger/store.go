package ledger

import (
	"context"

	"resumeforge/pkg/config"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// CreditStore is the append-only entry store behind the credit service.
// Two implementations exist: a gorm-backed persistent store and an in-memory
// store for demo mode and tests, selected by DATABASE.TYPE.
type CreditStore interface {
	// Append adds one immutable entry.
	Append(ctx context.Context, entry *CreditEntry) error
	// EntriesByUser returns all entries for a user, newest first. Unknown
	// users yield an empty slice, not an error.
	EntriesByUser(ctx context.Context, userID string) ([]*CreditEntry, error)
	// ConsumeAtomic runs the serialized check-then-append debit: it appends
	// entry only if the user's available balance covers entry.Amount, and
	// reports whether the debit happened. Implementations must serialize
	// concurrent calls per user; two racing debits against an exactly
	// sufficient balance must yield one success and one refusal.
	ConsumeAtomic(ctx context.Context, entry *CreditEntry) (bool, error)
}

type storeParams struct {
	fx.In
	Config *config.Config
	DB     *gorm.DB `optional:"true"`
}

func ProvideCreditStore(p storeParams) (CreditStore, error) {
	if p.Config.Database.Type == "memory" {
		return NewMemoryStore(), nil
	}
	return NewGormStore(p.DB)
}
