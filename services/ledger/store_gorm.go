package ledger

import (
	"context"
	"fmt"

	"resumeforge/pkg/db/option"
	"resumeforge/pkg/repository"

	"gorm.io/gorm"
)

type gormStore struct {
	db      *gorm.DB
	entries repository.Repository[CreditEntry]
}

func NewGormStore(db *gorm.DB) (CreditStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm store requires a database handle")
	}
	if err := db.AutoMigrate(&CreditEntry{}); err != nil {
		return nil, fmt.Errorf("migrate credit_entries: %w", err)
	}

	return &gormStore{
		db:      db,
		entries: repository.ProvideStore[CreditEntry](db),
	}, nil
}

func (s *gormStore) Append(ctx context.Context, entry *CreditEntry) error {
	return s.entries.Create(ctx, entry)
}

func (s *gormStore) EntriesByUser(ctx context.Context, userID string) ([]*CreditEntry, error) {
	return s.entries.Find(ctx, &CreditEntry{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
	)
}

func (s *gormStore) ConsumeAtomic(ctx context.Context, entry *CreditEntry) (bool, error) {
	consumed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entriesTx := s.entries.WithTrx(tx)

		// Row locks on existing entries cannot serialize the debit: a racing
		// transaction's insert is invisible to the blocked reader's snapshot,
		// and a user with no rows has nothing to lock. Take a per-user
		// advisory lock for the transaction instead. sqlite needs neither;
		// its single-writer transactions already serialize the debit.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", entry.UserID).Error; err != nil {
				return err
			}
		}

		rows, err := entriesTx.Find(ctx, &CreditEntry{UserID: entry.UserID})
		if err != nil {
			return err
		}

		balance, _ := ComputeBalance(rows)
		if balance.Available < entry.Amount {
			return nil
		}

		if err := entriesTx.Create(ctx, entry); err != nil {
			return err
		}

		consumed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return consumed, nil
}
