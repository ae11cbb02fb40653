package ledger

import (
	"time"
)

// Kind classifies a ledger entry. purchase and bonus add to the balance,
// consumption subtracts. Anything else is a malformed entry.
type Kind string

const (
	KindPurchase    Kind = "purchase"
	KindBonus       Kind = "bonus"
	KindConsumption Kind = "consumption"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPurchase, KindBonus, KindConsumption:
		return true
	}
	return false
}

// Additive reports whether the kind contributes to the balance (as opposed
// to consuming from it).
func (k Kind) Additive() bool {
	return k == KindPurchase || k == KindBonus
}

// CreditEntry is one immutable row of the append-only credit ledger. Entries
// are never updated or deleted; the balance is always derived by folding them.
type CreditEntry struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;index;not null" json:"userId"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	Kind      string    `gorm:"column:kind;not null" json:"kind"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (CreditEntry) TableName() string {
	return "credit_entries"
}

// Balance is a derived projection over a user's entries. Never persisted.
type Balance struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Used      int64 `json:"used"`
}
