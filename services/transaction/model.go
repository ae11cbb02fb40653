package transaction

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Terminal reports whether a status permits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// Transaction is a purchase record. It is the payment-subsystem boundary:
// creating one never grants credits, completing one does.
type Transaction struct {
	ID                string         `gorm:"column:id;primaryKey" json:"id"`
	UserID            string         `gorm:"column:user_id;index;not null" json:"userId"`
	ExternalPaymentID *string        `gorm:"column:external_payment_id;index" json:"externalPaymentId,omitempty"`
	Credits           int64          `gorm:"column:credits;not null" json:"credits"`
	Price             float64        `gorm:"column:price;not null" json:"price"`
	Status            string         `gorm:"column:status;default:'pending'" json:"status"`
	Metadata          datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	CompletedAt       *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}
