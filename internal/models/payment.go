package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
)

// Payment records an external top-up. The wallet balance increases only when
// the gateway confirms completion; until then the row is pending and expires.
type Payment struct {
	ID          uint            `gorm:"primarykey"`
	UserID      uint            `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status      string          `gorm:"type:varchar(16);not null;default:'pending';index"`
	Provider    string          `gorm:"default:'stripe'"`
	SessionID   string          `gorm:"index"`
	Reference   string          `gorm:"size:36;uniqueIndex"`
	ExpiresAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
