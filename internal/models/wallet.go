package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a user's spendable funds. Escrowed (held) amounts stay inside
// Balance; they are derived from the transaction ledger, never stored here.
type Wallet struct {
	ID        uint            `gorm:"primarykey"`
	UserID    uint            `gorm:"uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Currency  string          `gorm:"default:'USD'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Every wallet starts empty; funding happens through the ledger.
	w.Balance = decimal.Zero
	return nil
}
