package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger entry types. Amount always carries a positive magnitude; whether an
// entry reserves, frees or moves money is determined by its type.
const (
	TransactionTypeTopup          = "TOPUP"
	TransactionTypePostFee        = "POST_FEE"
	TransactionTypeAuctionHold    = "AUCTION_HOLD"
	TransactionTypeAuctionRelease = "AUCTION_RELEASE"
	TransactionTypeAuctionCapture = "AUCTION_CAPTURE"
	TransactionTypeRefund         = "REFUND"
	TransactionTypeAdjust         = "ADJUST"
)

// Ledger entry statuses
const (
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
	TransactionStatusPending   = "pending"
)

// WalletTransaction is the append-only audit trail for every balance-affecting
// event. It is the only source of truth for how much of a wallet's balance is
// currently escrowed for a given auction: held = Σ holds − Σ releases over
// succeeded, non-deleted rows for the (wallet, auction) pair.
type WalletTransaction struct {
	ID           uint            `gorm:"primarykey"`
	WalletID     uint            `gorm:"not null;index;index:idx_wallet_auction,priority:1"`
	Type         string          `gorm:"type:varchar(24);not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status       string          `gorm:"type:varchar(16);not null;default:'succeeded'"`
	AuctionID    *uint           `gorm:"index:idx_wallet_auction,priority:2"`
	PostID       *uint
	PaymentID    *uint
	Reference    string `gorm:"size:36;index"`
	Description  string
	Metadata     JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
