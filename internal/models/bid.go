package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an immutable record of bidding intent. Rows are only ever appended
// while the auction is running, never updated or deleted.
type Bid struct {
	ID        uint            `gorm:"primarykey"`
	AuctionID uint            `gorm:"not null;index"`
	BidderID  uint            `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt time.Time
}
