package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee types known to the fee schedule.
const (
	FeeTypePostPublish = "post_publish"
)

// FeeConfig is a read-only schedule entry: the amount charged for a given
// fee type. Managed by an administrative surface outside this service.
type FeeConfig struct {
	ID        uint            `gorm:"primarykey"`
	FeeType   string          `gorm:"uniqueIndex;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Enabled   bool            `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
