package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Post is a classified listing for a vehicle or battery. Publishing charges
// the configured listing fee through the wallet ledger.
type Post struct {
	ID          uint `gorm:"primarykey"`
	AssetRef    `gorm:"embedded"`
	SellerID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status      string          `gorm:"type:varchar(16);not null;default:'draft';index"`
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
