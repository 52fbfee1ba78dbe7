package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Auction lifecycle statuses. Scheduled and Running advance by wall-clock
// time; Ended and Canceled are terminal.
const (
	AuctionStatusScheduled = "scheduled"
	AuctionStatusRunning   = "running"
	AuctionStatusEnded     = "ended"
	AuctionStatusCanceled  = "canceled"
)

// Asset kinds an auction or listing can attach to. The (AssetType, AssetID)
// pair is a tagged reference: exactly one asset, never two nullable keys.
const (
	AssetTypeVehicle = "vehicle"
	AssetTypeBattery = "battery"
)

// AssetRef identifies the vehicle or battery being sold.
type AssetRef struct {
	AssetType string `gorm:"type:varchar(16);not null" json:"asset_type"`
	AssetID   uint   `gorm:"not null" json:"asset_id"`
}

// Valid reports whether the reference names a known asset kind.
func (r AssetRef) Valid() bool {
	return (r.AssetType == AssetTypeVehicle || r.AssetType == AssetTypeBattery) && r.AssetID != 0
}

// Auction is a timed sale of a single asset. CurrentPrice tracks the highest
// accepted bid (the start price until one exists). WinnerID is set exactly
// once, during settlement, and only on an ended auction.
type Auction struct {
	ID           uint `gorm:"primarykey"`
	AssetRef     `gorm:"embedded"`
	Title        string `gorm:"not null"`
	Description  string
	StartPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	MinIncrement decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	DepositRate  decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status       string          `gorm:"type:varchar(16);not null;default:'scheduled';index"`
	StartTime    time.Time       `gorm:"not null;index"`
	EndTime      time.Time       `gorm:"not null;index"`
	WinnerID     *uint
	CreatedBy    uint `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Settled reports whether settlement already ran for this auction.
func (a *Auction) Settled() bool {
	return a.WinnerID != nil
}
