package auction

import (
	"context"
	"time"

	"evmarket/internal/models"

	"github.com/shopspring/decimal"
)

// Actor identifies the user performing an operation and their role.
type Actor struct {
	ID   uint
	Role string
}

// CreateRequest carries the parameters for a new auction.
type CreateRequest struct {
	Actor        Actor
	Asset        models.AssetRef
	Title        string
	Description  string
	StartPrice   decimal.Decimal
	MinIncrement decimal.Decimal
	DepositRate  decimal.Decimal
	StartTime    time.Time
	EndTime      time.Time
}

// BidRequest carries a proposed bid.
type BidRequest struct {
	AuctionID  uint
	Bidder     Actor
	BidderName string
	Amount     decimal.Decimal
}

// BidEvent is pushed to interested observers after a bid is accepted.
// Delivery is best effort and has no bearing on the bid's validity.
type BidEvent struct {
	AuctionID  uint            `json:"auction_id"`
	BidderID   uint            `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// EventPublisher pushes accepted-bid events to observers.
type EventPublisher interface {
	BidAccepted(ctx context.Context, event BidEvent) error
}

// NoopPublisher discards events. Used when no notification channel is wired.
type NoopPublisher struct{}

func (NoopPublisher) BidAccepted(context.Context, BidEvent) error { return nil }
