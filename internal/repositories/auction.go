package repositories

import (
	"errors"
	"time"

	"evmarket/internal/models"
)

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("auction has no bids")
)

// AuctionRepository defines auction and bid database operations.
//
// ExecuteInTransaction hands the callback transaction-scoped auction and
// wallet repositories over the same database transaction, so a bid row, its
// escrow hold and the price update commit or roll back as one unit.
type AuctionRepository interface {
	Create(auction *models.Auction) error
	GetByID(id uint) (*models.Auction, error)
	// GetByIDForUpdate locks the auction row for the rest of the
	// surrounding transaction. This is the per-auction serialization
	// point: concurrent bids and finalize calls on the same auction
	// queue up here.
	GetByIDForUpdate(id uint) (*models.Auction, error)
	Update(auction *models.Auction) error
	List(status string, limit, offset int) ([]models.Auction, error)

	// DueToStart returns scheduled auctions whose start time has passed.
	DueToStart(now time.Time) ([]models.Auction, error)
	// DueToEnd returns running auctions whose end time has passed.
	DueToEnd(now time.Time) ([]models.Auction, error)

	CreateBid(bid *models.Bid) error
	// HighestBid returns the top bid for an auction, or ErrNoBids.
	HighestBid(auctionID uint) (*models.Bid, error)
	ListBids(auctionID uint) ([]models.Bid, error)
	// Bidders returns the distinct bidder ids for an auction.
	Bidders(auctionID uint) ([]uint, error)

	ExecuteInTransaction(fn func(AuctionRepository, WalletRepository) error) error
}
