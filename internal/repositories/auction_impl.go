package repositories

import (
	"fmt"
	"time"

	"evmarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type auctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(auction *models.Auction) error {
	result := r.db.Create(auction)
	if result.Error != nil {
		return fmt.Errorf("failed to create auction: %w", result.Error)
	}
	return nil
}

func (r *auctionRepository) GetByID(id uint) (*models.Auction, error) {
	var auction models.Auction
	if err := r.db.First(&auction, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return &auction, nil
}

func (r *auctionRepository) GetByIDForUpdate(id uint) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&auction, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to lock auction: %w", err)
	}
	return &auction, nil
}

func (r *auctionRepository) Update(auction *models.Auction) error {
	result := r.db.Save(auction)
	if result.Error != nil {
		return fmt.Errorf("failed to update auction: %w", result.Error)
	}
	return nil
}

func (r *auctionRepository) List(status string, limit, offset int) ([]models.Auction, error) {
	var auctions []models.Auction
	q := r.db.Order("start_time DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) DueToStart(now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.
		Where("status = ? AND start_time <= ?", models.AuctionStatusScheduled, now).
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query auctions due to start: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) DueToEnd(now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.
		Where("status = ? AND end_time <= ?", models.AuctionStatusRunning, now).
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query auctions due to end: %w", err)
	}
	return auctions, nil
}

func (r *auctionRepository) CreateBid(bid *models.Bid) error {
	result := r.db.Create(bid)
	if result.Error != nil {
		return fmt.Errorf("failed to create bid: %w", result.Error)
	}
	return nil
}

func (r *auctionRepository) HighestBid(auctionID uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		First(&bid).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNoBids
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}
	return &bid, nil
}

func (r *auctionRepository) ListBids(auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}

func (r *auctionRepository) Bidders(auctionID uint) ([]uint, error) {
	var bidders []uint
	err := r.db.Model(&models.Bid{}).
		Where("auction_id = ?", auctionID).
		Distinct("bidder_id").
		Pluck("bidder_id", &bidders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bidders: %w", err)
	}
	return bidders, nil
}

func (r *auctionRepository) ExecuteInTransaction(fn func(AuctionRepository, WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&auctionRepository{db: tx}, &walletRepository{db: tx})
	})
}
