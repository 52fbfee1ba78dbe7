package auction

import (
	"context"
	"fmt"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/repositories"
	"evmarket/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Service defines the auction engine operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Auction, error)
	Get(ctx context.Context, id uint) (*models.Auction, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Auction, error)
	ListBids(ctx context.Context, auctionID uint) ([]models.Bid, error)

	PlaceBid(ctx context.Context, req BidRequest) (*models.Bid, error)
	Cancel(ctx context.Context, auctionID uint, actor Actor) error
	Finalize(ctx context.Context, auctionID uint) error

	// Lifecycle sweep operations, driven by the Sweeper.
	StartDue(ctx context.Context, now time.Time) (int, error)
	EndDue(ctx context.Context, now time.Time) ([]uint, error)
}

type service struct {
	repo      repositories.AuctionRepository
	publisher EventPublisher
}

// NewService creates a new auction service.
func NewService(repo repositories.AuctionRepository, publisher EventPublisher) Service {
	if repo == nil {
		panic("auction repository is required")
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Auction, error) {
	if req.Actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if !req.Asset.Valid() {
		return nil, ErrInvalidAsset
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidSchedule
	}
	if !validation.ValidAmount(req.StartPrice) || !validation.ValidAmount(req.MinIncrement) {
		return nil, ErrInvalidPricing
	}
	if req.DepositRate.LessThanOrEqual(decimal.Zero) || req.DepositRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidPricing
	}

	auction := &models.Auction{
		AssetRef:     req.Asset,
		Title:        req.Title,
		Description:  req.Description,
		StartPrice:   req.StartPrice,
		MinIncrement: req.MinIncrement,
		DepositRate:  req.DepositRate,
		CurrentPrice: req.StartPrice,
		Status:       models.AuctionStatusScheduled,
		StartTime:    req.StartTime.UTC(),
		EndTime:      req.EndTime.UTC(),
		CreatedBy:    req.Actor.ID,
	}
	if err := s.repo.Create(auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return auction, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Auction, error) {
	auction, err := s.repo.GetByID(id)
	if err != nil {
		if err == repositories.ErrAuctionNotFound {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	// An ended auction the sweeper has not settled yet is settled lazily
	// on first access. Finalize is idempotent, so racing with the sweeper
	// is harmless.
	if auction.Status == models.AuctionStatusEnded && !auction.Settled() {
		if err := s.Finalize(ctx, id); err != nil {
			return nil, err
		}
		return s.repo.GetByID(id)
	}
	return auction, nil
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]models.Auction, error) {
	return s.repo.List(status, limit, offset)
}

func (s *service) ListBids(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	if _, err := s.repo.GetByID(auctionID); err != nil {
		if err == repositories.ErrAuctionNotFound {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return s.repo.ListBids(auctionID)
}

// PlaceBid validates and records a bid. The auction row is locked for the
// whole read-validate-write sequence, so two bids on the same auction can
// never both pass validation against a stale price.
func (s *service) PlaceBid(ctx context.Context, req BidRequest) (*models.Bid, error) {
	if req.Bidder.Role == models.RoleAdmin {
		return nil, ErrForbidden
	}
	if !validation.ValidAmount(req.Amount) {
		return nil, ErrBelowMinimum
	}

	var bid *models.Bid
	err := s.repo.ExecuteInTransaction(func(auctions repositories.AuctionRepository, wallets repositories.WalletRepository) error {
		auction, err := auctions.GetByIDForUpdate(req.AuctionID)
		if err != nil {
			if err == repositories.ErrAuctionNotFound {
				return ErrAuctionNotFound
			}
			return err
		}
		if auction.Status != models.AuctionStatusRunning {
			return ErrInvalidState
		}
		if req.Amount.LessThan(auction.CurrentPrice.Add(auction.MinIncrement)) {
			return ErrBelowMinimum
		}

		wallet, err := wallets.GetByUserIDForUpdate(req.Bidder.ID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return ErrWalletMissing
			}
			return err
		}

		required := RequiredDeposit(auction.StartPrice, req.Amount, auction.DepositRate)
		held, err := wallets.HeldAmount(auction.ID, wallet.ID)
		if err != nil {
			return err
		}

		// Re-hold on demand: only the shortfall between the required
		// deposit and what this bidder already has escrowed for this
		// auction is newly reserved. Held funds stay inside the balance.
		if held.LessThan(required) {
			additional := required.Sub(held)
			available := wallet.Balance.Sub(held)
			if available.LessThan(additional) {
				return ErrInsufficientFunds
			}
			hold := &models.WalletTransaction{
				WalletID:     wallet.ID,
				Type:         models.TransactionTypeAuctionHold,
				Amount:       additional,
				BalanceAfter: wallet.Balance,
				Status:       models.TransactionStatusSucceeded,
				AuctionID:    &auction.ID,
				Reference:    uuid.NewString(),
				Description:  "auction deposit hold",
			}
			if err := wallets.CreateTransaction(hold); err != nil {
				return err
			}
		}

		bid = &models.Bid{
			AuctionID: auction.ID,
			BidderID:  req.Bidder.ID,
			Amount:    req.Amount,
		}
		if err := auctions.CreateBid(bid); err != nil {
			return err
		}

		auction.CurrentPrice = req.Amount
		return auctions.Update(auction)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.BidAccepted(ctx, BidEvent{
		AuctionID:  bid.AuctionID,
		BidderID:   bid.BidderID,
		BidderName: req.BidderName,
		Amount:     bid.Amount,
		PlacedAt:   bid.CreatedAt,
	}); err != nil {
		log.WithError(err).WithField("auction_id", bid.AuctionID).Warn("failed to publish bid event")
	}

	return bid, nil
}

// Cancel terminates a non-terminal auction without a sale. Every bidder's
// full hold is released; nothing is captured.
func (s *service) Cancel(ctx context.Context, auctionID uint, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return s.repo.ExecuteInTransaction(func(auctions repositories.AuctionRepository, wallets repositories.WalletRepository) error {
		auction, err := auctions.GetByIDForUpdate(auctionID)
		if err != nil {
			if err == repositories.ErrAuctionNotFound {
				return ErrAuctionNotFound
			}
			return err
		}
		if auction.Status != models.AuctionStatusScheduled && auction.Status != models.AuctionStatusRunning {
			return ErrInvalidState
		}

		auction.Status = models.AuctionStatusCanceled
		if err := auctions.Update(auction); err != nil {
			return err
		}
		return releaseAllHolds(auctions, wallets, auction, "auction canceled")
	})
}

// RequiredDeposit computes the escrow a bid of the given amount demands:
// the deposit rate applied to the bid, rounded up to whole currency units,
// with the auction's start price as the floor.
func RequiredDeposit(startPrice, amount, rate decimal.Decimal) decimal.Decimal {
	deposit := amount.Mul(rate).Ceil()
	if deposit.LessThan(startPrice) {
		return startPrice
	}
	return deposit
}
