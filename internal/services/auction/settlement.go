package auction

import (
	"context"

	"evmarket/internal/models"
	"evmarket/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Finalize settles an ended auction: it captures the winner's hammer price
// and releases every bidder's outstanding hold. It is idempotent: once the
// winner is recorded, later calls are no-ops. The winner assignment, capture
// and releases commit as a single transaction under the auction row lock, so
// two concurrent finalize attempts cannot both capture.
func (s *service) Finalize(ctx context.Context, auctionID uint) error {
	return s.repo.ExecuteInTransaction(func(auctions repositories.AuctionRepository, wallets repositories.WalletRepository) error {
		auction, err := auctions.GetByIDForUpdate(auctionID)
		if err != nil {
			if err == repositories.ErrAuctionNotFound {
				return ErrAuctionNotFound
			}
			return err
		}
		if auction.Status != models.AuctionStatusEnded || auction.Settled() {
			return nil
		}

		top, err := auctions.HighestBid(auction.ID)
		if err == repositories.ErrNoBids {
			// Nobody bid: no winner, nothing captured. The release
			// pass is a formality since no holds can exist.
			return releaseAllHolds(auctions, wallets, auction, "auction ended without bids")
		}
		if err != nil {
			return err
		}

		if err := s.capture(wallets, auction, top); err != nil {
			return err
		}

		winner := top.BidderID
		auction.WinnerID = &winner
		if err := auctions.Update(auction); err != nil {
			return err
		}

		// The winner's true charge was captured above, so their hold is
		// released along with everyone else's.
		return releaseAllHolds(auctions, wallets, auction, "auction settled")
	})
}

// capture moves the hammer price out of the winner's balance. When the
// balance cannot cover it, the available part is captured and the shortfall
// recorded as a pending receivable. The balance never goes negative.
func (s *service) capture(wallets repositories.WalletRepository, auction *models.Auction, top *models.Bid) error {
	wallet, err := wallets.GetByUserIDForUpdate(top.BidderID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletMissing
		}
		return err
	}

	hammer := top.Amount
	captured := hammer
	if wallet.Balance.LessThan(hammer) {
		captured = wallet.Balance
		shortfall := hammer.Sub(captured)
		log.WithFields(log.Fields{
			"auction_id": auction.ID,
			"winner_id":  top.BidderID,
			"hammer":     hammer,
			"balance":    wallet.Balance,
			"shortfall":  shortfall,
		}).Warn("underfunded settlement: capturing available balance, recording receivable")

		receivable := &models.WalletTransaction{
			WalletID:     wallet.ID,
			Type:         models.TransactionTypeAuctionCapture,
			Amount:       shortfall,
			BalanceAfter: decimal.Zero,
			Status:       models.TransactionStatusPending,
			AuctionID:    &auction.ID,
			Reference:    uuid.NewString(),
			Description:  "hammer price receivable",
		}
		if err := wallets.CreateTransaction(receivable); err != nil {
			return err
		}
	}

	if captured.IsPositive() {
		wallet.Balance = wallet.Balance.Sub(captured)
		capture := &models.WalletTransaction{
			WalletID:     wallet.ID,
			Type:         models.TransactionTypeAuctionCapture,
			Amount:       captured,
			BalanceAfter: wallet.Balance,
			Status:       models.TransactionStatusSucceeded,
			AuctionID:    &auction.ID,
			Reference:    uuid.NewString(),
			Description:  "hammer price capture",
		}
		if err := wallets.CreateTransaction(capture); err != nil {
			return err
		}
		if err := wallets.Update(wallet); err != nil {
			return err
		}
	}
	return nil
}

// releaseAllHolds frees every bidder's full outstanding hold for the auction.
// Must run inside the caller's transaction.
func releaseAllHolds(auctions repositories.AuctionRepository, wallets repositories.WalletRepository, auction *models.Auction, reason string) error {
	bidders, err := auctions.Bidders(auction.ID)
	if err != nil {
		return err
	}
	for _, bidderID := range bidders {
		wallet, err := wallets.GetByUserIDForUpdate(bidderID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return ErrWalletMissing
			}
			return err
		}
		held, err := wallets.HeldAmount(auction.ID, wallet.ID)
		if err != nil {
			return err
		}
		if !held.IsPositive() {
			continue
		}
		release := &models.WalletTransaction{
			WalletID:     wallet.ID,
			Type:         models.TransactionTypeAuctionRelease,
			Amount:       held,
			BalanceAfter: wallet.Balance,
			Status:       models.TransactionStatusSucceeded,
			AuctionID:    &auction.ID,
			Reference:    uuid.NewString(),
			Description:  reason,
		}
		if err := wallets.CreateTransaction(release); err != nil {
			return err
		}
	}
	return nil
}
