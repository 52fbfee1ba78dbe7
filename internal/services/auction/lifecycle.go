package auction

import (
	"context"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/repositories"

	log "github.com/sirupsen/logrus"
)

// StartDue moves every scheduled auction whose start time has passed into
// the running state. Each auction transitions in its own transaction with
// the status rechecked under lock, so a concurrent cancel cannot be
// overwritten. Returns the number of auctions started.
func (s *service) StartDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.DueToStart(now)
	if err != nil {
		return 0, err
	}

	started := 0
	for i := range due {
		id := due[i].ID
		err := s.repo.ExecuteInTransaction(func(auctions repositories.AuctionRepository, _ repositories.WalletRepository) error {
			auction, err := auctions.GetByIDForUpdate(id)
			if err != nil {
				return err
			}
			if auction.Status != models.AuctionStatusScheduled || now.Before(auction.StartTime) {
				return nil
			}
			auction.Status = models.AuctionStatusRunning
			return auctions.Update(auction)
		})
		if err != nil {
			log.WithError(err).WithField("auction_id", id).Error("failed to start auction")
			continue
		}
		started++
	}
	return started, nil
}

// EndDue moves every running auction whose end time has passed into the
// ended state and returns their ids so the caller can settle them. Ending
// moves no money; that is Finalize's job.
func (s *service) EndDue(ctx context.Context, now time.Time) ([]uint, error) {
	due, err := s.repo.DueToEnd(now)
	if err != nil {
		return nil, err
	}

	var ended []uint
	for i := range due {
		id := due[i].ID
		err := s.repo.ExecuteInTransaction(func(auctions repositories.AuctionRepository, _ repositories.WalletRepository) error {
			auction, err := auctions.GetByIDForUpdate(id)
			if err != nil {
				return err
			}
			if auction.Status != models.AuctionStatusRunning || now.Before(auction.EndTime) {
				return nil
			}
			auction.Status = models.AuctionStatusEnded
			if err := auctions.Update(auction); err != nil {
				return err
			}
			ended = append(ended, id)
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("auction_id", id).Error("failed to end auction")
		}
	}
	return ended, nil
}
