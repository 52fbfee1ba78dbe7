package wallet

import (
	"context"
	"fmt"

	"evmarket/internal/models"
	"evmarket/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines the wallet ledger operations.
type Service interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	// HeldAmount returns how much of the user's balance is escrowed for
	// the given auction, derived from the ledger.
	HeldAmount(ctx context.Context, auctionID, userID uint) (decimal.Decimal, error)

	// TopUp credits a confirmed external payment into the wallet.
	TopUp(ctx context.Context, userID uint, amount decimal.Decimal, paymentID uint) error
	// ChargePostFee debits a listing fee from the wallet.
	ChargePostFee(ctx context.Context, userID uint, amount decimal.Decimal, postID uint) error

	GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error)
}

type service struct {
	repo    repositories.WalletRepository
	cache   repositories.CacheRepository
	metrics MetricsCollector
}

// NewService creates a new wallet service.
func NewService(repo repositories.WalletRepository, cache repositories.CacheRepository, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{repo: repo, cache: cache, metrics: metrics}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
			s.metrics.RecordCacheHit(walletCacheKey(userID))
			return wallet, nil
		}
		s.metrics.RecordCacheMiss(walletCacheKey(userID))
	}

	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetWallet(ctx, userID, wallet)
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *service) HeldAmount(ctx context.Context, auctionID, userID uint) (decimal.Decimal, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return decimal.Zero, ErrWalletNotFound
		}
		return decimal.Zero, err
	}
	return s.repo.HeldAmount(auctionID, wallet.ID)
}

func (s *service) TopUp(ctx context.Context, userID uint, amount decimal.Decimal, paymentID uint) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return ErrWalletNotFound
			}
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.Update(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(&models.WalletTransaction{
			WalletID:     wallet.ID,
			Type:         models.TransactionTypeTopup,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Status:       models.TransactionStatusSucceeded,
			PaymentID:    &paymentID,
			Reference:    uuid.NewString(),
			Description:  "wallet top-up",
		})
	})
	if err != nil {
		s.metrics.RecordError("top_up", err.Error())
		return err
	}

	s.invalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeTopup, amount.InexactFloat64())
	return nil
}

func (s *service) ChargePostFee(ctx context.Context, userID uint, amount decimal.Decimal, postID uint) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return ErrWalletNotFound
			}
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		if err := tx.Update(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(&models.WalletTransaction{
			WalletID:     wallet.ID,
			Type:         models.TransactionTypePostFee,
			Amount:       amount,
			BalanceAfter: wallet.Balance,
			Status:       models.TransactionStatusSucceeded,
			PostID:       &postID,
			Reference:    uuid.NewString(),
			Description:  "listing publish fee",
		})
	})
	if err != nil {
		s.metrics.RecordError("post_fee", err.Error())
		return err
	}

	s.invalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypePostFee, amount.InexactFloat64())
	return nil
}

func (s *service) GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTransactionHistory(ctx, wallet.ID, limit, offset)
}

func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if s.cache != nil {
		_ = s.cache.DeleteWallet(ctx, userID)
	}
}

func walletCacheKey(userID uint) string {
	return fmt.Sprintf("%suser:%d", WalletCachePrefix, userID)
}
