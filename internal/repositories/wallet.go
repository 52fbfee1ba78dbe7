package repositories

import (
	"context"
	"errors"

	"evmarket/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrDuplicateWallet    = errors.New("wallet already exists")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// WalletRepository defines wallet and ledger database operations. The ledger
// is append-only; balances change only inside ExecuteInTransaction together
// with the ledger row that explains the change.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)
	// GetByUserIDForUpdate locks the wallet row until the surrounding
	// transaction commits. Only meaningful inside ExecuteInTransaction.
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	CreateTransaction(tx *models.WalletTransaction) error
	// HeldAmount derives the escrowed amount for a (wallet, auction) pair
	// from the ledger: Σ holds − Σ releases over succeeded rows.
	HeldAmount(auctionID, walletID uint) (decimal.Decimal, error)
	GetTransactionHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.WalletTransaction, error)

	ExecuteInTransaction(fn func(WalletRepository) error) error
}
