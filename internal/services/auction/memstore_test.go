package auction

import (
	"context"
	"sort"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/repositories"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the auction and wallet repositories.
// It does not roll back on error; the paths under test write nothing before
// failing.
type memStore struct {
	auctions map[uint]*models.Auction
	bids     []models.Bid
	wallets  map[uint]*models.Wallet
	ledger   []models.WalletTransaction

	nextAuctionID uint
	nextBidID     uint
	nextWalletID  uint
	nextTxID      uint
}

func newMemStore() *memStore {
	return &memStore{
		auctions: make(map[uint]*models.Auction),
		wallets:  make(map[uint]*models.Wallet),
	}
}

func (m *memStore) addWallet(userID uint, balance string) *models.Wallet {
	m.nextWalletID++
	w := &models.Wallet{
		ID:      m.nextWalletID,
		UserID:  userID,
		Balance: d(balance),
	}
	m.wallets[userID] = w
	return w
}

func (m *memStore) walletRepo() repositories.WalletRepository {
	return &memWallets{store: m}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AuctionRepository

func (m *memStore) Create(a *models.Auction) error {
	m.nextAuctionID++
	a.ID = m.nextAuctionID
	cp := *a
	m.auctions[a.ID] = &cp
	return nil
}

func (m *memStore) GetByID(id uint) (*models.Auction, error) {
	a, ok := m.auctions[id]
	if !ok {
		return nil, repositories.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetByIDForUpdate(id uint) (*models.Auction, error) {
	return m.GetByID(id)
}

func (m *memStore) Update(a *models.Auction) error {
	if _, ok := m.auctions[a.ID]; !ok {
		return repositories.ErrAuctionNotFound
	}
	cp := *a
	m.auctions[a.ID] = &cp
	return nil
}

func (m *memStore) List(status string, limit, offset int) ([]models.Auction, error) {
	var out []models.Auction
	for _, a := range m.auctions {
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DueToStart(now time.Time) ([]models.Auction, error) {
	var out []models.Auction
	for _, a := range m.auctions {
		if a.Status == models.AuctionStatusScheduled && !now.Before(a.StartTime) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) DueToEnd(now time.Time) ([]models.Auction, error) {
	var out []models.Auction
	for _, a := range m.auctions {
		if a.Status == models.AuctionStatusRunning && !now.Before(a.EndTime) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) CreateBid(b *models.Bid) error {
	m.nextBidID++
	b.ID = m.nextBidID
	b.CreatedAt = time.Now().UTC()
	m.bids = append(m.bids, *b)
	return nil
}

func (m *memStore) HighestBid(auctionID uint) (*models.Bid, error) {
	var top *models.Bid
	for i := range m.bids {
		b := m.bids[i]
		if b.AuctionID != auctionID {
			continue
		}
		if top == nil || b.Amount.GreaterThan(top.Amount) {
			cp := b
			top = &cp
		}
	}
	if top == nil {
		return nil, repositories.ErrNoBids
	}
	return top, nil
}

func (m *memStore) ListBids(auctionID uint) ([]models.Bid, error) {
	var out []models.Bid
	for _, b := range m.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) Bidders(auctionID uint) ([]uint, error) {
	seen := make(map[uint]bool)
	var out []uint
	for _, b := range m.bids {
		if b.AuctionID == auctionID && !seen[b.BidderID] {
			seen[b.BidderID] = true
			out = append(out, b.BidderID)
		}
	}
	return out, nil
}

func (m *memStore) ExecuteInTransaction(fn func(repositories.AuctionRepository, repositories.WalletRepository) error) error {
	return fn(m, m.walletRepo())
}

// ledgerRows returns the succeeded and pending entries for a wallet, oldest first.
func (m *memStore) ledgerRows(walletID uint) []models.WalletTransaction {
	var out []models.WalletTransaction
	for _, tx := range m.ledger {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out
}

// memWallets adapts memStore to the wallet repository interface.
type memWallets struct {
	store *memStore
}

func (w *memWallets) Create(wallet *models.Wallet) error {
	w.store.nextWalletID++
	wallet.ID = w.store.nextWalletID
	cp := *wallet
	w.store.wallets[wallet.UserID] = &cp
	return nil
}

func (w *memWallets) GetByUserID(userID uint) (*models.Wallet, error) {
	wallet, ok := w.store.wallets[userID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *wallet
	return &cp, nil
}

func (w *memWallets) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return w.GetByUserID(userID)
}

func (w *memWallets) Update(wallet *models.Wallet) error {
	existing, ok := w.store.wallets[wallet.UserID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	cp := *wallet
	cp.ID = existing.ID
	w.store.wallets[wallet.UserID] = &cp
	return nil
}

func (w *memWallets) CreateTransaction(tx *models.WalletTransaction) error {
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		return repositories.ErrInvalidTransaction
	}
	w.store.nextTxID++
	tx.ID = w.store.nextTxID
	tx.CreatedAt = time.Now().UTC()
	w.store.ledger = append(w.store.ledger, *tx)
	return nil
}

func (w *memWallets) HeldAmount(auctionID, walletID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range w.store.ledger {
		if tx.WalletID != walletID || tx.AuctionID == nil || *tx.AuctionID != auctionID {
			continue
		}
		if tx.Status != models.TransactionStatusSucceeded {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeAuctionHold:
			total = total.Add(tx.Amount)
		case models.TransactionTypeAuctionRelease:
			total = total.Sub(tx.Amount)
		}
	}
	return total, nil
}

func (w *memWallets) GetTransactionHistory(ctx context.Context, walletID uint, limit, offset int) ([]models.WalletTransaction, error) {
	rows := w.store.ledgerRows(walletID)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (w *memWallets) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(w)
}
