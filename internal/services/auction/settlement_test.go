package auction

import (
	"context"
	"testing"

	"evmarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endAuction flips a running auction to ended directly, the way the sweeper
// would, so settlement can run.
func endAuction(t *testing.T, store *memStore, id uint) {
	t.Helper()
	a, err := store.GetByID(id)
	require.NoError(t, err)
	a.Status = models.AuctionStatusEnded
	require.NoError(t, store.Update(a))
}

func ledgerCount(store *memStore, walletID uint, txType, status string) int {
	n := 0
	for _, tx := range store.ledgerRows(walletID) {
		if tx.Type == txType && tx.Status == status {
			n++
		}
	}
	return n
}

func TestFinalizeCapturesWinnerReleasesLosers(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")
	store.addWallet(bidderB, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	placeBid(t, svc, a.ID, bidderB, "130.00")
	endAuction(t, store, a.ID)

	require.NoError(t, svc.Finalize(context.Background(), a.ID))

	settled, _ := store.GetByID(a.ID)
	require.NotNil(t, settled.WinnerID)
	assert.Equal(t, bidderB, *settled.WinnerID)

	// Winner pays the hammer price; the loser pays nothing.
	wb, _ := store.walletRepo().GetByUserID(bidderB)
	assert.True(t, wb.Balance.Equal(d("370.00")))
	wa, _ := store.walletRepo().GetByUserID(bidderA)
	assert.True(t, wa.Balance.Equal(d("500.00")))

	// Every hold is gone once the auction settles.
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())
	assert.True(t, heldFor(t, store, a.ID, bidderB).IsZero())

	assert.Equal(t, 1, ledgerCount(store, wb.ID, models.TransactionTypeAuctionCapture, models.TransactionStatusSucceeded))
	assert.Equal(t, 0, ledgerCount(store, wa.ID, models.TransactionTypeAuctionCapture, models.TransactionStatusSucceeded))
}

func TestFinalizeWithoutBids(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusEnded)

	require.NoError(t, svc.Finalize(context.Background(), a.ID))

	settled, _ := store.GetByID(a.ID)
	assert.Nil(t, settled.WinnerID)
	assert.Empty(t, store.ledger)
}

func TestFinalizeIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	endAuction(t, store, a.ID)

	require.NoError(t, svc.Finalize(context.Background(), a.ID))
	rowsAfterFirst := len(store.ledger)
	wAfterFirst, _ := store.walletRepo().GetByUserID(bidderA)

	// A second settlement pass must not move money again.
	require.NoError(t, svc.Finalize(context.Background(), a.ID))
	assert.Equal(t, rowsAfterFirst, len(store.ledger))
	wAfterSecond, _ := store.walletRepo().GetByUserID(bidderA)
	assert.True(t, wAfterSecond.Balance.Equal(wAfterFirst.Balance))
}

func TestFinalizeNotEndedIsNoOp(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")
	placeBid(t, svc, a.ID, bidderA, "110.00")

	require.NoError(t, svc.Finalize(context.Background(), a.ID))

	current, _ := store.GetByID(a.ID)
	assert.Nil(t, current.WinnerID)
	assert.True(t, heldFor(t, store, a.ID, bidderA).Equal(d("100")))
}

func TestFinalizeUnderfundedWinner(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "100.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")

	// Drain the balance below the hammer price behind the escrow's back,
	// the way an external debit would.
	w, _ := store.walletRepo().GetByUserID(bidderA)
	w.Balance = d("40.00")
	require.NoError(t, store.walletRepo().Update(w))

	endAuction(t, store, a.ID)
	require.NoError(t, svc.Finalize(context.Background(), a.ID))

	// The available balance is captured in full; the rest becomes a
	// pending receivable. The balance never goes negative.
	w, _ = store.walletRepo().GetByUserID(bidderA)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, 1, ledgerCount(store, w.ID, models.TransactionTypeAuctionCapture, models.TransactionStatusSucceeded))
	assert.Equal(t, 1, ledgerCount(store, w.ID, models.TransactionTypeAuctionCapture, models.TransactionStatusPending))

	for _, tx := range store.ledgerRows(w.ID) {
		if tx.Type != models.TransactionTypeAuctionCapture {
			continue
		}
		if tx.Status == models.TransactionStatusPending {
			assert.True(t, tx.Amount.Equal(d("70.00")), "receivable %s", tx.Amount)
		} else {
			assert.True(t, tx.Amount.Equal(d("40.00")), "captured %s", tx.Amount)
		}
	}

	settled, _ := store.GetByID(a.ID)
	require.NotNil(t, settled.WinnerID)
	assert.Equal(t, bidderA, *settled.WinnerID)
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())
}

func TestGetSettlesEndedAuctionLazily(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	endAuction(t, store, a.ID)

	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, bidderA, *got.WinnerID)
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())
}

func TestGetUnknownAuction(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}

func TestListBids(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")
	store.addWallet(bidderB, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	placeBid(t, svc, a.ID, bidderB, "120.00")
	placeBid(t, svc, a.ID, bidderA, "130.00")

	bids, err := svc.ListBids(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 3)

	_, err = svc.ListBids(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}
