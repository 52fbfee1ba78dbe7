package auction

import (
	"context"
	"testing"
	"time"

	"evmarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func seedScheduled(t *testing.T, store *memStore, start, end time.Time) *models.Auction {
	t.Helper()
	a := &models.Auction{
		AssetRef:     models.AssetRef{AssetType: models.AssetTypeVehicle, AssetID: 1},
		Title:        "city hatchback",
		StartPrice:   d("100.00"),
		MinIncrement: d("10.00"),
		DepositRate:  d("0.10"),
		CurrentPrice: d("100.00"),
		Status:       models.AuctionStatusScheduled,
		StartTime:    start,
		EndTime:      end,
		CreatedBy:    adminID,
	}
	require.NoError(t, store.Create(a))
	return a
}

func TestStartDue(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	due := seedScheduled(t, store, now.Add(-time.Minute), now.Add(time.Hour))
	notYet := seedScheduled(t, store, now.Add(time.Minute), now.Add(time.Hour))

	started, err := svc.StartDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, started)

	a, _ := store.GetByID(due.ID)
	assert.Equal(t, models.AuctionStatusRunning, a.Status)
	b, _ := store.GetByID(notYet.ID)
	assert.Equal(t, models.AuctionStatusScheduled, b.Status)
}

func TestEndDue(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	running := seedScheduled(t, store, now.Add(-2*time.Hour), now.Add(-time.Minute))
	running.Status = models.AuctionStatusRunning
	require.NoError(t, store.Update(running))

	stillOpen := seedScheduled(t, store, now.Add(-time.Hour), now.Add(time.Hour))
	stillOpen.Status = models.AuctionStatusRunning
	require.NoError(t, store.Update(stillOpen))

	ended, err := svc.EndDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, ended, 1)
	assert.Equal(t, running.ID, ended[0])

	a, _ := store.GetByID(running.ID)
	assert.Equal(t, models.AuctionStatusEnded, a.Status)
	b, _ := store.GetByID(stillOpen.ID)
	assert.Equal(t, models.AuctionStatusRunning, b.Status)
}

func TestSweepPassAdvancesLifecycleAndSettles(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	sweeper := NewSweeper(svc, clock, time.Second)

	a := seedScheduled(t, store, clock.now.Add(time.Minute), clock.now.Add(time.Hour))
	store.addWallet(bidderA, "500.00")

	// Before the start time nothing moves.
	sweeper.RunOnce(context.Background())
	current, _ := store.GetByID(a.ID)
	assert.Equal(t, models.AuctionStatusScheduled, current.Status)

	// Past the start time the auction opens for bidding.
	clock.now = clock.now.Add(2 * time.Minute)
	sweeper.RunOnce(context.Background())
	current, _ = store.GetByID(a.ID)
	assert.Equal(t, models.AuctionStatusRunning, current.Status)

	placeBid(t, svc, a.ID, bidderA, "110.00")

	// Past the end time one pass both ends and settles the auction.
	clock.now = clock.now.Add(2 * time.Hour)
	sweeper.RunOnce(context.Background())
	current, _ = store.GetByID(a.ID)
	assert.Equal(t, models.AuctionStatusEnded, current.Status)
	require.NotNil(t, current.WinnerID)
	assert.Equal(t, bidderA, *current.WinnerID)
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())

	w, _ := store.walletRepo().GetByUserID(bidderA)
	assert.True(t, w.Balance.Equal(d("390.00")))
}

func TestStartDueSkipsCanceled(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := seedScheduled(t, store, now.Add(-time.Minute), now.Add(time.Hour))
	require.NoError(t, svc.Cancel(context.Background(), a.ID, admin()))

	started, err := svc.StartDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, started)

	current, _ := store.GetByID(a.ID)
	assert.Equal(t, models.AuctionStatusCanceled, current.Status)
}

func TestNewSweeperDefaults(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	s := NewSweeper(svc, nil, 0)
	assert.Equal(t, DefaultSweepInterval, s.interval)
	assert.NotNil(t, s.clock)

	assert.Panics(t, func() { NewSweeper(nil, nil, 0) })
}
