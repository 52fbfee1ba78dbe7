package auction

import (
	"context"
	"testing"
	"time"

	"evmarket/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID  = uint(1)
	bidderA  = uint(10)
	bidderB  = uint(11)
	memberID = bidderA
)

func admin() Actor  { return Actor{ID: adminID, Role: models.RoleAdmin} }
func member() Actor { return Actor{ID: memberID, Role: models.RoleMember} }

func seedAuction(t *testing.T, store *memStore, status string) *models.Auction {
	t.Helper()
	now := time.Now().UTC()
	a := &models.Auction{
		AssetRef:     models.AssetRef{AssetType: models.AssetTypeVehicle, AssetID: 1},
		Title:        "2021 long-range sedan",
		StartPrice:   d("100.00"),
		MinIncrement: d("10.00"),
		DepositRate:  d("0.10"),
		CurrentPrice: d("100.00"),
		Status:       status,
		StartTime:    now.Add(-time.Hour),
		EndTime:      now.Add(time.Hour),
		CreatedBy:    adminID,
	}
	require.NoError(t, store.Create(a))
	return a
}

func placeBid(t *testing.T, svc Service, auctionID, bidderID uint, amount string) *models.Bid {
	t.Helper()
	bid, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: auctionID,
		Bidder:    Actor{ID: bidderID, Role: models.RoleMember},
		Amount:    d(amount),
	})
	require.NoError(t, err)
	return bid
}

func heldFor(t *testing.T, store *memStore, auctionID, userID uint) decimal.Decimal {
	t.Helper()
	w, err := store.walletRepo().GetByUserID(userID)
	require.NoError(t, err)
	held, err := store.walletRepo().HeldAmount(auctionID, w.ID)
	require.NoError(t, err)
	return held
}

func TestCreateAuction(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	now := time.Now().UTC()

	created, err := svc.Create(context.Background(), CreateRequest{
		Actor:        admin(),
		Asset:        models.AssetRef{AssetType: models.AssetTypeBattery, AssetID: 7},
		Title:        "80kWh pack",
		StartPrice:   d("500.00"),
		MinIncrement: d("25.00"),
		DepositRate:  d("0.15"),
		StartTime:    now.Add(time.Hour),
		EndTime:      now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusScheduled, created.Status)
	assert.True(t, created.CurrentPrice.Equal(d("500.00")))
	assert.Nil(t, created.WinnerID)
}

func TestCreateAuctionValidation(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	now := time.Now().UTC()

	valid := CreateRequest{
		Actor:        admin(),
		Asset:        models.AssetRef{AssetType: models.AssetTypeVehicle, AssetID: 1},
		Title:        "sedan",
		StartPrice:   d("100.00"),
		MinIncrement: d("10.00"),
		DepositRate:  d("0.10"),
		StartTime:    now.Add(time.Hour),
		EndTime:      now.Add(2 * time.Hour),
	}

	cases := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"member cannot create", func(r *CreateRequest) { r.Actor = member() }, ErrForbidden},
		{"unknown asset type", func(r *CreateRequest) { r.Asset.AssetType = "scooter" }, ErrInvalidAsset},
		{"missing asset id", func(r *CreateRequest) { r.Asset.AssetID = 0 }, ErrInvalidAsset},
		{"end before start", func(r *CreateRequest) { r.EndTime = r.StartTime.Add(-time.Minute) }, ErrInvalidSchedule},
		{"zero start price", func(r *CreateRequest) { r.StartPrice = decimal.Zero }, ErrInvalidPricing},
		{"negative increment", func(r *CreateRequest) { r.MinIncrement = d("-1.00") }, ErrInvalidPricing},
		{"zero deposit rate", func(r *CreateRequest) { r.DepositRate = decimal.Zero }, ErrInvalidPricing},
		{"deposit rate above one", func(r *CreateRequest) { r.DepositRate = d("1.5") }, ErrInvalidPricing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRequiredDeposit(t *testing.T) {
	cases := []struct {
		name       string
		startPrice string
		amount     string
		rate       string
		want       string
	}{
		{"rate below floor uses start price", "100.00", "110.00", "0.10", "100"},
		{"rate above floor rounds up", "100.00", "1203.00", "0.10", "121"},
		{"exact multiple not rounded", "50.00", "1200.00", "0.10", "120"},
		{"full rate equals bid", "10.00", "42.00", "1", "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RequiredDeposit(d(tc.startPrice), d(tc.amount), d(tc.rate))
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestPlaceBidHoldsDeposit(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	bid := placeBid(t, svc, a.ID, bidderA, "110.00")
	assert.True(t, bid.Amount.Equal(d("110.00")))

	updated, err := store.GetByID(a.ID)
	require.NoError(t, err)
	assert.True(t, updated.CurrentPrice.Equal(d("110.00")))

	// The hold reserves funds without moving them.
	w, err := store.walletRepo().GetByUserID(bidderA)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(d("500.00")))
	assert.True(t, heldFor(t, store, a.ID, bidderA).Equal(d("100")))
}

func TestPlaceBidRaisesOwnHoldByShortfallOnly(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	placeBid(t, svc, a.ID, bidderA, "1200.00")

	// First bid held the 100 floor; the raise needs ceil(120) so only 20 more.
	assert.True(t, heldFor(t, store, a.ID, bidderA).Equal(d("120")))

	w, _ := store.walletRepo().GetByUserID(bidderA)
	holds := 0
	for _, tx := range store.ledgerRows(w.ID) {
		if tx.Type == models.TransactionTypeAuctionHold {
			holds++
		}
	}
	assert.Equal(t, 2, holds)
}

func TestPlaceBidAlreadyCoveredAddsNoHold(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	// 100 already held covers ceil(120*0.10)=12, floored to 100.
	placeBid(t, svc, a.ID, bidderA, "120.00")

	assert.True(t, heldFor(t, store, a.ID, bidderA).Equal(d("100")))
}

func TestCurrentPriceRisesMonotonically(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "1000.00")
	store.addWallet(bidderB, "1000.00")

	last := a.CurrentPrice
	for i, step := range []struct {
		bidder uint
		amount string
	}{
		{bidderA, "110.00"},
		{bidderB, "120.00"},
		{bidderA, "135.00"},
		{bidderB, "150.00"},
	} {
		placeBid(t, svc, a.ID, step.bidder, step.amount)
		current, _ := store.GetByID(a.ID)
		assert.True(t, current.CurrentPrice.GreaterThan(last), "step %d", i)
		last = current.CurrentPrice
	}

	// A bid at or below the standing price can never be accepted.
	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    member(),
		Amount:    d("150.00"),
	})
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestPlaceBidBelowMinimum(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    member(),
		Amount:    d("109.99"),
	})
	assert.ErrorIs(t, err, ErrBelowMinimum)

	_, err = svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    member(),
		Amount:    d("-5.00"),
	})
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestPlaceBidRequiresRunningAuction(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	store.addWallet(bidderA, "500.00")

	for _, status := range []string{
		models.AuctionStatusScheduled,
		models.AuctionStatusEnded,
		models.AuctionStatusCanceled,
	} {
		a := seedAuction(t, store, status)
		_, err := svc.PlaceBid(context.Background(), BidRequest{
			AuctionID: a.ID,
			Bidder:    member(),
			Amount:    d("110.00"),
		})
		assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
	}
}

func TestPlaceBidAdminForbidden(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    admin(),
		Amount:    d("110.00"),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPlaceBidWithoutWallet(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    member(),
		Amount:    d("110.00"),
	})
	assert.ErrorIs(t, err, ErrWalletMissing)
}

func TestPlaceBidInsufficientFunds(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "50.00")

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: a.ID,
		Bidder:    member(),
		Amount:    d("110.00"),
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())
	assert.Empty(t, store.bids)
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	store.addWallet(bidderA, "500.00")

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID: 99,
		Bidder:    member(),
		Amount:    d("110.00"),
	})
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}

type capturePublisher struct {
	events []BidEvent
}

func (p *capturePublisher) BidAccepted(_ context.Context, e BidEvent) error {
	p.events = append(p.events, e)
	return nil
}

func TestPlaceBidPublishesEvent(t *testing.T) {
	store := newMemStore()
	pub := &capturePublisher{}
	svc := NewService(store, pub)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")

	_, err := svc.PlaceBid(context.Background(), BidRequest{
		AuctionID:  a.ID,
		Bidder:     member(),
		BidderName: "alice@example.com",
		Amount:     d("110.00"),
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, a.ID, pub.events[0].AuctionID)
	assert.Equal(t, bidderA, pub.events[0].BidderID)
	assert.Equal(t, "alice@example.com", pub.events[0].BidderName)
	assert.True(t, pub.events[0].Amount.Equal(d("110.00")))
}

func TestCancelReleasesAllHolds(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	a := seedAuction(t, store, models.AuctionStatusRunning)
	store.addWallet(bidderA, "500.00")
	store.addWallet(bidderB, "500.00")

	placeBid(t, svc, a.ID, bidderA, "110.00")
	placeBid(t, svc, a.ID, bidderB, "130.00")

	require.NoError(t, svc.Cancel(context.Background(), a.ID, admin()))

	updated, _ := store.GetByID(a.ID)
	assert.Equal(t, models.AuctionStatusCanceled, updated.Status)
	assert.Nil(t, updated.WinnerID)
	assert.True(t, heldFor(t, store, a.ID, bidderA).IsZero())
	assert.True(t, heldFor(t, store, a.ID, bidderB).IsZero())

	// Nothing was captured; balances are untouched.
	wa, _ := store.walletRepo().GetByUserID(bidderA)
	wb, _ := store.walletRepo().GetByUserID(bidderB)
	assert.True(t, wa.Balance.Equal(d("500.00")))
	assert.True(t, wb.Balance.Equal(d("500.00")))
}

func TestCancelRules(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	a := seedAuction(t, store, models.AuctionStatusRunning)
	assert.ErrorIs(t, svc.Cancel(context.Background(), a.ID, member()), ErrForbidden)

	ended := seedAuction(t, store, models.AuctionStatusEnded)
	assert.ErrorIs(t, svc.Cancel(context.Background(), ended.ID, admin()), ErrInvalidState)

	assert.ErrorIs(t, svc.Cancel(context.Background(), 99, admin()), ErrAuctionNotFound)
}
