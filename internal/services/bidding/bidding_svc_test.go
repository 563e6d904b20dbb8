package bidding

import (
	"context"
	"math"
	"testing"
	"time"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBidStore struct {
	bids    map[string]auction.Bid // key: auctionID|userID
	notOpen bool
	writes  int
}

func newFakeBidStore() *fakeBidStore {
	return &fakeBidStore{bids: map[string]auction.Bid{}}
}

func (f *fakeBidStore) PutIfAuctionOpen(_ context.Context, b auction.Bid) error {
	if f.notOpen {
		return auction.ErrAuctionNotOpen
	}
	f.writes++
	f.bids[b.AuctionID+"|"+b.UserID] = b
	return nil
}

func (f *fakeBidStore) Get(_ context.Context, auctionID, userID string) (auction.Bid, error) {
	b, ok := f.bids[auctionID+"|"+userID]
	if !ok {
		return auction.Bid{}, auction.ErrBidNotFound
	}
	return b, nil
}

var (
	now           = time.Date(2025, 7, 27, 16, 30, 0, 0, time.UTC)
	openAuctionID = "item-1#2025-07-27T16:05:05Z"
)

func newSvc(store *fakeBidStore) IBiddingService {
	return NewBiddingService(store, clock.NewFixed(now))
}

func TestPlaceBidSucceedsOnOpenAuction(t *testing.T) {
	store := newFakeBidStore()
	svc := newSvc(store)

	bid, err := svc.PlaceBid(context.Background(), openAuctionID, "user-1", 100)
	require.NoError(t, err)
	assert.Equal(t, openAuctionID, bid.AuctionID)
	assert.Equal(t, "user-1", bid.UserID)
	assert.Equal(t, 100.0, bid.BidPrice)
	assert.Equal(t, now, bid.CreatedAt)

	// the stored bid reads back identical by key
	stored, err := svc.GetBid(context.Background(), openAuctionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, bid, stored)
}

func TestPlaceBidRejectsNonPositivePrice(t *testing.T) {
	store := newFakeBidStore()
	svc := newSvc(store)

	for _, price := range []float64{0, -1, -0.01, math.NaN(), math.Inf(1)} {
		_, err := svc.PlaceBid(context.Background(), openAuctionID, "user-1", price)
		assert.ErrorIs(t, err, auction.ErrInvalidBid, "price %v", price)
	}
	assert.Zero(t, store.writes, "rejected bids must not reach the store")
}

func TestPlaceBidRejectsMissingFields(t *testing.T) {
	store := newFakeBidStore()
	svc := newSvc(store)

	_, err := svc.PlaceBid(context.Background(), "", "user-1", 100)
	assert.ErrorIs(t, err, auction.ErrMissingFields)
	_, err = svc.PlaceBid(context.Background(), openAuctionID, "", 100)
	assert.ErrorIs(t, err, auction.ErrMissingFields)
	assert.Zero(t, store.writes)
}

func TestPlaceBidOnClosedAuction(t *testing.T) {
	store := newFakeBidStore()
	store.notOpen = true
	svc := newSvc(store)

	_, err := svc.PlaceBid(context.Background(), openAuctionID, "user-1", 100)
	assert.ErrorIs(t, err, auction.ErrAuctionNotOpen)
	assert.Empty(t, store.bids, "no bid record may be created")
}

func TestPlaceBidOverwritesPreviousBid(t *testing.T) {
	store := newFakeBidStore()
	svc := newSvc(store)

	_, err := svc.PlaceBid(context.Background(), openAuctionID, "user-1", 100)
	require.NoError(t, err)
	_, err = svc.PlaceBid(context.Background(), openAuctionID, "user-1", 150)
	require.NoError(t, err)

	stored, err := svc.GetBid(context.Background(), openAuctionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 150.0, stored.BidPrice)
}
