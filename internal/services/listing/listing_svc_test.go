package listing

import (
	"context"
	"testing"
	"time"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuctionStore struct {
	auctions map[string]auction.Auction
	items    map[string]auction.Item
}

func newFakeAuctionStore() *fakeAuctionStore {
	return &fakeAuctionStore{
		auctions: map[string]auction.Auction{},
		items:    map[string]auction.Item{},
	}
}

func (f *fakeAuctionStore) Put(_ context.Context, a auction.Auction) error {
	f.auctions[a.ID()] = a
	return nil
}

func (f *fakeAuctionStore) Get(_ context.Context, itemID, startDate string) (auction.Auction, error) {
	a, ok := f.auctions[itemID+auction.KeySeparator+startDate]
	if !ok {
		return auction.Auction{}, auction.ErrAuctionNotFound
	}
	return a, nil
}

func (f *fakeAuctionStore) PutItem(_ context.Context, it auction.Item) error {
	f.items[it.ID] = it
	return nil
}

func (f *fakeAuctionStore) GetItem(_ context.Context, id string) (auction.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return auction.Item{}, auction.ErrItemNotFound
	}
	return it, nil
}

var now = time.Date(2025, 7, 27, 15, 0, 0, 0, time.UTC)

func TestCreateItemAssignsID(t *testing.T) {
	store := newFakeAuctionStore()
	svc := NewListingService(store, clock.NewFixed(now), time.Hour)

	it, err := svc.CreateItem(context.Background(), "vintage-guitar")
	require.NoError(t, err)
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "vintage-guitar", it.Name)
	assert.Contains(t, store.items, it.ID)
}

func TestCreateAuctionStartsClosed(t *testing.T) {
	store := newFakeAuctionStore()
	svc := NewListingService(store, clock.NewFixed(now), time.Hour)

	start := now.Add(10 * time.Minute)
	a, err := svc.CreateAuction(context.Background(), "item-1", start, nil)
	require.NoError(t, err)
	assert.Equal(t, auction.StatusClosed, a.Status)
	assert.Equal(t, start.Format(time.RFC3339), a.StartDate)
	assert.Equal(t, start.Add(time.Hour), a.EndDate, "endDate defaults to startDate + duration")
	assert.Equal(t, now, a.CreatedAt)
}

func TestCreateAuctionHonorsExplicitEndDate(t *testing.T) {
	store := newFakeAuctionStore()
	svc := NewListingService(store, clock.NewFixed(now), time.Hour)

	start := now
	end := now.Add(5 * time.Minute)
	a, err := svc.CreateAuction(context.Background(), "item-1", start, &end)
	require.NoError(t, err)
	assert.Equal(t, end, a.EndDate)
}

func TestCreateAuctionRejectsInvertedWindow(t *testing.T) {
	svc := NewListingService(newFakeAuctionStore(), clock.NewFixed(now), time.Hour)

	end := now.Add(-time.Minute)
	_, err := svc.CreateAuction(context.Background(), "item-1", now, &end)
	assert.ErrorIs(t, err, auction.ErrMissingFields)
}

func TestGetAuctionByID(t *testing.T) {
	store := newFakeAuctionStore()
	svc := NewListingService(store, clock.NewFixed(now), time.Hour)

	a, err := svc.CreateAuction(context.Background(), "item-1", now, nil)
	require.NoError(t, err)

	got, err := svc.GetAuction(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = svc.GetAuction(context.Background(), "malformed-id")
	assert.ErrorIs(t, err, auction.ErrAuctionNotFound)
}
