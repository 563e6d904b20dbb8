package listing

import (
	"context"
	"fmt"
	"time"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuctionStore is the slice of the auction store the listing
// workflow needs.
type AuctionStore interface {
	Put(ctx context.Context, a auction.Auction) error
	Get(ctx context.Context, itemID, startDate string) (auction.Auction, error)
	PutItem(ctx context.Context, it auction.Item) error
	GetItem(ctx context.Context, id string) (auction.Item, error)
}

type IListingService interface {
	CreateItem(ctx context.Context, name string) (auction.Item, error)
	CreateAuction(ctx context.Context, itemID string, startDate time.Time, endDate *time.Time) (auction.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (auction.Auction, error)
}

type listingService struct {
	store           AuctionStore
	clk             clock.Clock
	defaultDuration time.Duration
}

func NewListingService(store AuctionStore, clk clock.Clock, defaultDuration time.Duration) IListingService {
	return &listingService{
		store:           store,
		clk:             clk,
		defaultDuration: defaultDuration,
	}
}

func (s *listingService) CreateItem(ctx context.Context, name string) (auction.Item, error) {
	if name == "" {
		return auction.Item{}, auction.ErrMissingFields
	}
	it := auction.Item{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.clk.Now(),
	}
	if err := s.store.PutItem(ctx, it); err != nil {
		return auction.Item{}, err
	}
	return it, nil
}

// CreateAuction lists an auction in CLOSED status. Only the lifecycle
// reconciler opens it, once the start date has elapsed.
func (s *listingService) CreateAuction(ctx context.Context, itemID string, startDate time.Time, endDate *time.Time) (auction.Auction, error) {
	if itemID == "" || startDate.IsZero() {
		return auction.Auction{}, auction.ErrMissingFields
	}

	start := startDate.UTC()
	end := start.Add(s.defaultDuration)
	if endDate != nil {
		end = endDate.UTC()
	}
	if !end.After(start) {
		return auction.Auction{}, fmt.Errorf("%w: endDate before startDate", auction.ErrMissingFields)
	}

	a := auction.Auction{
		ItemID:    itemID,
		StartDate: start.Format(time.RFC3339),
		EndDate:   end,
		Status:    auction.StatusClosed,
		CreatedAt: s.clk.Now(),
	}
	if err := s.store.Put(ctx, a); err != nil {
		return auction.Auction{}, err
	}

	zap.L().Info("auction listed",
		zap.String("auction_id", a.ID()),
		zap.Time("end_date", a.EndDate),
	)
	return a, nil
}

func (s *listingService) GetAuction(ctx context.Context, auctionID string) (auction.Auction, error) {
	itemID, startDate, err := auction.SplitID(auctionID)
	if err != nil {
		return auction.Auction{}, auction.ErrAuctionNotFound
	}
	return s.store.Get(ctx, itemID, startDate)
}
