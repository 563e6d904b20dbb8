package bidding

import (
	"context"
	"fmt"
	"math"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"go.uber.org/zap"
)

// BidStore is the slice of the bid store the service needs.
type BidStore interface {
	PutIfAuctionOpen(ctx context.Context, b auction.Bid) error
	Get(ctx context.Context, auctionID, userID string) (auction.Bid, error)
}

type IBiddingService interface {
	PlaceBid(ctx context.Context, auctionID, userID string, bidPrice float64) (auction.Bid, error)
	GetBid(ctx context.Context, auctionID, userID string) (auction.Bid, error)
}

type biddingService struct {
	bids BidStore
	clk  clock.Clock
}

func NewBiddingService(bids BidStore, clk clock.Clock) IBiddingService {
	return &biddingService{bids: bids, clk: clk}
}

// PlaceBid validates and commits one bid. Validation failures return
// before any store access; acceptance itself is conditional on the
// auction still being OPEN at write time, so there is no window where
// a bid lands on a closed auction.
func (s *biddingService) PlaceBid(ctx context.Context, auctionID, userID string, bidPrice float64) (auction.Bid, error) {
	if auctionID == "" || userID == "" {
		return auction.Bid{}, auction.ErrMissingFields
	}
	if bidPrice <= 0 || math.IsNaN(bidPrice) || math.IsInf(bidPrice, 0) {
		return auction.Bid{}, auction.ErrInvalidBid
	}

	bid := auction.Bid{
		AuctionID: auctionID,
		UserID:    userID,
		BidPrice:  bidPrice,
		CreatedAt: s.clk.Now(),
	}

	if err := s.bids.PutIfAuctionOpen(ctx, bid); err != nil {
		return auction.Bid{}, fmt.Errorf("place bid on %s: %w", auctionID, err)
	}

	zap.L().Info("bid placed",
		zap.String("auction_id", auctionID),
		zap.String("user_id", userID),
		zap.Float64("bid_price", bidPrice),
	)
	return bid, nil
}

func (s *biddingService) GetBid(ctx context.Context, auctionID, userID string) (auction.Bid, error) {
	if auctionID == "" || userID == "" {
		return auction.Bid{}, auction.ErrMissingFields
	}
	return s.bids.Get(ctx, auctionID, userID)
}
