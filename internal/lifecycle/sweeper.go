package lifecycle

import (
	"context"
	"errors"
	"time"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"go.uber.org/zap"
)

// AuctionSettler is the slice of the auction store the sweep needs.
type AuctionSettler interface {
	ListDue(ctx context.Context, now time.Time) ([]auction.Auction, error)
	SettleIfOpen(ctx context.Context, itemID, startDate, winningUserID string, finalPrice float64) error
}

// WinnerSource resolves the winning bid for an auction.
type WinnerSource interface {
	Winner(ctx context.Context, auctionID string) (auction.Bid, error)
}

// Sweeper closes auctions whose end date has passed. No store write
// happens naturally at endDate to produce a change event, so this is a
// time-triggered pass: every interval it settles due auctions with the
// winning bid, via the same conditional-write discipline the
// reconciler uses.
type Sweeper struct {
	auctions AuctionSettler
	bids     WinnerSource
	clk      clock.Clock
	interval time.Duration
}

func NewSweeper(auctions AuctionSettler, bids WinnerSource, clk clock.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{
		auctions: auctions,
		bids:     bids,
		clk:      clk,
		interval: interval,
	}
}

// Run starts the periodic sweep. Must be started once at service boot.
func (s *Sweeper) Run(ctx context.Context) {
	tk := time.NewTicker(s.interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// SweepOnce settles every due auction. Failures on one auction do not
// stop the pass; the next tick retries whatever is still OPEN.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	due, err := s.auctions.ListDue(ctx, s.clk.Now())
	if err != nil {
		zap.L().Error("sweep.list_due", zap.Error(err))
		return
	}

	for _, a := range due {
		if err := s.settle(ctx, a); err != nil {
			zap.L().Error("sweep.settle",
				zap.String("auction_id", a.ID()),
				zap.Error(err),
			)
		}
	}
}

func (s *Sweeper) settle(ctx context.Context, a auction.Auction) error {
	var winnerID string
	var finalPrice float64

	win, err := s.bids.Winner(ctx, a.ID())
	switch {
	case err == nil:
		winnerID, finalPrice = win.UserID, win.BidPrice
	case errors.Is(err, auction.ErrBidNotFound):
		// no bids: settle without a winner
	default:
		return err
	}

	err = s.auctions.SettleIfOpen(ctx, a.ItemID, a.StartDate, winnerID, finalPrice)
	if errors.Is(err, auction.ErrStatusConflict) {
		return nil // another sweep got there first
	}
	if err != nil {
		return err
	}

	zap.L().Info("auction settled",
		zap.String("auction_id", a.ID()),
		zap.String("winning_user_id", winnerID),
		zap.Float64("final_price", finalPrice),
	)
	return nil
}
