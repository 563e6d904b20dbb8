package lifecycle

import (
	"context"
	"errors"

	"auctiond/internal/auction"
	"auctiond/internal/clock"

	"go.uber.org/zap"
)

// AuctionOpener is the slice of the auction store the reconciler needs.
type AuctionOpener interface {
	OpenIfClosed(ctx context.Context, itemID, startDate string) error
}

// Reconciler advances auction state in response to change-feed events.
// Events arrive at-least-once and possibly stale, so it never trusts
// the snapshot beyond identity: the transition itself is a conditional
// write that re-checks stored status.
type Reconciler struct {
	store AuctionOpener
	clk   clock.Clock
}

func NewReconciler(store AuctionOpener, clk clock.Clock) *Reconciler {
	return &Reconciler{store: store, clk: clk}
}

// OnChangeEvent applies at most one CLOSED -> OPEN transition for the
// event's auction. A nil return means handled (including every no-op
// path); a non-nil return is retryable by the caller.
func (r *Reconciler) OnChangeEvent(ctx context.Context, ev auction.ChangeEvent) error {
	if ev.Kind == auction.EventRemove {
		return nil
	}
	if !ev.Valid() {
		zap.L().Debug("event missing identity fields, skipping")
		return nil
	}

	snap := ev.Auction
	if snap.Status != auction.StatusClosed {
		return nil
	}

	start, err := snap.StartTime()
	if err != nil {
		zap.L().Warn("unparseable startDate, skipping",
			zap.String("item_id", snap.ItemID),
			zap.String("start_date", snap.StartDate),
		)
		return nil
	}
	if start.After(r.clk.Now()) {
		return nil
	}

	err = r.store.OpenIfClosed(ctx, snap.ItemID, snap.StartDate)
	if errors.Is(err, auction.ErrStatusConflict) {
		// Another worker (or an earlier delivery of this event)
		// already moved the auction past CLOSED.
		return nil
	}
	if err != nil {
		return err
	}

	zap.L().Info("auction opened",
		zap.String("item_id", snap.ItemID),
		zap.String("start_date", snap.StartDate),
	)
	return nil
}
