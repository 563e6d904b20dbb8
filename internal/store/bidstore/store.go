package bidstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auctiond/internal/auction"
)

// Store holds one bid per (auction_id, user_id). A later bid from the
// same user overwrites the earlier one.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// PutIfAuctionOpen commits a bid only while the referenced auction row
// is OPEN. The status check and the write are one statement, so a bid
// can never land after the auction left the OPEN state.
func (s *Store) PutIfAuctionOpen(ctx context.Context, b auction.Bid) error {
	itemID, startDate, err := auction.SplitID(b.AuctionID)
	if err != nil {
		// Malformed IDs cannot reference an open auction.
		return auction.ErrAuctionNotOpen
	}

	const q = `
	INSERT INTO bids (auction_id, user_id, bid_price, created_at)
	SELECT $1, $2, $3, $4
	 WHERE EXISTS (
	       SELECT 1 FROM auctions
	        WHERE item_id = $5 AND start_date = $6 AND status = $7)
	ON CONFLICT (auction_id, user_id) DO UPDATE
	       SET bid_price  = EXCLUDED.bid_price,
	           created_at = EXCLUDED.created_at`

	res, err := s.db.ExecContext(ctx, q,
		b.AuctionID, b.UserID, b.BidPrice, b.CreatedAt,
		itemID, startDate, auction.StatusOpen,
	)
	if err != nil {
		return fmt.Errorf("put bid %s/%s: %w", b.AuctionID, b.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put bid %s/%s: %w", b.AuctionID, b.UserID, err)
	}
	if n == 0 {
		return auction.ErrAuctionNotOpen
	}
	return nil
}

// Get reads a bid back by its composite key.
func (s *Store) Get(ctx context.Context, auctionID, userID string) (auction.Bid, error) {
	const q = `SELECT auction_id, user_id, bid_price, created_at FROM bids WHERE auction_id = $1 AND user_id = $2`
	var b auction.Bid
	err := s.db.QueryRowContext(ctx, q, auctionID, userID).
		Scan(&b.AuctionID, &b.UserID, &b.BidPrice, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auction.Bid{}, auction.ErrBidNotFound
	}
	if err != nil {
		return auction.Bid{}, fmt.Errorf("get bid %s/%s: %w", auctionID, userID, err)
	}
	return b, nil
}

// Winner returns the highest bid on an auction; ties go to the earlier
// bid. ErrBidNotFound when nobody bid.
func (s *Store) Winner(ctx context.Context, auctionID string) (auction.Bid, error) {
	const q = `
	SELECT auction_id, user_id, bid_price, created_at FROM bids
	 WHERE auction_id = $1
	 ORDER BY bid_price DESC, created_at ASC
	 LIMIT 1`
	var b auction.Bid
	err := s.db.QueryRowContext(ctx, q, auctionID).
		Scan(&b.AuctionID, &b.UserID, &b.BidPrice, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auction.Bid{}, auction.ErrBidNotFound
	}
	if err != nil {
		return auction.Bid{}, fmt.Errorf("winner for %s: %w", auctionID, err)
	}
	return b, nil
}
