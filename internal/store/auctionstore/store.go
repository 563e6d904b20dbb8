package auctionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auctiond/internal/auction"

	"go.uber.org/zap"
)

// EventPublisher receives a change event after every committed
// insert or update. Satisfied by feed.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev auction.ChangeEvent) error
}

// Store is the durable auction store. Records are keyed by
// (item_id, start_date); every committed mutation is pushed onto the
// change feed so the lifecycle pipeline can react to it.
type Store struct {
	db  *sql.DB
	pub EventPublisher
}

func New(db *sql.DB, pub EventPublisher) *Store {
	return &Store{db: db, pub: pub}
}

const auctionColumns = `item_id, start_date, end_date, status, created_at, winning_user_id, final_price`

// Put upserts an auction record and emits INSERT or MODIFY depending on
// whether the key already existed.
func (s *Store) Put(ctx context.Context, a auction.Auction) error {
	// xmax = 0 only for freshly inserted rows, which tells us
	// which event kind to emit.
	const q = `
	INSERT INTO auctions (item_id, start_date, end_date, status, created_at, winning_user_id, final_price)
	     VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (item_id, start_date) DO UPDATE
	       SET end_date        = EXCLUDED.end_date,
	           status          = EXCLUDED.status,
	           winning_user_id = EXCLUDED.winning_user_id,
	           final_price     = EXCLUDED.final_price
	 RETURNING (xmax = 0)`

	var inserted bool
	err := s.db.QueryRowContext(ctx, q,
		a.ItemID, a.StartDate, a.EndDate, a.Status, a.CreatedAt,
		a.WinningUserID, a.FinalPrice,
	).Scan(&inserted)
	if err != nil {
		return fmt.Errorf("put auction %s: %w", a.ID(), err)
	}

	kind := auction.EventModify
	if inserted {
		kind = auction.EventInsert
	}
	s.emit(ctx, kind, a)
	return nil
}

// Get reads one auction by its composite key.
func (s *Store) Get(ctx context.Context, itemID, startDate string) (auction.Auction, error) {
	const q = `SELECT ` + auctionColumns + ` FROM auctions WHERE item_id = $1 AND start_date = $2`
	a, err := scanAuction(s.db.QueryRowContext(ctx, q, itemID, startDate))
	if errors.Is(err, sql.ErrNoRows) {
		return auction.Auction{}, auction.ErrAuctionNotFound
	}
	if err != nil {
		return auction.Auction{}, fmt.Errorf("get auction %s%s%s: %w", itemID, auction.KeySeparator, startDate, err)
	}
	return a, nil
}

// OpenIfClosed flips CLOSED -> OPEN as a conditional write. The update
// only lands while the stored status is still CLOSED, which makes the
// transition idempotent under duplicate event delivery: the second
// apply loses the condition and surfaces ErrStatusConflict.
func (s *Store) OpenIfClosed(ctx context.Context, itemID, startDate string) error {
	const q = `
	UPDATE auctions SET status = $3
	 WHERE item_id = $1 AND start_date = $2 AND status = $4
	 RETURNING ` + auctionColumns

	a, err := scanAuction(s.db.QueryRowContext(ctx, q,
		itemID, startDate, auction.StatusOpen, auction.StatusClosed,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return auction.ErrStatusConflict
	}
	if err != nil {
		return fmt.Errorf("open auction %s%s%s: %w", itemID, auction.KeySeparator, startDate, err)
	}
	s.emit(ctx, auction.EventModify, a)
	return nil
}

// SettleIfOpen flips OPEN -> SETTLED and stamps the winner, under the
// same conditional-write discipline as OpenIfClosed.
func (s *Store) SettleIfOpen(ctx context.Context, itemID, startDate, winningUserID string, finalPrice float64) error {
	const q = `
	UPDATE auctions SET status = $3, winning_user_id = $4, final_price = $5
	 WHERE item_id = $1 AND start_date = $2 AND status = $6
	 RETURNING ` + auctionColumns

	a, err := scanAuction(s.db.QueryRowContext(ctx, q,
		itemID, startDate, auction.StatusSettled, winningUserID, finalPrice, auction.StatusOpen,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return auction.ErrStatusConflict
	}
	if err != nil {
		return fmt.Errorf("settle auction %s%s%s: %w", itemID, auction.KeySeparator, startDate, err)
	}
	s.emit(ctx, auction.EventModify, a)
	return nil
}

// ListDue returns OPEN auctions whose end date has passed.
func (s *Store) ListDue(ctx context.Context, now time.Time) ([]auction.Auction, error) {
	const q = `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1 AND end_date <= $2 ORDER BY end_date`
	rows, err := s.db.QueryContext(ctx, q, auction.StatusOpen, now)
	if err != nil {
		return nil, fmt.Errorf("list due auctions: %w", err)
	}
	defer rows.Close()

	var due []auction.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, a)
	}
	return due, rows.Err()
}

// PutItem stores a sellable item for the listing workflow.
func (s *Store) PutItem(ctx context.Context, it auction.Item) error {
	const q = `
	INSERT INTO auction_items (id, name, created_at)
	     VALUES ($1, $2, $3)
	ON CONFLICT (id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, it.ID, it.Name, it.CreatedAt); err != nil {
		return fmt.Errorf("put item %s: %w", it.ID, err)
	}
	return nil
}

// GetItem reads one item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (auction.Item, error) {
	const q = `SELECT id, name, created_at FROM auction_items WHERE id = $1`
	var it auction.Item
	err := s.db.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auction.Item{}, auction.ErrItemNotFound
	}
	if err != nil {
		return auction.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	return it, nil
}

// emit publishes after the commit. The row is already durable, so a
// publish failure is logged rather than unwound; the closing sweep and
// the re-validating reconciler bound the impact of a lost event.
func (s *Store) emit(ctx context.Context, kind auction.EventKind, a auction.Auction) {
	ev := auction.ChangeEvent{Kind: kind, Auction: &a}
	if err := s.pub.Publish(ctx, ev); err != nil {
		zap.L().Error("change feed publish failed",
			zap.String("auction_id", a.ID()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(r rowScanner) (auction.Auction, error) {
	var a auction.Auction
	err := r.Scan(&a.ItemID, &a.StartDate, &a.EndDate, &a.Status,
		&a.CreatedAt, &a.WinningUserID, &a.FinalPrice)
	return a, err
}
