package auction

import (
	"fmt"
	"strings"
	"time"
)

// Status of an auction. Transitions are monotonic:
// CLOSED -> OPEN -> SETTLED, never backwards.
type Status string

const (
	StatusClosed  Status = "CLOSED"
	StatusOpen    Status = "OPEN"
	StatusSettled Status = "SETTLED"
)

// KeySeparator joins itemID and startDate into an auction ID.
const KeySeparator = "#"

// Auction is one listing with a bounded bidding window.
// Identity is the (ItemID, StartDate) pair; StartDate stays the exact
// RFC3339 string it was created with so the composite key round-trips.
type Auction struct {
	ItemID        string    `json:"itemID"`
	StartDate     string    `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	WinningUserID string    `json:"winningUserID,omitempty"`
	FinalPrice    float64   `json:"finalPrice,omitempty"`
}

// ID derives the auction ID used as the bid partition key.
func (a Auction) ID() string {
	return a.ItemID + KeySeparator + a.StartDate
}

// StartTime parses the identity start date.
func (a Auction) StartTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse startDate %q: %w", a.StartDate, err)
	}
	return t, nil
}

// SplitID breaks an auction ID back into its key parts.
func SplitID(id string) (itemID, startDate string, err error) {
	itemID, startDate, ok := strings.Cut(id, KeySeparator)
	if !ok || itemID == "" || startDate == "" {
		return "", "", fmt.Errorf("malformed auction id %q", id)
	}
	return itemID, startDate, nil
}

// Item is a sellable thing an auction refers to.
type Item struct {
	ID        string    `json:"ID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bid is one bidder's price commitment against one auction.
// A bidder holds at most one bid per auction; a later bid overwrites.
type Bid struct {
	AuctionID string    `json:"auctionID"`
	UserID    string    `json:"userID"`
	BidPrice  float64   `json:"bidPrice"`
	CreatedAt time.Time `json:"createdAt"`
}
