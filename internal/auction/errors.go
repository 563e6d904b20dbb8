package auction

import "errors"

// Validation errors, rejected before any store access.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidBid    = errors.New("invalid bid price")
)

// Precondition and lookup errors.
var (
	ErrAuctionNotOpen  = errors.New("auction not open")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBidNotFound     = errors.New("bid not found")

	// ErrStatusConflict means a conditional status write found the
	// record in a different state than expected. For the reconciler
	// this is benign: another worker already applied the transition.
	ErrStatusConflict = errors.New("status precondition failed")
)
