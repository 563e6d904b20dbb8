package bidhandler

// PlaceBidBody mirrors the bid placement boundary: bidPrice is a
// pointer so an absent field maps to MissingFields while an explicit
// zero maps to InvalidBid.
type PlaceBidBody struct {
	AuctionID string   `json:"auctionID"`
	UserID    string   `json:"userID"`
	BidPrice  *float64 `json:"bidPrice"`
}

type GetBidQuery struct {
	AuctionID string `form:"auctionID" binding:"required"`
	UserID    string `form:"userID"    binding:"required"`
}

// ErrorResponse carries a machine-readable reason per failure class.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const (
	CodeMissingFields  = "MissingFields"
	CodeInvalidBid     = "InvalidBid"
	CodeAuctionNotOpen = "AuctionNotOpen"
	CodeNotFound       = "NotFound"
	CodeServerError    = "ServerError"
)
