package auctionhandler

import "time"

type CreateItemBody struct {
	Name string `json:"name" binding:"required" example:"vintage-guitar"`
}

type CreateAuctionBody struct {
	ItemID    string     `json:"itemID"    binding:"required"`
	StartDate time.Time  `json:"startDate" binding:"required" example:"2025-07-27T16:05:05Z"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type GetAuctionQuery struct {
	AuctionID string `form:"auctionID" binding:"required"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const (
	codeMissingFields = "MissingFields"
	codeNotFound      = "NotFound"
	codeServerError   = "ServerError"
)
