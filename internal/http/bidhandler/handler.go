package bidhandler

import (
	"errors"
	"net/http"

	"auctiond/internal/auction"
	"auctiond/internal/services/bidding"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc bidding.IBiddingService
}

func New(svc bidding.IBiddingService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/bids", h.place)
	r.GET("/bids", h.get)
}

func (h *Handler) place(ginCtx *gin.Context) {
	var body PlaceBidBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{
			Code:  CodeMissingFields,
			Error: "missing body, provide arguments: [auctionID, userID, bidPrice]",
		})
		return
	}
	if body.AuctionID == "" || body.UserID == "" || body.BidPrice == nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{
			Code:  CodeMissingFields,
			Error: "auctionID, userID and bidPrice are required",
		})
		return
	}

	bid, err := h.svc.PlaceBid(ginCtx.Request.Context(), body.AuctionID, body.UserID, *body.BidPrice)
	switch {
	case err == nil:
		ginCtx.JSON(http.StatusOK, bid)
	case errors.Is(err, auction.ErrMissingFields):
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: CodeMissingFields, Error: err.Error()})
	case errors.Is(err, auction.ErrInvalidBid):
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: CodeInvalidBid, Error: "invalid bid price"})
	case errors.Is(err, auction.ErrAuctionNotOpen):
		ginCtx.JSON(http.StatusConflict, &ErrorResponse{Code: CodeAuctionNotOpen, Error: "auction is not open"})
	default:
		zap.L().Error("place bid failed", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Code: CodeServerError, Error: "server error"})
	}
}

func (h *Handler) get(ginCtx *gin.Context) {
	var q GetBidQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: CodeMissingFields, Error: err.Error()})
		return
	}

	bid, err := h.svc.GetBid(ginCtx.Request.Context(), q.AuctionID, q.UserID)
	switch {
	case err == nil:
		ginCtx.JSON(http.StatusOK, bid)
	case errors.Is(err, auction.ErrBidNotFound):
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Code: CodeNotFound, Error: "bid not found"})
	default:
		zap.L().Error("get bid failed", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Code: CodeServerError, Error: "server error"})
	}
}
