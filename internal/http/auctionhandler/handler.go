package auctionhandler

import (
	"errors"
	"net/http"

	"auctiond/internal/auction"
	"auctiond/internal/services/listing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc listing.IListingService
}

func New(svc listing.IListingService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/items", h.createItem)
	r.POST("/auctions", h.createAuction)
	r.GET("/auctions", h.getAuction)
}

func (h *Handler) createItem(ginCtx *gin.Context) {
	var body CreateItemBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: codeMissingFields, Error: err.Error()})
		return
	}

	it, err := h.svc.CreateItem(ginCtx.Request.Context(), body.Name)
	if err != nil {
		zap.L().Error("create item failed", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Code: codeServerError, Error: "server error"})
		return
	}
	ginCtx.JSON(http.StatusCreated, it)
}

func (h *Handler) createAuction(ginCtx *gin.Context) {
	var body CreateAuctionBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: codeMissingFields, Error: err.Error()})
		return
	}

	a, err := h.svc.CreateAuction(ginCtx.Request.Context(), body.ItemID, body.StartDate, body.EndDate)
	switch {
	case err == nil:
		ginCtx.JSON(http.StatusCreated, a)
	case errors.Is(err, auction.ErrMissingFields):
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: codeMissingFields, Error: err.Error()})
	default:
		zap.L().Error("create auction failed", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Code: codeServerError, Error: "server error"})
	}
}

func (h *Handler) getAuction(ginCtx *gin.Context) {
	var q GetAuctionQuery
	if err := ginCtx.ShouldBindQuery(&q); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Code: codeMissingFields, Error: err.Error()})
		return
	}

	a, err := h.svc.GetAuction(ginCtx.Request.Context(), q.AuctionID)
	switch {
	case err == nil:
		ginCtx.JSON(http.StatusOK, a)
	case errors.Is(err, auction.ErrAuctionNotFound):
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Code: codeNotFound, Error: "auction not found"})
	default:
		zap.L().Error("get auction failed", zap.Error(err))
		ginCtx.JSON(http.StatusInternalServerError, &ErrorResponse{Code: codeServerError, Error: "server error"})
	}
}
