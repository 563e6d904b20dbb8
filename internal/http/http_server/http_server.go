package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"auctiond/internal/http/auctionhandler"
	"auctiond/internal/http/bidhandler"
	"auctiond/internal/services/bidding"
	"auctiond/internal/services/listing"
	"auctiond/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type httpServer struct {
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	biddingSvc bidding.IBiddingService
	listingSvc listing.IListingService
	wsSrv      *ws.WsServer
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer,
	biddingSvc bidding.IBiddingService, listingSvc listing.IListingService) *httpServer {
	return &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		biddingSvc: biddingSvc,
		listingSvc: listingSvc,
		ctx:        ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// live change-event endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	bidhandler.New(h.biddingSvc).Register(routerEngine)
	auctionhandler.New(h.listingSvc).Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}

	return nil
}
