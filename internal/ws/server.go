package ws

import (
	"net/http"
	"strings"
	"time"

	"auctiond/internal/services/listing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second // must be < pongWait
)

// WsServer streams auction change events to watchers. One room per
// auction; clients receive every event the lifecycle router sees for
// their auction, starting with a snapshot of the current record.
type WsServer struct {
	hub        *Hub
	listingSvc listing.IListingService
	upgrader   websocket.Upgrader
}

func NewWsServer(h *Hub, listingSvc listing.IListingService) *WsServer {
	return &WsServer{
		hub:        h,
		listingSvc: listingSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true }, // dev-only
		},
	}
}

// Handle is the gin entry point for GET /ws?auction_id=<id>.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	auctionID := ginCtx.Query("auction_id")
	if auctionID == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "auction_id is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)

	conn := &clientConn{rawConn: rawConn}
	s.hub.Join(auctionID, conn)

	if err := s.pushSnapshot(ginCtx, auctionID, conn); err != nil &&
		!strings.Contains(err.Error(), "not found") {
		zap.L().Warn("ws.snapshot", zap.Error(err))
	}

	go s.reader(auctionID, conn)
	go s.pinger(conn)
}

// pushSnapshot sends the auction's current state so new watchers do not
// start blind between events.
func (s *WsServer) pushSnapshot(ginCtx *gin.Context, auctionID string, conn *clientConn) error {
	a, err := s.listingSvc.GetAuction(ginCtx.Request.Context(), auctionID)
	if err != nil {
		return err
	}
	return conn.writeJSON(gin.H{
		"event": "auctions/snapshot",
		"body":  a,
	})
}

// reader drains inbound frames to detect a closing peer; bids travel
// over REST, not this socket.
func (s *WsServer) reader(auctionID string, conn *clientConn) {
	defer s.hub.Leave(auctionID, conn)

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.rawConn.ReadMessage(); err != nil {
			return // client closed or errored
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.write(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}
