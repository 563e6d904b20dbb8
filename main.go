package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"auctiond/internal/clock"
	"auctiond/internal/config"
	"auctiond/internal/database/db_client"
	"auctiond/internal/database/migrations"
	"auctiond/internal/feed"
	"auctiond/internal/http/http_server"
	"auctiond/internal/lifecycle"
	"auctiond/internal/redis/redis_client"
	"auctiond/internal/services/bidding"
	"auctiond/internal/services/listing"
	"auctiond/internal/store/auctionstore"
	"auctiond/internal/store/bidstore"
	"auctiond/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (change feed + dead-letter streams)
	redisClient, err := redis_client.NewRedisClient(ctx, cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// 4. Postgres db client + schema
	pgDb, err := db_client.Open(ctx, cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	if err := migrations.Apply(ctx, pgDb); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 5. Stores and services
	clk := clock.NewSystem()
	publisher := feed.NewPublisher(redisClient, cfg.ChangeStream)
	auctionStore := auctionstore.New(pgDb, publisher)
	bidStore := bidstore.New(pgDb)

	biddingSvc := bidding.NewBiddingService(bidStore, clk)
	listingSvc := listing.NewListingService(auctionStore, clk, cfg.DefaultAuctionDuration)

	// 6. WebSockets hub for live watchers
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, listingSvc)

	// 7. Background: change-feed router -> lifecycle reconciler
	sink := feed.NewDeadLetterSink(redisClient, cfg.DeadLetterStream)
	reconciler := lifecycle.NewReconciler(auctionStore, clk)
	lifecycle.NewRouter(redisClient, cfg.ChangeStream, reconciler, sink, cfg.EventMaxAttempts).
		WithBroadcaster(hub).
		Run(ctx)

	// 8. Background: closing sweep (no change event fires at endDate)
	lifecycle.NewSweeper(auctionStore, bidStore, clk, cfg.SweepInterval).Run(ctx)

	// 9. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, biddingSvc, listingSvc)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
