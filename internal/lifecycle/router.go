package lifecycle

import (
	"context"
	"time"

	"auctiond/internal/auction"
	"auctiond/internal/feed"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventHandler processes one change event. A non-nil error is retryable.
type EventHandler interface {
	OnChangeEvent(ctx context.Context, ev auction.ChangeEvent) error
}

// DeadLetter receives events whose retry budget ran out.
type DeadLetter interface {
	Add(ctx context.Context, ev auction.ChangeEvent, attempts int, cause error) error
}

// Broadcaster pushes raw event payloads to live watchers. Optional.
type Broadcaster interface {
	Broadcast(auctionID string, payload []byte)
}

const (
	readBatch      = 100
	readBlock      = 2000 * time.Millisecond
	attemptTimeout = 2 * time.Second
)

// Router tails the change stream and drives the reconciler. Malformed
// entries are dropped at this boundary; handler failures are retried up
// to maxAttempts and then dead-lettered with the payload intact.
type Router struct {
	rdc         *redis.Client
	stream      string
	handler     EventHandler
	sink        DeadLetter
	maxAttempts int
	notify      Broadcaster
}

func NewRouter(rdc *redis.Client, stream string, handler EventHandler, sink DeadLetter, maxAttempts int) *Router {
	return &Router{
		rdc:         rdc,
		stream:      stream,
		handler:     handler,
		sink:        sink,
		maxAttempts: maxAttempts,
	}
}

// WithBroadcaster mirrors every well-formed event to live watchers.
func (r *Router) WithBroadcaster(b Broadcaster) *Router {
	r.notify = b
	return r
}

// Run tails the stream until ctx is cancelled. Must be started once at
// service boot.
func (r *Router) Run(ctx context.Context) {
	go func() {
		lastID := "0-0"
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			// block up to 2 s for new entries
			res, err := r.rdc.XRead(ctx, &redis.XReadArgs{
				Streams: []string{r.stream, lastID},
				Count:   readBatch,
				Block:   readBlock,
			}).Result()
			if err != nil && err != redis.Nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Warn("router.xread", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if len(res) == 0 {
				continue
			}
			entries := res[0].Messages
			for _, msg := range entries {
				r.process(ctx, msg)
			}
			lastID = entries[len(entries)-1].ID
		}
	}()
}

func (r *Router) process(ctx context.Context, msg redis.XMessage) {
	ev, err := feed.Decode(msg)
	if err != nil {
		// Validation failures never reach the dead-letter sink.
		zap.L().Debug("dropping malformed event", zap.Error(err))
		return
	}

	if r.notify != nil && ev.Valid() {
		if raw, ok := feed.Raw(msg); ok {
			r.notify.Broadcast(ev.Auction.ID(), []byte(raw))
		}
	}

	r.dispatch(ctx, ev)
}

// dispatch retries the handler with the event unchanged, then routes to
// the dead-letter sink on exhaustion.
func (r *Router) dispatch(ctx context.Context, ev auction.ChangeEvent) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		lastErr = r.handler.OnChangeEvent(attemptCtx, ev)
		cancel()
		if lastErr == nil {
			return
		}
		zap.L().Warn("event processing failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
			zap.Error(lastErr),
		)
	}

	if err := r.sink.Add(ctx, ev, r.maxAttempts, lastErr); err != nil {
		// Never silently dropped: the payload stays in the source
		// stream and this failure is loud in the logs.
		zap.L().Error("dead-letter append failed", zap.Error(err))
	}
}
