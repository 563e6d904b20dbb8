package redis_client

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns a pooled client for the change-feed and
// dead-letter streams, pinged once before use.
func NewRedisClient(ctx context.Context, host string, port int) (*redis.Client, error) {
	maxPool := runtime.NumCPU() * 8
	if maxPool > 512 {
		maxPool = 512
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		PoolSize: maxPool,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		err = fmt.Errorf("redis connection failed: %w", err)
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, err
	}
	return rc, nil
}
