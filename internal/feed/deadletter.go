package feed

import (
	"context"
	"fmt"
	"strconv"

	"auctiond/internal/auction"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeadLetterSink keeps events that exhausted their retry budget, with
// the original payload preserved so an operator can replay them.
type DeadLetterSink struct {
	rdc    *redis.Client
	stream string
}

func NewDeadLetterSink(rdc *redis.Client, stream string) *DeadLetterSink {
	return &DeadLetterSink{rdc: rdc, stream: stream}
}

// Add records one failed event together with its attempt count and the
// last error seen.
func (s *DeadLetterSink) Add(ctx context.Context, ev auction.ChangeEvent, attempts int, cause error) error {
	values, err := Encode(ev)
	if err != nil {
		return err
	}
	values["attempts"] = strconv.Itoa(attempts)
	if cause != nil {
		values["error"] = cause.Error()
	}

	if err := s.rdc.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("dead-letter append: %w", err)
	}
	zap.L().Warn("event dead-lettered",
		zap.String("kind", string(ev.Kind)),
		zap.Int("attempts", attempts),
		zap.Error(cause),
	)
	return nil
}
