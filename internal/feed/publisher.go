package feed

import (
	"context"

	"auctiond/internal/auction"

	"github.com/redis/go-redis/v9"
)

// Publisher appends change events to the auction change stream.
// Delivery downstream is at-least-once; consumers handle duplicates.
type Publisher struct {
	rdc    *redis.Client
	stream string
}

func NewPublisher(rdc *redis.Client, stream string) *Publisher {
	return &Publisher{rdc: rdc, stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, ev auction.ChangeEvent) error {
	values, err := Encode(ev)
	if err != nil {
		return err
	}
	return p.rdc.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err()
}
