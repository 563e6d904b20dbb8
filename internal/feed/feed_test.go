package feed

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"auctiond/internal/auction"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() auction.ChangeEvent {
	return auction.ChangeEvent{
		Kind: auction.EventInsert,
		Auction: &auction.Auction{
			ItemID:    "item-1",
			StartDate: "2025-07-27T16:05:05Z",
			EndDate:   time.Date(2025, 7, 27, 17, 5, 5, 0, time.UTC),
			Status:    auction.StatusClosed,
			CreatedAt: time.Date(2025, 7, 27, 16, 0, 0, 0, time.UTC),
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := sampleEvent()
	values, err := Encode(ev)
	require.NoError(t, err)

	decoded, err := Decode(redis.XMessage{ID: "1-1", Values: values})
	require.NoError(t, err)
	assert.Equal(t, ev.Kind, decoded.Kind)
	require.NotNil(t, decoded.Auction)
	assert.Equal(t, *ev.Auction, *decoded.Auction)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]redis.XMessage{
		"no payload field": {ID: "1-1", Values: map[string]any{}},
		"payload not json": {ID: "1-2", Values: map[string]any{"event": "{nope"}},
		"unknown kind":     {ID: "1-3", Values: map[string]any{"event": `{"kind":"UPSERT"}`}},
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(msg)
			assert.Error(t, err)
		})
	}
}

func TestPublisher(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	ev := sampleEvent()
	values, err := Encode(ev)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: "auctions:changes",
		Values: values,
	}).SetVal("1-1")

	pub := NewPublisher(rdc, "auctions:changes")
	require.NoError(t, pub.Publish(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterSinkPreservesPayload(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	ev := sampleEvent()
	values, err := Encode(ev)
	require.NoError(t, err)
	values["attempts"] = "3"
	values["error"] = "store timeout"

	// XADD field/value pairs come from a map, so their wire order is
	// nondeterministic; match them as a set instead of a sequence.
	mock.CustomMatch(func(expected, actual []interface{}) error {
		if len(expected) != len(actual) {
			return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
		}
		pairs := func(args []interface{}) map[interface{}]interface{} {
			m := make(map[interface{}]interface{})
			for i := 3; i+1 < len(args); i += 2 {
				m[args[i]] = args[i+1]
			}
			return m
		}
		if !reflect.DeepEqual(expected[:3], actual[:3]) || !reflect.DeepEqual(pairs(expected), pairs(actual)) {
			return fmt.Errorf("args mismatch: expected %v, got %v", expected, actual)
		}
		return nil
	}).ExpectXAdd(&redis.XAddArgs{
		Stream: "auctions:dlq",
		Values: values,
	}).SetVal("1-1")

	sink := NewDeadLetterSink(rdc, "auctions:dlq")
	require.NoError(t, sink.Add(context.Background(), ev, 3, errors.New("store timeout")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
