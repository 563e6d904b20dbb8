package feed

import (
	"encoding/json"
	"fmt"

	"auctiond/internal/auction"

	"github.com/redis/go-redis/v9"
)

// Stream entries carry the change event as one JSON field.
const payloadField = "event"

// Encode packs a change event into stream-entry values.
func Encode(ev auction.ChangeEvent) (map[string]any, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode change event: %w", err)
	}
	return map[string]any{payloadField: string(raw)}, nil
}

// Raw returns the JSON payload of a stream message, if present.
func Raw(msg redis.XMessage) (string, bool) {
	raw, ok := msg.Values[payloadField].(string)
	return raw, ok
}

// Decode unpacks a stream message back into a change event. Messages
// without a payload or with unknown JSON are rejected here so malformed
// input never reaches the reconciler.
func Decode(msg redis.XMessage) (auction.ChangeEvent, error) {
	raw, ok := msg.Values[payloadField].(string)
	if !ok {
		return auction.ChangeEvent{}, fmt.Errorf("stream entry %s has no %s field", msg.ID, payloadField)
	}
	var ev auction.ChangeEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return auction.ChangeEvent{}, fmt.Errorf("decode stream entry %s: %w", msg.ID, err)
	}
	switch ev.Kind {
	case auction.EventInsert, auction.EventModify, auction.EventRemove:
	default:
		return auction.ChangeEvent{}, fmt.Errorf("stream entry %s: unknown event kind %q", msg.ID, ev.Kind)
	}
	return ev, nil
}
