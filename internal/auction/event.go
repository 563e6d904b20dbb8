package auction

// EventKind tags a change-feed entry.
type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventModify EventKind = "MODIFY"
	EventRemove EventKind = "REMOVE"
)

// ChangeEvent is one entry of the auction change feed: the kind of
// mutation plus the record snapshot after it. Delivery is at-least-once,
// so consumers must treat the snapshot as potentially stale and
// re-validate against the store before acting on anything but identity.
type ChangeEvent struct {
	Kind    EventKind `json:"kind"`
	Auction *Auction  `json:"auction,omitempty"`
}

// Valid reports whether the event carries enough identity to act on.
func (e ChangeEvent) Valid() bool {
	return e.Auction != nil && e.Auction.ItemID != "" && e.Auction.StartDate != ""
}
