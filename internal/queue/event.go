// Package queue defines the lifecycle event payload exchanged over the
// message broker and the background consumer that drains it.
package queue

// LifecycleQueueName is the durable queue carrying every booking and order
// lifecycle event.
const LifecycleQueueName = "marina.lifecycle"

// LifecycleEvent is published on every booking/order transition. It carries
// enough context for downstream consumers (push gateways, analytics) to act
// without querying the primary database.
type LifecycleEvent struct {
	Kind        string `json:"kind"`         // notification kind, e.g. booking_confirmed
	SourceType  string `json:"source_type"`  // "booking" or "order"
	SourceID    uint64 `json:"source_id"`
	RefNumber   string `json:"ref_number"`
	UserID      uint64 `json:"user_id"`
	MerchantID  uint64 `json:"merchant_id"`
	CrewID      uint64 `json:"crew_id,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	OccurredAt  string `json:"occurred_at"` // RFC3339 UTC
}
