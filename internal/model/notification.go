package model

import "time"

// Notification kinds, one per lifecycle transition worth announcing.
const (
	NotifyBookingCreated   = "booking_created"
	NotifyBookingConfirmed = "booking_confirmed"
	NotifyBookingCancelled = "booking_cancelled"
	NotifyBookingCompleted = "booking_completed"
	NotifyOrderCreated     = "order_created"
	NotifyOrderPaid        = "order_paid"
	NotifyOrderShipped     = "order_shipped"
	NotifyOrderCompleted   = "order_completed"
	NotifyOrderCancelled   = "order_cancelled"
)

// Notification mirrors the notifications table: one inbox row per
// recipient. RelatedID points at the booking or order the event concerns.
type Notification struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	RelatedID uint64     `json:"related_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
