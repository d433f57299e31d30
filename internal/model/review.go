package model

import "time"

// CrewRating is post-completion feedback attached to a finished booking.
// One rating per booking, enforced by a unique index.
type CrewRating struct {
	ID        uint64    `json:"id"`
	BookingID uint64    `json:"booking_id"`
	UserID    uint64    `json:"user_id"`
	CrewID    uint64    `json:"crew_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductReview is buyer feedback on one line of a completed order. One
// review per order item, enforced by a unique index.
type ProductReview struct {
	ID          uint64    `json:"id"`
	OrderItemID uint64    `json:"order_item_id"`
	OrderID     uint64    `json:"order_id"`
	ProductID   uint64    `json:"product_id"`
	UserID      uint64    `json:"user_id"`
	Rating      int       `json:"rating"` // 1..5
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
