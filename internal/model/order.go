package model

import "time"

// Order statuses. Completed and Cancelled are terminal. Cancellation is
// allowed from PendingPayment (releases stock) and Paid (releases stock and
// signals a refund), never after shipment.
const (
	OrderPendingPayment = "pending_payment"
	OrderPaid           = "paid"
	OrderShipped        = "shipped"
	OrderCompleted      = "completed"
	OrderCancelled      = "cancelled"
)

var orderTransitions = map[string][]string{
	OrderPendingPayment: {OrderPaid, OrderCancelled},
	OrderPaid:           {OrderShipped, OrderCancelled},
	OrderShipped:        {OrderCompleted},
}

// OrderCanTransition reports whether the order state machine allows moving
// from one status to another.
func OrderCanTransition(from, to string) bool {
	for _, t := range orderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Order mirrors the orders table. Amounts are in cents. PaymentRef is the
// capture reference recorded when the buyer pays; Carrier/TrackingNo are
// recorded when the merchant ships.
type Order struct {
	ID              uint64      `json:"id"`
	OrderNumber     string      `json:"order_number"`
	UserID          uint64      `json:"user_id"`
	MerchantID      uint64      `json:"merchant_id"`
	TotalCents      int64       `json:"total_cents"`
	ShippingCents   int64       `json:"shipping_cents"`
	FinalCents      int64       `json:"final_cents"`
	Status          string      `json:"status"`
	PaymentRef      string      `json:"payment_ref,omitempty"`
	Carrier         string      `json:"carrier,omitempty"`
	TrackingNo      string      `json:"tracking_no,omitempty"`
	ReceiverName    string      `json:"receiver_name"`
	ReceiverPhone   string      `json:"receiver_phone"`
	ReceiverAddress string      `json:"receiver_address"`
	UserNotes       string      `json:"user_notes,omitempty"`
	CancelReason    string      `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	ShippedAt       *time.Time  `json:"shipped_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots a product at order-creation time. UnitPriceCents and
// the name/unit fields are frozen copies; later catalog edits never change
// historical orders.
type OrderItem struct {
	ID             uint64    `json:"id"`
	OrderID        uint64    `json:"order_id"`
	ProductID      uint64    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductUnit    string    `json:"product_unit"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalCents     int64     `json:"total_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// ShippingFeeCents mirrors the storefront's flat policy: orders under the
// free-shipping threshold pay a flat fee.
const (
	freeShippingThresholdCents = 10000
	flatShippingFeeCents       = 1000
)

// ShippingFee returns the shipping fee in cents for an order subtotal.
func ShippingFee(subtotalCents int64) int64 {
	if subtotalCents < freeShippingThresholdCents {
		return flatShippingFeeCents
	}
	return 0
}
