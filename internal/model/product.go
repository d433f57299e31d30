package model

import "time"

// Product states. SoldOut is set automatically when stock hits zero.
const (
	ProductAvailable = "available"
	ProductSoldOut   = "sold_out"
	ProductOffShelf  = "off_shelf"
)

// Product mirrors the products table. Prices are stored in cents; Unit is
// the sales unit shown to buyers ("box", "kg", ...).
type Product struct {
	ID          uint64    `json:"id"`
	MerchantID  uint64    `json:"merchant_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	Unit        string    `json:"unit"`
	Description string    `json:"description,omitempty"`
	SalesCount  int       `json:"sales_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItem mirrors the cart_items table; one row per (user, product).
type CartItem struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ProductID uint64    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
