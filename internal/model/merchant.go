package model

import "time"

// Merchant lifecycle. A merchant row in MerchantPending is an application
// awaiting admin review; approval activates it and promotes the owning user
// to RoleMerchant.
const (
	MerchantPending  = "pending"
	MerchantActive   = "active"
	MerchantRejected = "rejected"
)

// Merchant mirrors the merchants table, keyed by the owning user's id.
type Merchant struct {
	UserID        uint64    `json:"user_id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	ContactPhone  string    `json:"contact_phone"`
	Address       string    `json:"address,omitempty"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
