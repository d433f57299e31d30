package model

import "time"

// Boat states. Only available boats accept new bookings.
const (
	BoatAvailable   = "available"
	BoatMaintenance = "maintenance"
	BoatRetired     = "retired"
)

// Boat mirrors the boats table. Rates are stored in cents.
type Boat struct {
	ID              uint64    `json:"id"`
	MerchantID      uint64    `json:"merchant_id"`
	Name            string    `json:"name"`
	BoatType        string    `json:"boat_type"`
	Capacity        int       `json:"capacity"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
