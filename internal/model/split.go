package model

import (
	"fmt"
	"time"
)

// Transaction kinds the ledger settles.
const (
	KindBookingService = "booking_service"
	KindProductOrder   = "product_order"
)

// SplitRule is a named three-way percentage policy for one transaction
// kind. Percentages are stored in basis points (100 bps = 1%) and must sum
// to exactly 10000.
type SplitRule struct {
	ID          uint64    `json:"id"`
	Kind        string    `json:"kind"`
	PlatformBps int       `json:"platform_bps"`
	MerchantBps int       `json:"merchant_bps"`
	CrewBps     int       `json:"crew_bps"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the rule's kind and that the shares cover exactly 100%.
func (r SplitRule) Validate() error {
	if r.Kind != KindBookingService && r.Kind != KindProductOrder {
		return fmt.Errorf("unknown transaction kind %q", r.Kind)
	}
	if r.PlatformBps < 0 || r.MerchantBps < 0 || r.CrewBps < 0 {
		return fmt.Errorf("split shares must not be negative")
	}
	if sum := r.PlatformBps + r.MerchantBps + r.CrewBps; sum != 10000 {
		return fmt.Errorf("split shares must sum to 100%%, got %d bps", sum)
	}
	return nil
}

// Split holds the three computed shares of a gross amount, in cents.
type Split struct {
	PlatformCents int64
	MerchantCents int64
	CrewCents     int64
}

// ComputeSplit divides gross between platform, merchant and crew per the
// rule. Platform and merchant shares are rounded half-up; the crew share is
// the exact remainder so the three always reconcile to gross. When the
// rule's crew share is zero (product orders) the crew amount is forced to
// zero and the merchant absorbs the remainder instead.
func ComputeSplit(grossCents int64, rule SplitRule) Split {
	platform := roundShare(grossCents, rule.PlatformBps)
	if rule.CrewBps == 0 {
		return Split{
			PlatformCents: platform,
			MerchantCents: grossCents - platform,
			CrewCents:     0,
		}
	}
	merchant := roundShare(grossCents, rule.MerchantBps)
	return Split{
		PlatformCents: platform,
		MerchantCents: merchant,
		CrewCents:     grossCents - platform - merchant,
	}
}

// roundShare computes gross*bps/10000 rounded half-up, in integer cents.
func roundShare(grossCents int64, bps int) int64 {
	return (grossCents*int64(bps) + 5000) / 10000
}

// SplitRecord mirrors the split_records table. Records are immutable and
// unique per (kind, source id); the rule's shares are referenced by RuleID
// and the computed amounts are denormalized for reconciliation.
type SplitRecord struct {
	ID            uint64    `json:"id"`
	SplitNumber   string    `json:"split_number"`
	Kind          string    `json:"kind"`
	SourceID      uint64    `json:"source_id"`
	RuleID        uint64    `json:"rule_id"`
	MerchantID    uint64    `json:"merchant_id"`
	CrewID        *uint64   `json:"crew_id,omitempty"`
	GrossCents    int64     `json:"gross_cents"`
	PlatformCents int64     `json:"platform_cents"`
	MerchantCents int64     `json:"merchant_cents"`
	CrewCents     int64     `json:"crew_cents"`
	CreatedAt     time.Time `json:"created_at"`
}
