package model

import "time"

// Booking statuses. Completed and Cancelled are terminal; no event may
// leave them. Pending and Confirmed are the active states that participate
// in the overlap guard.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// bookingTransitions is the fixed transition graph for bookings:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// BookingCanTransition reports whether the booking state machine allows
// moving from one status to another.
func BookingCanTransition(from, to string) bool {
	for _, t := range bookingTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// BookingStatusActive reports whether a status counts against the overlap
// guard. Cancelled and completed bookings never conflict.
func BookingStatusActive(status string) bool {
	return status == BookingPending || status == BookingConfirmed
}

// WindowsOverlap reports whether two half-open time windows [aStart, aEnd)
// and [bStart, bEnd) intersect. Touching endpoints do not overlap.
func WindowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Booking mirrors the bookings table. Amounts are in cents; CrewID is set
// when the merchant confirms and assigns a crew member.
type Booking struct {
	ID              uint64     `json:"id"`
	BookingNumber   string     `json:"booking_number"`
	UserID          uint64     `json:"user_id"`
	BoatID          uint64     `json:"boat_id"`
	MerchantID      uint64     `json:"merchant_id"`
	CrewID          *uint64    `json:"crew_id,omitempty"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           time.Time  `json:"end_at"`
	PassengerCount  int        `json:"passenger_count"`
	HourlyRateCents int64      `json:"hourly_rate_cents"`
	TotalCents      int64      `json:"total_cents"`
	Status          string     `json:"status"`
	ContactName     string     `json:"contact_name"`
	ContactPhone    string     `json:"contact_phone"`
	UserNotes       string     `json:"user_notes,omitempty"`
	MerchantNotes   string     `json:"merchant_notes,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}
