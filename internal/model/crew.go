package model

import "time"

// Crew application states. A user applies to a specific merchant; the
// merchant approves or rejects. Approval creates the crew row and promotes
// the user to RoleCrew.
const (
	CrewApplicationPending  = "pending"
	CrewApplicationApproved = "approved"
	CrewApplicationRejected = "rejected"
)

// Crew working states.
const (
	CrewActive   = "active"
	CrewInactive = "inactive"
)

// CrewApplication mirrors the crew_applications table.
type CrewApplication struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	MerchantID uint64     `json:"merchant_id"`
	CertNumber string     `json:"cert_number"`
	YearsAtSea int        `json:"years_at_sea"`
	Intro      string     `json:"intro,omitempty"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	HandledAt  *time.Time `json:"handled_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Crew mirrors the crews table, keyed by user id. RatingAvg is a running
// average maintained in the same transaction that stores each new rating.
type Crew struct {
	UserID      uint64    `json:"user_id"`
	MerchantID  uint64    `json:"merchant_id"`
	CertNumber  string    `json:"cert_number"`
	YearsAtSea  int       `json:"years_at_sea"`
	Intro       string    `json:"intro,omitempty"`
	Status      string    `json:"status"`
	RatingAvg   float64   `json:"rating_avg"`
	RatingCount uint32    `json:"rating_count"`
	JoinedAt    time.Time `json:"joined_at"`
}
