package service

import "github.com/driftdock/marina-api/internal/model"

// Capability checks shared by services and handlers. They are pure functions
// over already-loaded rows so ownership rules live in one place.

// CanViewBooking: the buyer, the boat's merchant, and the assigned crew
// member may read a booking.
func CanViewBooking(b model.Booking, actorID uint64, role string) bool {
	switch {
	case b.UserID == actorID:
		return true
	case role == model.RoleMerchant && b.MerchantID == actorID:
		return true
	case role == model.RoleCrew && b.CrewID != nil && *b.CrewID == actorID:
		return true
	case role == model.RoleAdmin:
		return true
	}
	return false
}

// CanCancelBooking: the buyer or the boat's merchant.
func CanCancelBooking(b model.Booking, actorID uint64, role string) bool {
	if b.UserID == actorID {
		return true
	}
	return role == model.RoleMerchant && b.MerchantID == actorID
}

// CanRateBooking: only the buyer of a completed booking with assigned crew.
func CanRateBooking(b model.Booking, actorID uint64) bool {
	return b.UserID == actorID && b.Status == model.BookingCompleted && b.CrewID != nil
}

// CanViewOrder: the buyer or the selling merchant.
func CanViewOrder(o model.Order, actorID uint64, role string) bool {
	if o.UserID == actorID {
		return true
	}
	if role == model.RoleMerchant && o.MerchantID == actorID {
		return true
	}
	return role == model.RoleAdmin
}

// CanCancelOrder: the buyer or the selling merchant.
func CanCancelOrder(o model.Order, actorID uint64, role string) bool {
	if o.UserID == actorID {
		return true
	}
	return role == model.RoleMerchant && o.MerchantID == actorID
}
