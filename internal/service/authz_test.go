package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftdock/marina-api/internal/model"
)

func uptr(v uint64) *uint64 { return &v }

func TestCanViewBooking(t *testing.T) {
	b := model.Booking{UserID: 1, MerchantID: 2, CrewID: uptr(3)}

	tests := []struct {
		name    string
		actorID uint64
		role    string
		want    bool
	}{
		{"buyer", 1, model.RoleUser, true},
		{"merchant of boat", 2, model.RoleMerchant, true},
		{"assigned crew", 3, model.RoleCrew, true},
		{"admin", 99, model.RoleAdmin, true},
		{"stranger", 42, model.RoleUser, false},
		{"other merchant", 42, model.RoleMerchant, false},
		{"other crew", 42, model.RoleCrew, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewBooking(b, tt.actorID, tt.role))
		})
	}

	t.Run("no crew assigned", func(t *testing.T) {
		unassigned := model.Booking{UserID: 1, MerchantID: 2}
		assert.False(t, CanViewBooking(unassigned, 3, model.RoleCrew))
	})
}

func TestCanCancelBooking(t *testing.T) {
	b := model.Booking{UserID: 1, MerchantID: 2, CrewID: uptr(3)}

	assert.True(t, CanCancelBooking(b, 1, model.RoleUser))
	assert.True(t, CanCancelBooking(b, 2, model.RoleMerchant))
	assert.False(t, CanCancelBooking(b, 3, model.RoleCrew))
	assert.False(t, CanCancelBooking(b, 42, model.RoleUser))
	assert.False(t, CanCancelBooking(b, 2, model.RoleUser), "merchant id without merchant role")
}

func TestCanRateBooking(t *testing.T) {
	done := model.Booking{UserID: 1, Status: model.BookingCompleted, CrewID: uptr(3)}

	assert.True(t, CanRateBooking(done, 1))
	assert.False(t, CanRateBooking(done, 2), "not the buyer")

	confirmed := done
	confirmed.Status = model.BookingConfirmed
	assert.False(t, CanRateBooking(confirmed, 1), "not completed yet")

	noCrew := done
	noCrew.CrewID = nil
	assert.False(t, CanRateBooking(noCrew, 1), "nothing to rate without crew")
}

func TestCanViewOrder(t *testing.T) {
	o := model.Order{UserID: 1, MerchantID: 2}

	assert.True(t, CanViewOrder(o, 1, model.RoleUser))
	assert.True(t, CanViewOrder(o, 2, model.RoleMerchant))
	assert.True(t, CanViewOrder(o, 99, model.RoleAdmin))
	assert.False(t, CanViewOrder(o, 42, model.RoleUser))
	assert.False(t, CanViewOrder(o, 2, model.RoleUser), "merchant id without merchant role")
}

func TestCanCancelOrder(t *testing.T) {
	o := model.Order{UserID: 1, MerchantID: 2}

	assert.True(t, CanCancelOrder(o, 1, model.RoleUser))
	assert.True(t, CanCancelOrder(o, 2, model.RoleMerchant))
	assert.False(t, CanCancelOrder(o, 42, model.RoleUser))
	assert.False(t, CanCancelOrder(o, 99, model.RoleAdmin))
}
