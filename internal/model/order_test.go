package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderPendingPayment, OrderPaid, true},
		{OrderPendingPayment, OrderCancelled, true},
		{OrderPendingPayment, OrderShipped, false},
		{OrderPaid, OrderShipped, true},
		{OrderPaid, OrderCancelled, true},
		{OrderPaid, OrderCompleted, false},
		{OrderShipped, OrderCompleted, true},
		{OrderShipped, OrderCancelled, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderPaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderCanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestShippingFee(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 1000},
		{1, 1000},
		{9999, 1000},
		{10000, 0},
		{25000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShippingFee(tt.subtotal), "subtotal=%d", tt.subtotal)
	}
}
