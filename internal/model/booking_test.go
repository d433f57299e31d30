package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BookingCanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestBookingStatusActive(t *testing.T) {
	assert.True(t, BookingStatusActive(BookingPending))
	assert.True(t, BookingStatusActive(BookingConfirmed))
	assert.False(t, BookingStatusActive(BookingCompleted))
	assert.False(t, BookingStatusActive(BookingCancelled))
}

func TestWindowsOverlap(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 6, 1, h, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name                         string
		aStart, aEnd, bStart, bEnd   time.Time
		want                         bool
	}{
		{"identical", at(10), at(12), at(10), at(12), true},
		{"contained", at(10), at(14), at(11), at(12), true},
		{"partial front", at(10), at(12), at(11), at(13), true},
		{"partial back", at(11), at(13), at(10), at(12), true},
		{"disjoint", at(8), at(9), at(10), at(11), false},
		{"touching end-to-start", at(10), at(12), at(12), at(14), false},
		{"touching start-to-end", at(12), at(14), at(10), at(12), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, WindowsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}
