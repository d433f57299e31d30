package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingTotal(t *testing.T) {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	rate := int64(5000) // 50.00/h

	tests := []struct {
		name string
		dur  time.Duration
		want int64
	}{
		{"one hour", time.Hour, 5000},
		{"three hours", 3 * time.Hour, 15000},
		{"partial hour rounds up", 90 * time.Minute, 10000},
		{"one minute over", time.Hour + time.Minute, 10000},
		{"under an hour", 20 * time.Minute, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BookingTotal(rate, base, base.Add(tt.dur)))
		})
	}
}
