package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    SplitRule
		wantErr bool
	}{
		{"booking default", SplitRule{Kind: KindBookingService, PlatformBps: 500, MerchantBps: 3500, CrewBps: 6000}, false},
		{"order default", SplitRule{Kind: KindProductOrder, PlatformBps: 1000, MerchantBps: 9000, CrewBps: 0}, false},
		{"unknown kind", SplitRule{Kind: "tips", PlatformBps: 500, MerchantBps: 9500}, true},
		{"under 100%", SplitRule{Kind: KindProductOrder, PlatformBps: 1000, MerchantBps: 8000}, true},
		{"over 100%", SplitRule{Kind: KindProductOrder, PlatformBps: 2000, MerchantBps: 9000}, true},
		{"negative share", SplitRule{Kind: KindProductOrder, PlatformBps: -1000, MerchantBps: 11000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeSplit(t *testing.T) {
	bookingRule := SplitRule{Kind: KindBookingService, PlatformBps: 500, MerchantBps: 3500, CrewBps: 6000}
	orderRule := SplitRule{Kind: KindProductOrder, PlatformBps: 1000, MerchantBps: 9000, CrewBps: 0}

	tests := []struct {
		name                     string
		gross                    int64
		rule                     SplitRule
		platform, merchant, crew int64
	}{
		{"booking even", 15000, bookingRule, 750, 5250, 9000},
		{"booking odd cents", 9999, bookingRule, 500, 3500, 5999},
		{"booking tiny", 1, bookingRule, 0, 0, 1},
		{"order even", 20000, orderRule, 2000, 18000, 0},
		{"order odd cents", 10099, orderRule, 1010, 9089, 0},
		{"order with shipping fee", 6000, orderRule, 600, 5400, 0},
		{"zero gross", 0, bookingRule, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSplit(tt.gross, tt.rule)
			assert.Equal(t, tt.platform, got.PlatformCents, "platform")
			assert.Equal(t, tt.merchant, got.MerchantCents, "merchant")
			assert.Equal(t, tt.crew, got.CrewCents, "crew")
		})
	}
}

// The three shares must always reconcile to the gross amount, whatever the
// rounding does.
func TestComputeSplitReconciles(t *testing.T) {
	rules := []SplitRule{
		{Kind: KindBookingService, PlatformBps: 500, MerchantBps: 3500, CrewBps: 6000},
		{Kind: KindBookingService, PlatformBps: 333, MerchantBps: 3333, CrewBps: 6334},
		{Kind: KindProductOrder, PlatformBps: 1000, MerchantBps: 9000, CrewBps: 0},
	}
	for _, rule := range rules {
		require.NoError(t, rule.Validate())
		for gross := int64(0); gross < 2500; gross++ {
			got := ComputeSplit(gross, rule)
			require.Equal(t, gross, got.PlatformCents+got.MerchantCents+got.CrewCents,
				"gross=%d rule=%+v", gross, rule)
			require.GreaterOrEqual(t, got.CrewCents, int64(0), "gross=%d", gross)
		}
	}
}

func TestComputeSplitNoCrewShare(t *testing.T) {
	rule := SplitRule{Kind: KindProductOrder, PlatformBps: 1000, MerchantBps: 9000, CrewBps: 0}
	for gross := int64(1); gross < 1000; gross++ {
		got := ComputeSplit(gross, rule)
		require.Zero(t, got.CrewCents, "gross=%d", gross)
	}
}
