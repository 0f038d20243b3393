package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecideTrialBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	info := Info{Tier: TierTrial, StartDate: start.UnixMilli()}
	day := float64(24 * time.Hour)

	tests := []struct {
		name        string
		now         time.Time
		wantExpired bool
	}{
		{"just started", start, false},
		{"2.9 days in", start.Add(time.Duration(2.9 * day)), false},
		{"exactly 3 days", start.Add(3 * 24 * time.Hour), true},
		{"well past", start.Add(10 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, wantPaywall := Decide(info, tt.now)
			assert.Equal(t, tt.wantExpired, got.IsExpired)
			assert.Equal(t, tt.wantExpired, wantPaywall)
			assert.Equal(t, info.StartDate, got.StartDate, "start date must never change")
		})
	}
}

func TestDecideNonTrialNeverExpires(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(100 * 24 * time.Hour)

	for _, tier := range []Tier{TierPro, TierBlessed} {
		info := Info{Tier: tier, StartDate: start.UnixMilli(), IsExpired: true}
		got, wantPaywall := Decide(info, now)
		assert.False(t, got.IsExpired, "tier %s must be normalized to not expired", tier)
		assert.False(t, wantPaywall)
	}
}

func TestInfoValid(t *testing.T) {
	now := time.Now()
	assert.True(t, NewTrial(now).Valid())
	assert.True(t, Info{Tier: TierPro, StartDate: 1}.Valid())
	assert.False(t, Info{Tier: "platinum", StartDate: now.UnixMilli()}.Valid())
	assert.False(t, Info{Tier: TierTrial}.Valid(), "zero start date is not usable")
}
