package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestRound2(t *testing.T) {
	assert.InDelta(t, 81.00, Round2(81.0), 1e-9)
	assert.InDelta(t, 52.50, Round2(52.504), 1e-9)
	assert.InDelta(t, 10.56, Round2(10.556), 1e-9)
}

func TestNetPrice(t *testing.T) {
	// Tax-inclusive prices are divided down to net.
	assert.InDelta(t, 100.0, NetPrice(120, 0.20, true), 1e-9)
	// Tax-exclusive prices pass through.
	assert.InDelta(t, 120.0, NetPrice(120, 0.20, false), 1e-9)
}

func TestFloorPrice(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.InDelta(t, 22.0, cfg.FloorPrice(20), 1e-9)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		floor    float64
		ceiling  *float64
		want     float64
		wantCode string
		wantOK   bool
	}{
		{"within bounds", 50, 22, f64(90), 50, "", true},
		{"below floor", 15, 22, f64(90), 22, ReasonClampedFloor, true},
		{"above ceiling", 95, 22, f64(90), 90, ReasonClampedCeiling, true},
		{"no ceiling", 500, 22, nil, 500, "", true},
		{"floor above ceiling", 53, 55, f64(52), 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, code, ok := Clamp(tt.price, tt.floor, tt.ceiling)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestCooldownActive(t *testing.T) {
	asOf := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := asOf.AddDate(0, 0, -3)
	eightDaysAgo := asOf.AddDate(0, 0, -8)

	assert.False(t, CooldownActive(nil, 7, asOf))
	assert.True(t, CooldownActive(&threeDaysAgo, 7, asOf))
	assert.False(t, CooldownActive(&eightDaysAgo, 7, asOf))
	assert.False(t, CooldownActive(&threeDaysAgo, 0, asOf))
}
