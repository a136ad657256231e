package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		perWeek     string
		missed      string
		wantTotal   float64
		wantMissed  float64
		wantPercent float64
		wantStatus  Status
	}{
		{"defaults", "2", "0", 40, 0, 100, StatusGood},
		{"one pair missed", "2", "1", 40, 2, 95, StatusGood},
		{"warning band", "2", "3", 40, 6, 85, StatusWarning},
		{"four pairs a week", "4", "2", 80, 4, 95, StatusGood},
		{"low warning", "1", "2", 20, 4, 80, StatusWarning},
		{"critical", "1", "5", 20, 10, 50, StatusCritical},
		{"more missed than held", "1", "40", 20, 80, 0, StatusCritical},
		{"no classes", "0", "0", 0, 0, 0, StatusCritical},
		{"garbage input", "lots", "x", 0, 0, 0, StatusCritical},
		{"fractional pairs", "1.5", "1", 30, 2, 28.0 / 30 * 100, StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.perWeek, tt.missed)
			assert.InDelta(t, tt.wantTotal, got.TotalHours, 1e-9)
			assert.InDelta(t, tt.wantMissed, got.MissedHours, 1e-9)
			assert.InDelta(t, tt.wantPercent, got.Percent, 1e-9)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusCritical, StatusFor(69.99))
	assert.Equal(t, StatusWarning, StatusFor(70))
	assert.Equal(t, StatusWarning, StatusFor(89.9))
	assert.Equal(t, StatusGood, StatusFor(90))
	assert.Equal(t, StatusGood, StatusFor(100))
}
