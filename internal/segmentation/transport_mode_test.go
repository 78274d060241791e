package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

func speedPoints(speeds ...float64) []models.GpsPoint {
	points := make([]models.GpsPoint, len(speeds))
	for i, s := range speeds {
		points[i] = models.GpsPoint{SpeedMps: s}
	}
	return points
}

func TestClassifyMode(t *testing.T) {
	cases := []struct {
		name   string
		speeds []float64
		want   string
	}{
		{"steady walk", []float64{1.0, 1.2, 0.9, 1.1}, models.ModeWalking},
		{"brisk walk", []float64{1.6, 1.8, 1.5}, models.ModeWalking},
		{"city driving", []float64{8, 12, 6, 14, 10}, models.ModeDriving},
		{"slow traffic with bursts", []float64{1.0, 1.5, 7.0, 1.2}, models.ModeDriving},
		{"cycling-like profile", []float64{2.0, 2.2, 4.0, 2.1}, models.ModeOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mode, _, _ := ClassifyMode(speedPoints(tc.speeds...), 1000, 600)
			assert.Equal(t, tc.want, mode)
		})
	}
}

func TestClassifyModeComputesProfile(t *testing.T) {
	mode, avg, max := ClassifyMode(speedPoints(4, 8, 12), 2400, 300)
	assert.Equal(t, models.ModeDriving, mode)
	assert.InDelta(t, 8.0, avg, 1e-9)
	assert.Equal(t, 12.0, max)
}

func TestClassifyModeWithoutPoints(t *testing.T) {
	// No points (split across a recording gap): speed is derived from
	// displacement over duration.
	mode, avg, _ := ClassifyMode(nil, 300, 300)
	assert.Equal(t, models.ModeWalking, mode)
	assert.InDelta(t, 1.0, avg, 1e-9)

	mode, _, _ = ClassifyMode(nil, 3000, 300)
	assert.Equal(t, models.ModeDriving, mode)

	// Zero duration: nothing to derive from, profile stays zero.
	mode, avg, _ = ClassifyMode(nil, 100, 0)
	assert.Equal(t, models.ModeWalking, mode)
	assert.Equal(t, 0.0, avg)
}
