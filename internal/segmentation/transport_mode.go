package segmentation

import "github.com/fieldmile/fieldmile-backend-go/internal/models"

// Speed envelope for transport mode classification (m/s). A trip whose
// average and peak speeds both fit pedestrian bounds is walking; one whose
// profile clearly exceeds them is driving; everything between is other.
const (
	walkAvgSpeedMax   = 1.8
	walkPeakSpeedMax  = 3.0
	driveAvgSpeedMin  = 2.5
	drivePeakSpeedMin = 6.0
)

// ClassifyMode assigns a transport mode to a finalized trip from its speed
// and distance profile, and returns the average and peak speeds it computed.
// When the point sequence is empty (a split across a recording gap) the
// average speed is derived from displacement over duration.
func ClassifyMode(points []models.GpsPoint, distanceMeters float64, durationSec int64) (mode string, avgSpeed, maxSpeed float64) {
	if len(points) > 0 {
		total := 0.0
		for _, p := range points {
			total += p.SpeedMps
			if p.SpeedMps > maxSpeed {
				maxSpeed = p.SpeedMps
			}
		}
		avgSpeed = total / float64(len(points))
	} else if durationSec > 0 {
		avgSpeed = distanceMeters / float64(durationSec)
		maxSpeed = avgSpeed
	}

	switch {
	case avgSpeed >= driveAvgSpeedMin || maxSpeed >= drivePeakSpeedMin:
		mode = models.ModeDriving
	case avgSpeed <= walkAvgSpeedMax && maxSpeed <= walkPeakSpeedMax:
		mode = models.ModeWalking
	default:
		mode = models.ModeOther
	}
	return mode, avgSpeed, maxSpeed
}
