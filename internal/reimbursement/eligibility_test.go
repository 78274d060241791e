package reimbursement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

func TestEligible(t *testing.T) {
	drivingTrip := models.Trip{
		TransportMode:  models.ModeDriving,
		Classification: models.ClassificationBusiness,
	}
	walkingTrip := models.Trip{
		TransportMode:  models.ModeWalking,
		Classification: models.ClassificationBusiness,
	}
	privateTrip := models.Trip{
		TransportMode:  models.ModeDriving,
		Classification: models.ClassificationPrivate,
	}

	cases := []struct {
		name       string
		trip       models.Trip
		hasCompany bool
		standing   CarpoolStanding
		want       bool
	}{
		{"solo business drive", drivingTrip, false, CarpoolStanding{}, true},
		{"carpool driver", drivingTrip, false, CarpoolStanding{InGroup: true, Role: models.RoleDriver}, true},
		{"carpool passenger", drivingTrip, false, CarpoolStanding{InGroup: true, Role: models.RolePassenger}, false},
		{"carpool unassigned", drivingTrip, false, CarpoolStanding{InGroup: true, Role: models.RoleUnassigned}, false},
		{"company vehicle", drivingTrip, true, CarpoolStanding{}, false},
		{"walking trip", walkingTrip, false, CarpoolStanding{}, false},
		{"private trip", privateTrip, false, CarpoolStanding{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Eligible(tc.trip, tc.hasCompany, tc.standing))
		})
	}
}
