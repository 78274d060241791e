// Package reimbursement decides whether a trip qualifies for mileage
// reimbursement. The resolver is a pure function over already-computed trip,
// vehicle-period and carpool data; it is called by the reporting layer, not
// by the segmentation pass.
package reimbursement

import "github.com/fieldmile/fieldmile-backend-go/internal/models"

// CarpoolStanding describes a trip's relationship to carpool detection
// output: whether it landed in a group, and the role it was assigned there.
type CarpoolStanding struct {
	InGroup bool
	Role    string
}

// Eligible reports whether a trip is reimbursable: the trip is classified as
// business, its transport mode is driving, the employee had no active
// company vehicle on the trip's date, and the trip is either outside any
// carpool group or its employee drove.
func Eligible(trip models.Trip, hasCompanyVehicle bool, standing CarpoolStanding) bool {
	if trip.Classification != models.ClassificationBusiness {
		return false
	}
	if trip.TransportMode != models.ModeDriving {
		return false
	}
	if hasCompanyVehicle {
		return false
	}
	if standing.InGroup && standing.Role != models.RoleDriver {
		return false
	}
	return true
}
