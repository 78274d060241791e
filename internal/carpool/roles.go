package carpool

import (
	"sort"
	"time"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// DayWindow returns the [start, end) unix-second window for a YYYY-MM-DD
// date in UTC.
func DayWindow(date string) (int64, int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, err
	}
	start := t.UTC().Unix()
	return start, start + 86400, nil
}

// resolveRoles assigns driver/passenger roles to one group from the count of
// members holding an active personal vehicle period on the trip date:
// exactly one such member is the driver; zero leaves everyone unassigned and
// flags the group for review; two or more picks the lowest employee id as a
// provisional driver and still flags for review. The lowest-id tie-break is
// a deterministic placeholder policy, not business intent.
func resolveRoles(date string, memberTrips []models.Trip, periods []models.VehiclePeriod) models.CarpoolGroup {
	group := models.CarpoolGroup{
		TripDate: date,
		Status:   models.CarpoolStatusAutoDetected,
	}

	dayStart, dayEnd, err := DayWindow(date)
	hasPersonal := make(map[int64]bool)
	if err == nil {
		for _, p := range periods {
			if p.Type == models.VehicleTypePersonal && p.ActiveOn(dayStart, dayEnd) {
				hasPersonal[p.EmployeeID] = true
			}
		}
	}

	var owners []int64
	seen := make(map[int64]bool)
	for _, t := range memberTrips {
		if hasPersonal[t.EmployeeID] && !seen[t.EmployeeID] {
			owners = append(owners, t.EmployeeID)
			seen[t.EmployeeID] = true
		}
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	var driverID *int64
	switch len(owners) {
	case 0:
		group.ReviewNeeded = true
	case 1:
		id := owners[0]
		driverID = &id
	default:
		id := owners[0]
		driverID = &id
		group.ReviewNeeded = true
	}
	group.DriverEmployeeID = driverID

	members := make([]models.CarpoolMember, 0, len(memberTrips))
	for _, t := range memberTrips {
		role := models.RoleUnassigned
		if driverID != nil {
			if t.EmployeeID == *driverID {
				role = models.RoleDriver
			} else {
				role = models.RolePassenger
			}
		}
		members = append(members, models.CarpoolMember{
			TripID:     t.ID,
			EmployeeID: t.EmployeeID,
			Role:       role,
		})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].EmployeeID != members[j].EmployeeID {
			return members[i].EmployeeID < members[j].EmployeeID
		}
		return members[i].TripID < members[j].TripID
	})
	group.Members = members
	return group
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
