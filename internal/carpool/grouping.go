package carpool

import (
	"sort"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/spatial"
)

// Edge construction thresholds.
const (
	// EndpointRadiusMeters bounds how far apart two trips' start points (and
	// separately their end points) may be to count as the same ride.
	EndpointRadiusMeters = 200.0

	// MinOverlapFraction of the shorter trip's duration that the two trips'
	// time intervals must share.
	MinOverlapFraction = 0.8
)

// Edge links two trips (by index into the sorted trip slice) that plausibly
// shared a vehicle.
type Edge struct {
	A, B int
}

// sortTrips establishes the total order every later step relies on: groups,
// members and tie-breaks must not depend on map iteration or input order.
func sortTrips(trips []models.Trip) []models.Trip {
	sorted := make([]models.Trip, len(trips))
	copy(sorted, trips)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTime != sorted[j].StartTime {
			return sorted[i].StartTime < sorted[j].StartTime
		}
		if sorted[i].EmployeeID != sorted[j].EmployeeID {
			return sorted[i].EmployeeID < sorted[j].EmployeeID
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// BuildEdges runs the pairwise geometry and overlap check over every
// unordered pair of trips belonging to different employees.
func BuildEdges(trips []models.Trip) []Edge {
	var edges []Edge
	for i := 0; i < len(trips); i++ {
		for j := i + 1; j < len(trips); j++ {
			if trips[i].EmployeeID == trips[j].EmployeeID {
				continue
			}
			if tripsLinked(trips[i], trips[j]) {
				edges = append(edges, Edge{A: i, B: j})
			}
		}
	}
	return edges
}

func tripsLinked(a, b models.Trip) bool {
	if spatial.Haversine(a.StartLat, a.StartLon, b.StartLat, b.StartLon) >= EndpointRadiusMeters {
		return false
	}
	if spatial.Haversine(a.EndLat, a.EndLon, b.EndLat, b.EndLon) >= EndpointRadiusMeters {
		return false
	}

	overlap := min64(a.EndTime, b.EndTime) - max64(a.StartTime, b.StartTime)
	if overlap <= 0 {
		return false
	}
	shorter := min64(a.EndTime-a.StartTime, b.EndTime-b.StartTime)
	if shorter <= 0 {
		return false
	}
	return float64(overlap) > MinOverlapFraction*float64(shorter)
}

// unionFind is a plain disjoint-set over trip indices.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// connectedComponents groups trip indices transitively over the edge list.
// Components keep the sorted-trip order internally and are returned ordered
// by their first member.
func connectedComponents(n int, edges []Edge) [][]int {
	uf := newUnionFind(n)
	for _, e := range edges {
		uf.union(e.A, e.B)
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	sort.Ints(roots)
	components := make([][]int, 0, len(roots))
	for _, root := range roots {
		components = append(components, byRoot[root])
	}
	return components
}

// DetectGroups runs carpool detection over one calendar day's driving trips:
// pairwise edge construction, connected components, and role resolution from
// the given vehicle periods. Groups with fewer than two trips are not
// carpools and are skipped. The result is a pure function of the inputs; the
// same trips and periods always produce the same groups in the same order.
func DetectGroups(date string, trips []models.Trip, periods []models.VehiclePeriod) []models.CarpoolGroup {
	sorted := sortTrips(trips)
	edges := BuildEdges(sorted)

	var groups []models.CarpoolGroup
	for _, component := range connectedComponents(len(sorted), edges) {
		if len(component) < 2 {
			continue
		}

		members := make([]models.Trip, 0, len(component))
		for _, idx := range component {
			members = append(members, sorted[idx])
		}
		groups = append(groups, resolveRoles(date, members, periods))
	}
	return groups
}
