package sched

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/stripboard/core/model"
)

// PlanTour computes an approximate shortest closed tour over the given
// locations. Every location must carry coordinates. The returned tour is a
// cycle of indexes into locs with the start repeated at the end, together
// with the total length in kilometres.
func PlanTour(locs []model.Location) ([]int, float64, error) {
	if len(locs) == 0 {
		return nil, 0, fmt.Errorf("no locations")
	}
	for _, l := range locs {
		if !l.HasCoordinates() {
			return nil, 0, fmt.Errorf("location %q has no coordinates", l.Name)
		}
	}
	m := distanceMatrix(locs)
	tour := solveTour(m)
	return tour, tourLength(m, tour), nil
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// distanceMatrix builds the symmetric pairwise distance matrix for locations
// that all carry coordinates.
func distanceMatrix(locs []model.Location) *mat.SymDense {
	n := len(locs)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := haversineKm(*locs[i].Latitude, *locs[i].Longitude,
				*locs[j].Latitude, *locs[j].Longitude)
			m.SetSym(i, j, d)
		}
	}
	return m
}

// tourLength sums the edge weights of a closed tour.
func tourLength(m *mat.SymDense, tour []int) float64 {
	var total float64
	for i := 1; i < len(tour); i++ {
		total += m.At(tour[i-1], tour[i])
	}
	return total
}

// solveTour computes an approximate minimum-weight closed tour over the
// distance matrix: nearest-neighbour construction followed by 2-opt
// improvement. The returned slice visits every index once and repeats the
// starting index at the end, so len(tour) == n+1.
func solveTour(m *mat.SymDense) []int {
	n, _ := m.Dims()
	switch n {
	case 0:
		return nil
	case 1:
		return []int{0, 0}
	}

	// Nearest neighbour from index 0.
	perm := make([]int, 0, n)
	visited := make([]bool, n)
	cur := 0
	perm = append(perm, cur)
	visited[cur] = true
	for len(perm) < n {
		next, best := -1, math.Inf(1)
		for j := 0; j < n; j++ {
			if !visited[j] && m.At(cur, j) < best {
				next, best = j, m.At(cur, j)
			}
		}
		perm = append(perm, next)
		visited[next] = true
		cur = next
	}

	// 2-opt: reverse segments while that shortens the cycle.
	improved := true
	for improved {
		improved = false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				a, b := perm[i-1], perm[i]
				c, d := perm[j], perm[(j+1)%n]
				delta := m.At(a, c) + m.At(b, d) - m.At(a, b) - m.At(c, d)
				if delta < -1e-9 {
					for lo, hi := i, j; lo < hi; lo, hi = lo+1, hi-1 {
						perm[lo], perm[hi] = perm[hi], perm[lo]
					}
					improved = true
				}
			}
		}
	}

	return append(perm, perm[0])
}
