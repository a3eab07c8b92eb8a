package sched

import (
	"testing"

	"github.com/kilianp07/stripboard/core/model"
)

func geoLoc(id string, lat, lon float64) model.Location {
	return model.Location{ID: id, Name: id, Latitude: &lat, Longitude: &lon, Scenes: []string{id}}
}

func TestPlanTourCycle(t *testing.T) {
	locs := []model.Location{
		geoLoc("paris", 48.8566, 2.3522),
		geoLoc("london", 51.5074, -0.1278),
		geoLoc("berlin", 52.52, 13.405),
		geoLoc("madrid", 40.4168, -3.7038),
	}
	tour, km, err := PlanTour(locs)
	if err != nil {
		t.Fatalf("tour: %v", err)
	}
	if len(tour) != len(locs)+1 {
		t.Fatalf("expected closed tour of %d entries, got %v", len(locs)+1, tour)
	}
	if tour[0] != tour[len(tour)-1] {
		t.Fatalf("tour must return to its start: %v", tour)
	}
	seen := map[int]bool{}
	for _, idx := range tour[:len(tour)-1] {
		if idx < 0 || idx >= len(locs) || seen[idx] {
			t.Fatalf("tour is not a permutation: %v", tour)
		}
		seen[idx] = true
	}
	if km <= 0 {
		t.Fatalf("expected positive tour length, got %.1f", km)
	}
}

func TestPlanTourSingleLocation(t *testing.T) {
	tour, km, err := PlanTour([]model.Location{geoLoc("studio", 34.05, -118.25)})
	if err != nil {
		t.Fatalf("tour: %v", err)
	}
	if len(tour) != 2 || tour[0] != 0 || tour[1] != 0 {
		t.Fatalf("expected trivial cycle, got %v", tour)
	}
	if km != 0 {
		t.Fatalf("expected zero length, got %.1f", km)
	}
}

func TestPlanTourRequiresCoordinates(t *testing.T) {
	locs := []model.Location{
		geoLoc("paris", 48.8566, 2.3522),
		{ID: "nowhere", Name: "nowhere"},
	}
	if _, _, err := PlanTour(locs); err == nil {
		t.Fatalf("expected error for ungeocoded location")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Paris to London is roughly 344 km.
	d := haversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	if d < 330 || d > 360 {
		t.Fatalf("unexpected distance: %.1f km", d)
	}
}
