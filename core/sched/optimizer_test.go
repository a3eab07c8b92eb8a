package sched

import (
	"context"
	"errors"
	"testing"

	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/core/oracle"
)

// staticOracle returns a canned proposal, or an error, for every stage.
type staticOracle struct {
	out string
	err error
}

func (s staticOracle) ProposePlan(ctx context.Context, req oracle.Request) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.out), nil
}

var errOracleDown = errors.New("backend unavailable")

func sampleScenes() []model.Scene {
	return []model.Scene{
		{ID: "1", Location: model.SceneLocation{ID: "cafe", Name: "Cafe"}, DurationMinutes: 90},
		{ID: "2", Location: model.SceneLocation{ID: "park", Name: "Park"}, DurationMinutes: 60},
		{ID: "3", Location: model.SceneLocation{ID: "cafe", Name: "Cafe"}, DurationMinutes: 45},
	}
}

func TestOptimizeLocationsEmptyScenes(t *testing.T) {
	opt := NewLocationOptimizer(staticOracle{}, Config{}, nil)
	if _, err := opt.OptimizeLocations(context.Background(), nil, nil); !errors.Is(err, ErrNoScenes) {
		t.Fatalf("expected ErrNoScenes, got %v", err)
	}
}

func TestOptimizeLocationsFallback(t *testing.T) {
	opt := NewLocationOptimizer(staticOracle{err: errOracleDown}, Config{}, nil)
	plan, err := opt.OptimizeLocations(context.Background(), sampleScenes(), nil)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if !plan.IsFallback {
		t.Fatalf("expected fallback plan")
	}
	if len(plan.Locations) != 2 {
		t.Fatalf("expected 2 derived locations, got %v", plan.Locations)
	}
	// First-use order: cafe before park.
	if plan.Locations[0].ID != "cafe" || plan.Locations[1].ID != "park" {
		t.Fatalf("derivation order lost: %v", plan.ShootingSequence)
	}
	if len(plan.LocationGroups) != 2 || plan.LocationGroups[0].GroupID != "group_cafe" {
		t.Fatalf("each location should form its own group: %v", plan.LocationGroups)
	}
	if plan.Route != nil {
		t.Fatalf("fallback plan must not carry a route")
	}
	cafe := plan.Locations[0]
	if len(cafe.Scenes) != 2 || cafe.SetupTimeMinutes != 60 || cafe.WrapTimeMinutes != 60 {
		t.Fatalf("unexpected cafe derivation: %+v", cafe)
	}
}

func TestOptimizeLocationsFallbackDeterministic(t *testing.T) {
	opt := NewLocationOptimizer(staticOracle{out: "sorry, I cannot help"}, Config{}, nil)
	first, err := opt.OptimizeLocations(context.Background(), sampleScenes(), nil)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	second, err := opt.OptimizeLocations(context.Background(), sampleScenes(), nil)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(first.ShootingSequence) != len(second.ShootingSequence) {
		t.Fatalf("fallback is not deterministic")
	}
	for i := range first.ShootingSequence {
		if first.ShootingSequence[i] != second.ShootingSequence[i] {
			t.Fatalf("fallback is not deterministic: %v vs %v", first.ShootingSequence, second.ShootingSequence)
		}
	}
}

func TestOptimizeLocationsRouteWhenGeocoded(t *testing.T) {
	proposal := `{
		"locations": [
			{"id": "paris", "name": "Paris", "latitude": 48.8566, "longitude": 2.3522, "scenes": ["1"]},
			{"id": "london", "name": "London", "latitude": 51.5074, "longitude": -0.1278, "scenes": ["2"]}
		],
		"shooting_sequence": ["paris", "london"]
	}`
	opt := NewLocationOptimizer(staticOracle{out: proposal}, Config{}, nil)
	plan, err := opt.OptimizeLocations(context.Background(), sampleScenes(), nil)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if plan.IsFallback {
		t.Fatalf("valid proposal should not degrade")
	}
	if len(plan.Route) != 3 || plan.Route[0] != plan.Route[2] {
		t.Fatalf("expected closed tour over 2 locations, got %v", plan.Route)
	}
}

func TestOptimizeLocationsNoRouteWithoutCoordinates(t *testing.T) {
	proposal := `{
		"locations": [
			{"id": "paris", "name": "Paris", "latitude": 48.85, "longitude": 2.35, "scenes": ["1"]},
			{"id": "void", "name": "Void Stage", "scenes": ["2"]}
		],
		"shooting_sequence": ["paris", "void"],
		"route": [0, 1, 0]
	}`
	opt := NewLocationOptimizer(staticOracle{out: proposal}, Config{}, nil)
	plan, err := opt.OptimizeLocations(context.Background(), sampleScenes(), nil)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if plan.Route != nil {
		t.Fatalf("route must be dropped when a location lacks coordinates: %v", plan.Route)
	}
}

func TestDeriveLocationsSynthetic(t *testing.T) {
	scenes := []model.Scene{{ID: "a"}, {ID: "b"}}
	locs := deriveLocations(scenes)
	if len(locs) != 2 {
		t.Fatalf("expected one synthetic location per scene, got %v", locs)
	}
	if locs[0].ID != "a" || locs[0].Name != "Location for scene a" {
		t.Fatalf("unexpected synthetic location: %+v", locs[0])
	}
}
