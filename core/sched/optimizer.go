package sched

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/core/oracle"
)

// LocationOptimizer groups scenes by location, asks the planning oracle for a
// shooting sequence and attaches an approximate travel route when every
// location is geocoded.
type LocationOptimizer struct {
	oracle oracle.Oracle
	cfg    Config
	log    logger.Logger
}

// NewLocationOptimizer creates an optimizer. A nil logger is replaced by the
// no-op logger.
func NewLocationOptimizer(o oracle.Oracle, cfg Config, log logger.Logger) *LocationOptimizer {
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	return &LocationOptimizer{oracle: o, cfg: cfg, log: log}
}

// OptimizeLocations derives locations from the scenes and produces a
// LocationPlan. An empty scene set is the only error; oracle failures degrade
// to the deterministic fallback plan.
func (p *LocationOptimizer) OptimizeLocations(ctx context.Context, scenes []model.Scene, constraints *model.LocationConstraints) (model.LocationPlan, error) {
	if len(scenes) == 0 {
		return model.LocationPlan{}, ErrNoScenes
	}
	derived := deriveLocations(scenes)
	p.log.Debugf("derived %d location(s) from %d scene(s)", len(derived), len(scenes))

	plan, err := p.propose(ctx, scenes, derived, constraints)
	if err != nil {
		p.log.Warnf("location optimization degraded: %v", err)
		stageFallbacks.WithLabelValues(string(oracle.StageLocation)).Inc()
		return fallbackLocationPlan(derived, err), nil
	}

	if allGeocoded(plan.Locations) {
		m := distanceMatrix(plan.Locations)
		plan.Route = solveTour(m)
		p.log.Infof("computed tour over %d location(s), length %.1f km",
			len(plan.Locations), tourLength(m, plan.Route))
	} else {
		plan.Route = nil
		p.log.Warnf("route omitted: not all locations carry coordinates")
	}
	return plan, nil
}

func (p *LocationOptimizer) propose(ctx context.Context, scenes []model.Scene, derived []model.Location, constraints *model.LocationConstraints) (model.LocationPlan, error) {
	payload := oracle.LocationContext{Scenes: scenes, Locations: derived, Constraints: constraints}
	raw, err := proposeAndExtract(ctx, p.oracle, p.timeout(), oracle.StageLocation, payload)
	if err != nil {
		return model.LocationPlan{}, err
	}
	var plan model.LocationPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return model.LocationPlan{}, fmt.Errorf("decode location plan: %w", err)
	}
	if err := validateLocationPlan(plan); err != nil {
		return model.LocationPlan{}, err
	}
	return plan, nil
}

func (p *LocationOptimizer) timeout() time.Duration {
	return time.Duration(p.cfg.OracleTimeoutSeconds) * time.Second
}

// deriveLocations builds the location list from scenes, preserving first-use
// order. Scenes without any location information get a synthetic per-scene
// location keyed by the scene id.
func deriveLocations(scenes []model.Scene) []model.Location {
	var order []string
	byKey := map[string]*model.Location{}
	for _, s := range scenes {
		key := s.Location.Key()
		if key == "" {
			continue
		}
		loc, ok := byKey[key]
		if !ok {
			name := s.Location.Name
			if name == "" {
				name = key
			}
			setup, wrap := s.Location.SetupTimeMinutes, s.Location.WrapTimeMinutes
			if setup == 0 {
				setup = 60
			}
			if wrap == 0 {
				wrap = 60
			}
			loc = &model.Location{
				ID:               key,
				Name:             name,
				Address:          s.Location.Address,
				Latitude:         s.Location.Latitude,
				Longitude:        s.Location.Longitude,
				Requirements:     s.Location.Requirements,
				SetupTimeMinutes: setup,
				WrapTimeMinutes:  wrap,
			}
			byKey[key] = loc
			order = append(order, key)
		}
		loc.Scenes = append(loc.Scenes, s.ID)
	}
	if len(order) == 0 {
		// No location information at all: one synthetic location per scene.
		locs := make([]model.Location, 0, len(scenes))
		for _, s := range scenes {
			if s.ID == "" {
				continue
			}
			locs = append(locs, model.Location{
				ID:     s.ID,
				Name:   fmt.Sprintf("Location for scene %s", s.ID),
				Scenes: []string{s.ID},
			})
		}
		return locs
	}
	locs := make([]model.Location, 0, len(order))
	for _, key := range order {
		locs = append(locs, *byKey[key])
	}
	return locs
}

func validateLocationPlan(plan model.LocationPlan) error {
	if len(plan.Locations) == 0 {
		return fmt.Errorf("location plan: missing locations")
	}
	if len(plan.ShootingSequence) == 0 {
		return fmt.Errorf("location plan: missing shooting_sequence")
	}
	for i, loc := range plan.Locations {
		if loc.ID == "" || loc.Name == "" || len(loc.Scenes) == 0 {
			return fmt.Errorf("location plan: entry %d missing id, name or scenes", i)
		}
	}
	return nil
}

func allGeocoded(locs []model.Location) bool {
	if len(locs) == 0 {
		return false
	}
	for _, l := range locs {
		if !l.HasCoordinates() {
			return false
		}
	}
	return true
}

// fallbackLocationPlan is the deterministic degradation: every derived
// location its own group, shooting sequence in input order, no route.
func fallbackLocationPlan(derived []model.Location, cause error) model.LocationPlan {
	plan := model.LocationPlan{
		Locations:  derived,
		IsFallback: true,
		OptimizationNotes: []string{
			fmt.Sprintf("fallback plan: %v", cause),
		},
	}
	for _, loc := range derived {
		plan.ShootingSequence = append(plan.ShootingSequence, loc.ID)
		plan.LocationGroups = append(plan.LocationGroups, model.LocationGroup{
			GroupID:   "group_" + loc.ID,
			Locations: []string{loc.ID},
			Reason:    "fallback grouping",
		})
	}
	return plan
}
