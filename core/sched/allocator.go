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

// CrewAllocator assigns crew and equipment to scenes and checks the result
// against union rules.
type CrewAllocator struct {
	oracle oracle.Oracle
	cfg    Config
	log    logger.Logger
}

// NewCrewAllocator creates an allocator. A nil logger is replaced by the
// no-op logger.
func NewCrewAllocator(o oracle.Oracle, cfg Config, log logger.Logger) *CrewAllocator {
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	return &CrewAllocator{oracle: o, cfg: cfg, log: log}
}

// AllocateCrew produces a CrewAllocation for the scenes. An empty crew list
// falls back to the standard template; an empty scene set is an error. Oracle
// failures degrade to the deterministic fallback allocation.
func (a *CrewAllocator) AllocateCrew(ctx context.Context, scenes []model.Scene, crew []model.CrewMember, equipment *model.EquipmentInventory) (model.CrewAllocation, error) {
	if len(scenes) == 0 {
		return model.CrewAllocation{}, ErrNoScenes
	}
	if len(crew) == 0 {
		a.log.Warnf("no crew provided, using standard crew template")
		crew = model.DefaultCrew()
	}

	alloc, err := a.propose(ctx, scenes, crew, equipment)
	if err != nil {
		a.log.Warnf("crew allocation degraded: %v", err)
		stageFallbacks.WithLabelValues(string(oracle.StageCrew)).Inc()
		alloc = fallbackAllocation(scenes, crew)
	}

	checkUnionRules(a.cfg, &alloc)
	if n := len(alloc.UnionRuleViolations); n > 0 {
		a.log.Warnf("found %d union rule violation(s)", n)
		unionViolations.Add(float64(n))
	}
	return alloc, nil
}

func (a *CrewAllocator) propose(ctx context.Context, scenes []model.Scene, crew []model.CrewMember, equipment *model.EquipmentInventory) (model.CrewAllocation, error) {
	payload := oracle.CrewContext{Scenes: scenes, Crew: crew, Equipment: equipment}
	raw, err := proposeAndExtract(ctx, a.oracle, a.timeout(), oracle.StageCrew, payload)
	if err != nil {
		return model.CrewAllocation{}, err
	}
	var alloc model.CrewAllocation
	if err := json.Unmarshal(raw, &alloc); err != nil {
		return model.CrewAllocation{}, fmt.Errorf("decode crew allocation: %w", err)
	}
	if err := validateAllocation(alloc); err != nil {
		return model.CrewAllocation{}, err
	}
	return alloc, nil
}

func (a *CrewAllocator) timeout() time.Duration {
	return time.Duration(a.cfg.OracleTimeoutSeconds) * time.Second
}

func validateAllocation(alloc model.CrewAllocation) error {
	if alloc.CrewAssignments == nil {
		return fmt.Errorf("crew allocation: missing crew_assignments")
	}
	if alloc.EquipmentAssignments == nil {
		return fmt.Errorf("crew allocation: missing equipment_assignments")
	}
	for i, as := range alloc.CrewAssignments {
		if as.CrewMember == "" || as.Role == "" || as.AssignedScenes == nil {
			return fmt.Errorf("crew allocation: assignment %d missing crew_member, role or assigned_scenes", i)
		}
	}
	for i, eq := range alloc.EquipmentAssignments {
		if eq.EquipmentID == "" || eq.Type == "" || eq.AssignedScenes == nil {
			return fmt.Errorf("crew allocation: equipment %d missing equipment_id, type or assigned_scenes", i)
		}
	}
	return nil
}

// fallbackAllocation assigns every crew member to every scene with default
// hours. The defaults are rule-compliant on purpose.
func fallbackAllocation(scenes []model.Scene, crew []model.CrewMember) model.CrewAllocation {
	sceneIDs := make([]string, 0, len(scenes))
	for _, s := range scenes {
		id := s.ID
		if id == "" {
			id = "unknown"
		}
		sceneIDs = append(sceneIDs, id)
	}
	alloc := model.CrewAllocation{
		EquipmentAssignments: []model.EquipmentAssignment{},
		DepartmentSchedules: map[string]model.DepartmentSchedule{
			"camera":   {Crew: []string{}, Equipment: []string{}, Notes: []string{"fallback schedule"}},
			"sound":    {Crew: []string{}, Equipment: []string{}, Notes: []string{"fallback schedule"}},
			"lighting": {Crew: []string{}, Equipment: []string{}, Notes: []string{"fallback schedule"}},
		},
		AllocationNotes: []string{"fallback allocation: planner output could not be validated"},
		IsFallback:      true,
	}
	for _, member := range crew {
		role := member.Role
		if role == "" {
			role = "Crew"
		}
		alloc.CrewAssignments = append(alloc.CrewAssignments, model.CrewAssignment{
			CrewMember:        member.Name,
			Role:              role,
			AssignedScenes:    sceneIDs,
			WorkHours:         12,
			TurnaroundHours:   12,
			MealBreakInterval: 6,
			EquipmentAssigned: []string{},
		})
	}
	return alloc
}
