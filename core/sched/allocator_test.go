package sched

import (
	"context"
	"errors"
	"testing"

	"github.com/kilianp07/stripboard/core/model"
)

func TestAllocateCrewEmptyScenes(t *testing.T) {
	a := NewCrewAllocator(staticOracle{}, Config{}, nil)
	if _, err := a.AllocateCrew(context.Background(), nil, model.DefaultCrew(), nil); !errors.Is(err, ErrNoScenes) {
		t.Fatalf("expected ErrNoScenes, got %v", err)
	}
}

func TestAllocateCrewFallback(t *testing.T) {
	a := NewCrewAllocator(staticOracle{err: errOracleDown}, Config{}, nil)
	crew := []model.CrewMember{{Name: "Alex", Role: "Gaffer"}, {Name: "Robin"}}
	alloc, err := a.AllocateCrew(context.Background(), sampleScenes(), crew, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !alloc.IsFallback {
		t.Fatalf("expected fallback allocation")
	}
	if len(alloc.CrewAssignments) != 2 {
		t.Fatalf("every crew member gets an assignment: %v", alloc.CrewAssignments)
	}
	for _, as := range alloc.CrewAssignments {
		if len(as.AssignedScenes) != 3 {
			t.Fatalf("%s should cover all scenes: %v", as.CrewMember, as.AssignedScenes)
		}
	}
	if alloc.CrewAssignments[1].Role != "Crew" {
		t.Fatalf("missing role should default to Crew: %+v", alloc.CrewAssignments[1])
	}
	// Fallback defaults are compliant, so the checker finds nothing.
	if len(alloc.UnionRuleViolations) != 0 {
		t.Fatalf("unexpected violations: %v", alloc.UnionRuleViolations)
	}
	for _, dept := range []string{"camera", "sound", "lighting"} {
		if _, ok := alloc.DepartmentSchedules[dept]; !ok {
			t.Fatalf("missing department stub %q", dept)
		}
	}
}

func TestAllocateCrewDefaultTemplate(t *testing.T) {
	a := NewCrewAllocator(staticOracle{err: errOracleDown}, Config{}, nil)
	alloc, err := a.AllocateCrew(context.Background(), sampleScenes(), nil, nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(alloc.CrewAssignments) != len(model.DefaultCrew()) {
		t.Fatalf("expected template crew, got %v", alloc.CrewAssignments)
	}
}

func TestAllocateCrewFlagsViolations(t *testing.T) {
	proposal := `{
		"crew_assignments": [
			{"crew_member": "Alex", "role": "Gaffer", "assigned_scenes": ["1"], "work_hours": 14, "turnaround_hours": 8, "meal_break_interval": 7}
		],
		"equipment_assignments": []
	}`
	a := NewCrewAllocator(staticOracle{out: proposal}, Config{}, nil)
	alloc, err := a.AllocateCrew(context.Background(), sampleScenes(), model.DefaultCrew(), nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if alloc.IsFallback {
		t.Fatalf("valid proposal should not degrade")
	}
	if len(alloc.UnionRuleViolations) != 3 {
		t.Fatalf("expected turnaround, work hour and meal break violations, got %v", alloc.UnionRuleViolations)
	}
	rules := map[string]bool{}
	for _, v := range alloc.UnionRuleViolations {
		if v.CrewMember != "Alex" {
			t.Fatalf("violation attributed to wrong member: %+v", v)
		}
		rules[v.Rule] = true
	}
	for _, r := range []string{"min_turnaround", "max_work_hours", "meal_break"} {
		if !rules[r] {
			t.Fatalf("missing rule %q in %v", r, alloc.UnionRuleViolations)
		}
	}
}

func TestAllocateCrewCustomThresholds(t *testing.T) {
	proposal := `{
		"crew_assignments": [
			{"crew_member": "Alex", "role": "Gaffer", "assigned_scenes": ["1"], "work_hours": 10, "turnaround_hours": 10, "meal_break_interval": 6}
		],
		"equipment_assignments": []
	}`
	// Tighter contract: 11h minimum turnaround.
	cfg := Config{MinTurnaroundHours: 11}
	a := NewCrewAllocator(staticOracle{out: proposal}, cfg, nil)
	alloc, err := a.AllocateCrew(context.Background(), sampleScenes(), model.DefaultCrew(), nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(alloc.UnionRuleViolations) != 1 || alloc.UnionRuleViolations[0].Rule != "min_turnaround" {
		t.Fatalf("expected one turnaround violation, got %v", alloc.UnionRuleViolations)
	}
}

func TestCheckUnionRulesBoundary(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	alloc := model.CrewAllocation{CrewAssignments: []model.CrewAssignment{
		{CrewMember: "Exact", AssignedScenes: []string{"1"}, WorkHours: 12, TurnaroundHours: 10, MealBreakInterval: 6},
		{CrewMember: "Short", AssignedScenes: []string{"1"}, WorkHours: 12, TurnaroundHours: 8, MealBreakInterval: 6},
	}}
	checkUnionRules(cfg, &alloc)
	if len(alloc.UnionRuleViolations) != 1 {
		t.Fatalf("only the 8h turnaround breaches the 10h floor: %v", alloc.UnionRuleViolations)
	}
	if v := alloc.UnionRuleViolations[0]; v.CrewMember != "Short" || v.Rule != "min_turnaround" {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestCheckUnionRulesOverwrites(t *testing.T) {
	alloc := model.CrewAllocation{
		CrewAssignments: []model.CrewAssignment{
			{CrewMember: "Alex", Role: "Gaffer", AssignedScenes: []string{"1"}, WorkHours: 8, TurnaroundHours: 12, MealBreakInterval: 6},
		},
		UnionRuleViolations: []model.UnionViolation{{CrewMember: "stale", Rule: "stale"}},
	}
	cfg := Config{}
	cfg.SetDefaults()
	checkUnionRules(cfg, &alloc)
	if len(alloc.UnionRuleViolations) != 0 {
		t.Fatalf("stale violations should be replaced: %v", alloc.UnionRuleViolations)
	}
}
