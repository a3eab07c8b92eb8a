package model

import "encoding/json"

// CrewMember is one member of the production crew, provided by the character
// breakdown stage or defaulted from the standard template.
type CrewMember struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Availability string `json:"availability,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare name string.
func (c *CrewMember) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CrewMember{Name: name, Role: "Crew"}
		return nil
	}
	type alias CrewMember
	return json.Unmarshal(data, (*alias)(c))
}

// DefaultCrew returns the standard five role crew template used whenever no
// crew data is supplied.
func DefaultCrew() []CrewMember {
	return []CrewMember{
		{Name: "Director", Role: "Director"},
		{Name: "DP", Role: "Director of Photography"},
		{Name: "Sound Mixer", Role: "Sound"},
		{Name: "Gaffer", Role: "Lighting"},
		{Name: "Key Grip", Role: "Grip"},
	}
}

// EquipmentItem is one piece of production equipment.
type EquipmentItem struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	SetupTimeMinutes int    `json:"setup_time_minutes,omitempty"`
}

// EquipmentInventory lists the equipment available to the production. A nil
// inventory means the standard package.
type EquipmentInventory struct {
	Items []EquipmentItem `json:"items,omitempty"`
	Notes []string        `json:"notes,omitempty"`
}

// CrewAssignment is the per member result of crew allocation.
type CrewAssignment struct {
	CrewMember        string   `json:"crew_member"`
	Role              string   `json:"role"`
	AssignedScenes    []string `json:"assigned_scenes"`
	WorkHours         float64  `json:"work_hours"`
	TurnaroundHours   float64  `json:"turnaround_hours"`
	MealBreakInterval float64  `json:"meal_break_interval"`
	EquipmentAssigned []string `json:"equipment_assigned,omitempty"`
}

// EquipmentAssignment maps equipment to scenes and operators.
type EquipmentAssignment struct {
	EquipmentID      string   `json:"equipment_id"`
	Type             string   `json:"type"`
	AssignedScenes   []string `json:"assigned_scenes"`
	SetupTimeMinutes int      `json:"setup_time_minutes,omitempty"`
	AssignedCrew     []string `json:"assigned_crew,omitempty"`
}

// DepartmentSchedule groups crew, equipment and notes for one department.
type DepartmentSchedule struct {
	Crew      []string `json:"crew"`
	Equipment []string `json:"equipment"`
	Notes     []string `json:"notes,omitempty"`
}

// UnionViolation records a breached work rule. Violations are reported, not
// enforced: the allocation that produced them is still returned.
type UnionViolation struct {
	CrewMember string `json:"crew_member"`
	Rule       string `json:"rule"`
	Detail     string `json:"detail"`
}

// CrewAllocation is the full output of the crew allocation stage.
type CrewAllocation struct {
	CrewAssignments      []CrewAssignment              `json:"crew_assignments"`
	EquipmentAssignments []EquipmentAssignment         `json:"equipment_assignments"`
	DepartmentSchedules  map[string]DepartmentSchedule `json:"department_schedules,omitempty"`
	AllocationNotes      []string                      `json:"allocation_notes,omitempty"`
	UnionRuleViolations  []UnionViolation              `json:"union_rule_violations,omitempty"`
	IsFallback           bool                          `json:"is_fallback,omitempty"`
}
