package oracle

import (
	"context"
	"encoding/json"

	"github.com/kilianp07/stripboard/core/model"
)

// Stage identifies which pipeline stage a plan is requested for.
type Stage string

const (
	StageLocation Stage = "location_optimization"
	StageCrew     Stage = "crew_allocation"
	StageSchedule Stage = "schedule_generation"
)

// Request carries the context documents a planner needs for one stage. The
// context is the JSON encoding of the stage's typed context struct below.
type Request struct {
	Stage   Stage           `json:"stage"`
	Context json.RawMessage `json:"context"`
}

// Oracle proposes a structured plan for a stage. The returned bytes are
// expected to contain a single JSON object matching the stage schema, but
// callers must tolerate surrounding prose: generative backends wrap their
// output in code fences or commentary, and a proposal that cannot be
// recovered as valid JSON triggers the stage's deterministic fallback.
type Oracle interface {
	ProposePlan(ctx context.Context, req Request) ([]byte, error)
}

// LocationContext is the request context for StageLocation.
type LocationContext struct {
	Scenes      []model.Scene              `json:"scenes"`
	Locations   []model.Location           `json:"locations"`
	Constraints *model.LocationConstraints `json:"constraints,omitempty"`
}

// CrewContext is the request context for StageCrew.
type CrewContext struct {
	Scenes    []model.Scene             `json:"scenes"`
	Crew      []model.CrewMember        `json:"crew"`
	Equipment *model.EquipmentInventory `json:"equipment,omitempty"`
}

// ScheduleContext is the request context for StageSchedule.
type ScheduleContext struct {
	Scenes      []model.Scene              `json:"scenes"`
	Allocation  model.CrewAllocation       `json:"crew_allocation"`
	Plan        model.LocationPlan         `json:"location_plan"`
	StartDate   string                     `json:"start_date"`
	Constraints *model.ScheduleConstraints `json:"constraints,omitempty"`
}

// NewRequest marshals the typed context into a Request.
func NewRequest(stage Stage, context any) (Request, error) {
	raw, err := json.Marshal(context)
	if err != nil {
		return Request{}, err
	}
	return Request{Stage: stage, Context: raw}, nil
}
