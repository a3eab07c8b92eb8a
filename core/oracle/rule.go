package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/stripboard/core/model"
)

// RuleOracle is the built-in deterministic planner. It applies plain
// production heuristics so the pipeline works without any remote backend:
// scenes are grouped by location, crew follows department conventions and
// days are packed under the work-hour and company-move budgets.
type RuleOracle struct {
	// MaxHoursPerDay bounds a shooting day when the request carries no
	// constraint. Zero means 10 hours.
	MaxHoursPerDay float64
	// MaxMovesPerDay bounds company moves within a day. Zero means 2.
	MaxMovesPerDay int
}

// ProposePlan implements Oracle.
func (r RuleOracle) ProposePlan(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch req.Stage {
	case StageLocation:
		var lc LocationContext
		if err := json.Unmarshal(req.Context, &lc); err != nil {
			return nil, fmt.Errorf("rule oracle: decode location context: %w", err)
		}
		return json.Marshal(r.planLocations(lc))
	case StageCrew:
		var cc CrewContext
		if err := json.Unmarshal(req.Context, &cc); err != nil {
			return nil, fmt.Errorf("rule oracle: decode crew context: %w", err)
		}
		return json.Marshal(r.planCrew(cc))
	case StageSchedule:
		var sc ScheduleContext
		if err := json.Unmarshal(req.Context, &sc); err != nil {
			return nil, fmt.Errorf("rule oracle: decode schedule context: %w", err)
		}
		return json.Marshal(r.planSchedule(sc))
	default:
		return nil, fmt.Errorf("rule oracle: unknown stage %q", req.Stage)
	}
}

func (r RuleOracle) planLocations(lc LocationContext) model.LocationPlan {
	plan := model.LocationPlan{Locations: lc.Locations}
	for _, loc := range lc.Locations {
		plan.ShootingSequence = append(plan.ShootingSequence, loc.ID)
		group := model.LocationGroup{
			GroupID:   "group_" + loc.ID,
			Locations: []string{loc.ID},
			Reason:    fmt.Sprintf("%d scene(s) at %s shot back to back", len(loc.Scenes), loc.Name),
		}
		plan.LocationGroups = append(plan.LocationGroups, group)
	}
	for _, s := range lc.Scenes {
		tod := strings.ToUpper(s.TimeOfDay)
		need := model.DaylightRequirement{SceneID: s.ID}
		switch tod {
		case "DAY", "MORNING", "AFTERNOON":
			need.NeedsDaylight = true
		case "DAWN", "DUSK", "GOLDEN HOUR":
			need.NeedsDaylight = true
			need.GoldenHour = true
		}
		if need.NeedsDaylight {
			plan.DaylightRequirements = append(plan.DaylightRequirements, need)
		}
	}
	plan.OptimizationNotes = append(plan.OptimizationNotes,
		fmt.Sprintf("grouped %d scene(s) into %d location(s)", len(lc.Scenes), len(lc.Locations)))
	if lc.Constraints != nil && len(lc.Constraints.PreferredLocations) > 0 {
		plan.OptimizationNotes = append(plan.OptimizationNotes,
			"preferred locations honored where present: "+strings.Join(lc.Constraints.PreferredLocations, ", "))
	}
	return plan
}

// department maps a crew role onto a department bucket.
func department(role string) string {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "photo"), strings.Contains(r, "camera"), strings.Contains(r, "dp"):
		return "camera"
	case strings.Contains(r, "sound"), strings.Contains(r, "mixer"), strings.Contains(r, "boom"):
		return "sound"
	case strings.Contains(r, "light"), strings.Contains(r, "gaffer"), strings.Contains(r, "electric"):
		return "lighting"
	case strings.Contains(r, "grip"):
		return "grip"
	default:
		return "production"
	}
}

func (r RuleOracle) planCrew(cc CrewContext) model.CrewAllocation {
	sceneIDs := make([]string, 0, len(cc.Scenes))
	var totalMinutes int
	for _, s := range cc.Scenes {
		sceneIDs = append(sceneIDs, s.ID)
		d := s.DurationMinutes
		if d <= 0 {
			d = 60
		}
		totalMinutes += d
	}
	workHours := float64(totalMinutes) / 60
	if workHours > 12 {
		workHours = 12
	}
	if workHours < 1 {
		workHours = 1
	}

	alloc := model.CrewAllocation{
		DepartmentSchedules: map[string]model.DepartmentSchedule{},
	}
	for _, member := range cc.Crew {
		dept := department(member.Role)
		alloc.CrewAssignments = append(alloc.CrewAssignments, model.CrewAssignment{
			CrewMember:        member.Name,
			Role:              member.Role,
			AssignedScenes:    sceneIDs,
			WorkHours:         workHours,
			TurnaroundHours:   12,
			MealBreakInterval: 6,
		})
		ds := alloc.DepartmentSchedules[dept]
		ds.Crew = append(ds.Crew, member.Name)
		alloc.DepartmentSchedules[dept] = ds
	}
	if cc.Equipment != nil {
		for _, item := range cc.Equipment.Items {
			dept := department(item.Type)
			ds := alloc.DepartmentSchedules[dept]
			ds.Equipment = append(ds.Equipment, item.ID)
			alloc.DepartmentSchedules[dept] = ds
			alloc.EquipmentAssignments = append(alloc.EquipmentAssignments, model.EquipmentAssignment{
				EquipmentID:      item.ID,
				Type:             item.Type,
				AssignedScenes:   sceneIDs,
				SetupTimeMinutes: item.SetupTimeMinutes,
				AssignedCrew:     alloc.DepartmentSchedules[dept].Crew,
			})
		}
	} else {
		alloc.EquipmentAssignments = []model.EquipmentAssignment{}
		alloc.AllocationNotes = append(alloc.AllocationNotes, "standard equipment package assumed")
	}
	alloc.AllocationNotes = append(alloc.AllocationNotes,
		fmt.Sprintf("%d crew member(s) shared across %d scene(s)", len(cc.Crew), len(cc.Scenes)))
	return alloc
}

func (r RuleOracle) planSchedule(sc ScheduleContext) model.Schedule {
	maxHours := r.MaxHoursPerDay
	if sc.Constraints != nil && sc.Constraints.MaxHoursPerDay > 0 {
		maxHours = sc.Constraints.MaxHoursPerDay
	}
	if maxHours <= 0 {
		maxHours = 10
	}
	maxMoves := r.MaxMovesPerDay
	if sc.Constraints != nil && sc.Constraints.MaxCompanyMovesPerDay > 0 {
		maxMoves = sc.Constraints.MaxCompanyMovesPerDay
	}
	if maxMoves <= 0 {
		maxMoves = 2
	}

	scenes := orderScenes(sc.Scenes, sc.Plan)
	start, err := time.Parse("2006-01-02", sc.StartDate)
	if err != nil {
		start = time.Now()
	}

	var (
		days     []model.ShootingDay
		day      model.ShootingDay
		dayMin   int
		lastLoc  string
		crewCall = crewCallsFor(sc.Allocation)
	)
	openDay := func() {
		day = model.ShootingDay{
			Date:      start.AddDate(0, 0, len(days)).Format("2006-01-02"),
			DayNumber: len(days) + 1,
			DayStart:  "08:00",
		}
		dayMin = 0
		lastLoc = ""
	}
	closeDay := func() {
		if len(day.Scenes) == 0 {
			return
		}
		day.DayWrap = clock(8*60 + dayMin + 30)
		day.TotalPages = float64(len(day.Scenes))
		days = append(days, day)
	}
	openDay()
	for _, s := range scenes {
		d := s.DurationMinutes
		if d <= 0 {
			d = 60
		}
		loc := s.Location.Key()
		move := lastLoc != "" && loc != "" && loc != lastLoc
		if len(day.Scenes) > 0 &&
			(float64(dayMin+d)/60 > maxHours || (move && day.CompanyMoves >= maxMoves)) {
			closeDay()
			openDay()
			move = false
		}
		if move {
			day.CompanyMoves++
			dayMin += 30 // travel buffer
		}
		startMin := 8*60 + dayMin
		day.Scenes = append(day.Scenes, model.ScheduledScene{
			SceneID:   s.ID,
			Location:  locationName(s),
			StartTime: clock(startMin),
			EndTime:   clock(startMin + d),
			SetupTime: clock(startMin - 30),
			WrapTime:  clock(startMin + d + 30),
			CrewCalls: crewCall,
		})
		dayMin += d
		if loc != "" {
			lastLoc = loc
		}
	}
	closeDay()

	sched := model.Schedule{
		Days:      days,
		TotalDays: len(days),
		ScheduleNotes: []string{
			fmt.Sprintf("%d scene(s) over %d day(s), %.0fh day cap", len(scenes), len(days), maxHours),
		},
	}
	var moves, pages float64
	for _, d := range days {
		moves += float64(d.CompanyMoves)
		pages += d.TotalPages
	}
	if n := float64(len(days)); n > 0 {
		sched.Metrics.CompanyMovesPerDay = moves / n
		sched.Metrics.AveragePagesPerDay = pages / n
	}
	if len(scenes) > 0 {
		score := 1 - moves/float64(len(scenes))
		if score < 0 {
			score = 0
		}
		sched.Metrics.LocationOptimizationScore = score
	}
	return sched
}

// orderScenes follows the plan's shooting sequence, keeping input order
// within a location. Scenes at unknown locations are appended last.
func orderScenes(scenes []model.Scene, plan model.LocationPlan) []model.Scene {
	rank := make(map[string]int, len(plan.ShootingSequence))
	for i, id := range plan.ShootingSequence {
		rank[id] = i
	}
	ordered := make([]model.Scene, 0, len(scenes))
	for seq := range plan.ShootingSequence {
		for _, s := range scenes {
			if r, ok := rank[s.Location.Key()]; ok && r == seq {
				ordered = append(ordered, s)
			}
		}
	}
	for _, s := range scenes {
		if _, ok := rank[s.Location.Key()]; !ok {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func crewCallsFor(alloc model.CrewAllocation) []model.CrewCall {
	calls := make([]model.CrewCall, 0, len(alloc.CrewAssignments))
	for _, a := range alloc.CrewAssignments {
		calls = append(calls, model.CrewCall{CrewMember: a.CrewMember, CallTime: "07:30"})
	}
	if len(calls) == 0 {
		calls = append(calls, model.CrewCall{CrewMember: "All Crew", CallTime: "07:30"})
	}
	return calls
}

func locationName(s model.Scene) string {
	if s.Location.Name != "" {
		return s.Location.Name
	}
	if s.Location.ID != "" {
		return s.Location.ID
	}
	return "Default Location"
}

func clock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}
