package sched

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/core/oracle"
)

// ScheduleGenerator turns the location plan and crew allocation into a
// day-by-day shooting calendar.
type ScheduleGenerator struct {
	oracle oracle.Oracle
	cfg    Config
	log    logger.Logger
}

// NewScheduleGenerator creates a generator. A nil logger is replaced by the
// no-op logger.
func NewScheduleGenerator(o oracle.Oracle, cfg Config, log logger.Logger) *ScheduleGenerator {
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	return &ScheduleGenerator{oracle: o, cfg: cfg, log: log}
}

// GenerateSchedule builds the calendar for startDate (YYYY-MM-DD). Dates are
// renormalized from startDate regardless of what the planner proposed; oracle
// failures degrade to the conservative fallback schedule.
func (g *ScheduleGenerator) GenerateSchedule(ctx context.Context, scenes []model.Scene, alloc model.CrewAllocation, plan model.LocationPlan, startDate string, constraints *model.ScheduleConstraints) (model.Schedule, error) {
	if len(scenes) == 0 {
		return model.Schedule{}, ErrNoScenes
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startDate)
	}

	sched, err := g.propose(ctx, scenes, alloc, plan, startDate, constraints)
	if err != nil {
		g.log.Warnf("schedule generation degraded: %v", err)
		stageFallbacks.WithLabelValues(string(oracle.StageSchedule)).Inc()
		sched = g.fallbackSchedule(scenes, start)
	}

	NormalizeDates(&sched, start)
	fillMetrics(&sched)
	g.log.Infof("schedule spans %d day(s) from %s", len(sched.Days), startDate)
	return sched, nil
}

func (g *ScheduleGenerator) propose(ctx context.Context, scenes []model.Scene, alloc model.CrewAllocation, plan model.LocationPlan, startDate string, constraints *model.ScheduleConstraints) (model.Schedule, error) {
	payload := oracle.ScheduleContext{
		Scenes:      scenes,
		Allocation:  alloc,
		Plan:        plan,
		StartDate:   startDate,
		Constraints: constraints,
	}
	raw, err := proposeAndExtract(ctx, g.oracle, g.timeout(), oracle.StageSchedule, payload)
	if err != nil {
		return model.Schedule{}, err
	}
	var sched model.Schedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		return model.Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}
	if err := validateSchedule(sched, scenes); err != nil {
		return model.Schedule{}, err
	}
	return sched, nil
}

func (g *ScheduleGenerator) timeout() time.Duration {
	return time.Duration(g.cfg.OracleTimeoutSeconds) * time.Second
}

// validateSchedule checks the proposal's structure and that every scheduled
// scene refers back to an input scene. A proposal inventing scene ids is as
// unusable as one missing required fields.
func validateSchedule(sched model.Schedule, scenes []model.Scene) error {
	if sched.Days == nil {
		return fmt.Errorf("schedule: missing day list")
	}
	if sched.TotalDays == 0 {
		return fmt.Errorf("schedule: missing total_days")
	}
	known := make(map[string]bool, len(scenes))
	for _, s := range scenes {
		known[s.ID] = true
	}
	for i, day := range sched.Days {
		if day.Date == "" || day.DayNumber == 0 || day.Scenes == nil {
			return fmt.Errorf("schedule: day %d missing date, day_number or scenes", i)
		}
		for j, sc := range day.Scenes {
			if sc.SceneID == "" || sc.StartTime == "" || sc.EndTime == "" {
				return fmt.Errorf("schedule: day %d scene %d missing scene_id, start_time or end_time", i, j)
			}
			if !known[sc.SceneID] {
				return fmt.Errorf("schedule: day %d references unknown scene %q", i, sc.SceneID)
			}
		}
	}
	return nil
}

// fallbackSchedule packs FallbackScenesPerDay scenes into 08:00-18:00 days
// with a generic crew call.
func (g *ScheduleGenerator) fallbackSchedule(scenes []model.Scene, start time.Time) model.Schedule {
	perDay := g.cfg.FallbackScenesPerDay
	if perDay <= 0 {
		perDay = 3
	}
	var days []model.ShootingDay
	for i := 0; i < len(scenes); i += perDay {
		end := i + perDay
		if end > len(scenes) {
			end = len(scenes)
		}
		chunk := scenes[i:end]
		day := model.ShootingDay{
			Date:       start.AddDate(0, 0, len(days)).Format("2006-01-02"),
			DayNumber:  len(days) + 1,
			DayStart:   "08:00",
			DayWrap:    "18:00",
			TotalPages: float64(len(chunk)),
			Notes:      []string{"fallback schedule: basic timing"},
		}
		for idx, s := range chunk {
			id := s.ID
			if id == "" {
				id = fmt.Sprintf("scene_%d", i+idx)
			}
			startHour := 8 + idx*3
			if startHour > 20 {
				// Keep wrap at or before 23:00 even with oversized day packing.
				startHour = 20
			}
			day.Scenes = append(day.Scenes, model.ScheduledScene{
				SceneID:               id,
				Location:              locationDisplayName(s),
				StartTime:             fmt.Sprintf("%02d:00", startHour),
				EndTime:               fmt.Sprintf("%02d:30", startHour+2),
				SetupTime:             fmt.Sprintf("%02d:30", startHour-1),
				WrapTime:              fmt.Sprintf("%02d:00", startHour+3),
				CrewCalls:             []model.CrewCall{{CrewMember: "All Crew", CallTime: "07:30"}},
				EquipmentRequirements: []string{"Standard Package"},
				Notes:                 []string{"basic timing, adjust as needed"},
			})
		}
		days = append(days, day)
	}
	return model.Schedule{
		Days:      days,
		TotalDays: len(days),
		ScheduleNotes: []string{
			"fallback schedule: planner output could not be validated",
			fmt.Sprintf("conservative estimate of %d scene(s) per day", perDay),
		},
		Metrics: model.EfficiencyMetrics{
			AveragePagesPerDay:        float64(perDay),
			LocationOptimizationScore: 0.5,
		},
		IsFallback: true,
	}
}

func locationDisplayName(s model.Scene) string {
	if s.Location.Name != "" {
		return s.Location.Name
	}
	return "Default Location"
}

// fillMetrics computes day-level efficiency metrics when the planner left
// them unset.
func fillMetrics(sched *model.Schedule) {
	if len(sched.Days) == 0 {
		return
	}
	zero := model.EfficiencyMetrics{}
	if sched.Metrics != zero {
		return
	}
	moves := make([]float64, len(sched.Days))
	pages := make([]float64, len(sched.Days))
	for i, d := range sched.Days {
		moves[i] = float64(d.CompanyMoves)
		pages[i] = d.TotalPages
	}
	sched.Metrics.CompanyMovesPerDay = stat.Mean(moves, nil)
	sched.Metrics.AveragePagesPerDay = stat.Mean(pages, nil)
	sched.Metrics.LocationOptimizationScore = 0.5
}
