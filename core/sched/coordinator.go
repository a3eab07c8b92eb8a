package sched

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/stripboard/core/events"
	"github.com/kilianp07/stripboard/core/logger"
	coremetrics "github.com/kilianp07/stripboard/core/metrics"
	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/core/oracle"
	"github.com/kilianp07/stripboard/internal/eventbus"
)

// State is the coordinator's position in the pipeline.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateOptimizingLocations
	StateAllocatingCrew
	StateGeneratingSchedule
	StateValidatingOutput
	StatePersisted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateOptimizingLocations:
		return "optimizing_locations"
	case StateAllocatingCrew:
		return "allocating_crew"
	case StateGeneratingSchedule:
		return "generating_schedule"
	case StateValidatingOutput:
		return "validating_output"
	case StatePersisted:
		return "persisted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResultStore persists assembled schedule results. Save failures must not
// fail the run.
type ResultStore interface {
	SaveResult(ctx context.Context, res model.ScheduleResult) (string, error)
}

// Notifier announces completed runs to downstream consumers.
type Notifier interface {
	PublishResult(ctx context.Context, res model.ScheduleResult) error
}

// timeNow is overridable in tests.
var timeNow = time.Now

// Request carries one scheduling run's inputs.
type Request struct {
	SceneData           SceneInput
	CrewData            CrewInput
	StartDate           string
	LocationConstraints *model.LocationConstraints
	EquipmentInventory  *model.EquipmentInventory
	ScheduleConstraints *model.ScheduleConstraints
}

// Coordinator orchestrates the three scheduling stages in sequence. Each
// scheduling request should use its own Coordinator instance; instances hold
// no shared mutable state beyond configuration and injected collaborators.
type Coordinator struct {
	optimizer *LocationOptimizer
	allocator *CrewAllocator
	generator *ScheduleGenerator
	cfg       Config
	log       logger.Logger

	store    ResultStore
	notifier Notifier
	sink     coremetrics.MetricsSink
	bus      eventbus.EventBus

	mu    sync.Mutex
	state State
}

// NewCoordinator creates a coordinator around the given oracle. The oracle is
// required; store, notifier, sink and bus are optional collaborators.
func NewCoordinator(o oracle.Oracle, cfg Config, log logger.Logger) (*Coordinator, error) {
	if o == nil {
		return nil, fmt.Errorf("sched: nil oracle provided to NewCoordinator")
	}
	if log == nil {
		log = logger.Nop{}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		optimizer: NewLocationOptimizer(o, cfg, log),
		allocator: NewCrewAllocator(o, cfg, log),
		generator: NewScheduleGenerator(o, cfg, log),
		cfg:       cfg,
		log:       log,
		state:     StateIdle,
	}, nil
}

// SetResultStore configures the store used to persist results.
func (c *Coordinator) SetResultStore(store ResultStore) { c.store = store }

// SetNotifier configures the downstream notifier.
func (c *Coordinator) SetNotifier(n Notifier) { c.notifier = n }

// SetMetricsSink configures the run-level metrics sink.
func (c *Coordinator) SetMetricsSink(sink coremetrics.MetricsSink) { c.sink = sink }

// SetEventBus configures the bus stage events are published on.
func (c *Coordinator) SetEventBus(bus eventbus.EventBus) { c.bus = bus }

// State returns the coordinator's current pipeline state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) publish(ev eventbus.Event) {
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}

// GenerateSchedule runs the full pipeline. Only input validation errors are
// returned; once inputs pass, stage degradations are absorbed as fallbacks
// and the run reaches StatePersisted.
func (c *Coordinator) GenerateSchedule(ctx context.Context, req Request) (model.ScheduleResult, error) {
	began := timeNow()
	c.setState(StateValidating)

	scenes, err := req.SceneData.resolveScenes()
	if err != nil {
		c.setState(StateFailed)
		return model.ScheduleResult{}, err
	}
	crew := req.CrewData.resolveCrew(c.log)
	startDate, err := validateStartDate(req.StartDate, timeNow, c.log)
	if err != nil {
		c.setState(StateFailed)
		return model.ScheduleResult{}, err
	}
	c.log.Infof("scheduling %d scene(s) with %d crew member(s) from %s",
		len(scenes), len(crew), startDate)

	c.setState(StateOptimizingLocations)
	c.publish(events.StageEvent{Stage: string(oracle.StageLocation), Action: "start"})
	stageBegan := timeNow()
	plan, err := c.optimizer.OptimizeLocations(ctx, scenes, req.LocationConstraints)
	if err != nil {
		c.setState(StateFailed)
		return model.ScheduleResult{}, err
	}
	stageDuration.WithLabelValues(string(oracle.StageLocation)).Observe(time.Since(stageBegan).Seconds())
	c.publishStageOutcome(string(oracle.StageLocation), plan.IsFallback)

	c.setState(StateAllocatingCrew)
	c.publish(events.StageEvent{Stage: string(oracle.StageCrew), Action: "start"})
	stageBegan = timeNow()
	alloc, err := c.allocator.AllocateCrew(ctx, scenes, crew, req.EquipmentInventory)
	if err != nil {
		c.setState(StateFailed)
		return model.ScheduleResult{}, err
	}
	stageDuration.WithLabelValues(string(oracle.StageCrew)).Observe(time.Since(stageBegan).Seconds())
	c.publishStageOutcome(string(oracle.StageCrew), alloc.IsFallback)

	c.setState(StateGeneratingSchedule)
	c.publish(events.StageEvent{Stage: string(oracle.StageSchedule), Action: "start"})
	stageBegan = timeNow()
	sched, err := c.generator.GenerateSchedule(ctx, scenes, alloc, plan, startDate, req.ScheduleConstraints)
	if err != nil {
		c.setState(StateFailed)
		return model.ScheduleResult{}, err
	}
	stageDuration.WithLabelValues(string(oracle.StageSchedule)).Observe(time.Since(stageBegan).Seconds())
	c.publishStageOutcome(string(oracle.StageSchedule), sched.IsFallback)

	c.setState(StateValidatingOutput)
	result := model.ScheduleResult{
		RunID:          uuid.NewString(),
		StartDate:      startDate,
		LocationPlan:   plan,
		CrewAllocation: alloc,
		Schedule:       sched,
		Timestamp:      timeNow(),
	}
	postValidate(&result)
	schedulesGenerated.Inc()

	if c.store != nil {
		if path, serr := c.store.SaveResult(ctx, result); serr != nil {
			persistenceFailures.Inc()
			c.log.Errorf("persist schedule: %v", serr)
		} else {
			result.SavedTo = path
			c.log.Infof("schedule saved to %s", path)
		}
	}
	if c.notifier != nil {
		if nerr := c.notifier.PublishResult(ctx, result); nerr != nil {
			c.log.Errorf("notify schedule: %v", nerr)
		}
	}
	c.recordRun(result, len(scenes), timeNow().Sub(began))
	c.publish(events.RunEvent{
		RunID:     result.RunID,
		StartDate: startDate,
		TotalDays: result.Schedule.TotalDays,
		Fallbacks: fallbackStages(result),
	})
	c.setState(StatePersisted)
	return result, nil
}

func (c *Coordinator) publishStageOutcome(stage string, fallback bool) {
	action := "completed"
	if fallback {
		action = "fallback"
	}
	c.publish(events.StageEvent{Stage: stage, Action: action})
}

func (c *Coordinator) recordRun(res model.ScheduleResult, scenes int, dur time.Duration) {
	if c.sink == nil {
		return
	}
	run := coremetrics.ScheduleRun{
		RunID:              res.RunID,
		Scenes:             scenes,
		Locations:          len(res.LocationPlan.Locations),
		TotalDays:          res.Schedule.TotalDays,
		CompanyMovesPerDay: res.Schedule.Metrics.CompanyMovesPerDay,
		PagesPerDay:        res.Schedule.Metrics.AveragePagesPerDay,
		UnionViolations:    len(res.CrewAllocation.UnionRuleViolations),
		LocationFallback:   res.LocationPlan.IsFallback,
		CrewFallback:       res.CrewAllocation.IsFallback,
		ScheduleFallback:   res.Schedule.IsFallback,
		Duration:           dur,
		Time:               timeNow(),
	}
	if err := c.sink.RecordScheduleRun(run); err != nil {
		c.log.Errorf("metrics error: %v", err)
	}
}

// postValidate fills structural gaps in the aggregate so downstream consumers
// never deal with nil sub-objects.
func postValidate(res *model.ScheduleResult) {
	if res.Schedule.Days == nil {
		res.Schedule.Days = []model.ShootingDay{}
	}
	if res.Schedule.TotalDays == 0 {
		res.Schedule.TotalDays = len(res.Schedule.Days)
	}
	for i := range res.Schedule.Days {
		if res.Schedule.Days[i].Scenes == nil {
			res.Schedule.Days[i].Scenes = []model.ScheduledScene{}
		}
	}
	if res.LocationPlan.Locations == nil {
		res.LocationPlan.Locations = []model.Location{}
	}
	if res.LocationPlan.ShootingSequence == nil {
		res.LocationPlan.ShootingSequence = []string{}
	}
	if res.CrewAllocation.CrewAssignments == nil {
		res.CrewAllocation.CrewAssignments = []model.CrewAssignment{}
	}
	if res.CrewAllocation.EquipmentAssignments == nil {
		res.CrewAllocation.EquipmentAssignments = []model.EquipmentAssignment{}
	}
}

func fallbackStages(res model.ScheduleResult) []string {
	var stages []string
	if res.LocationPlan.IsFallback {
		stages = append(stages, string(oracle.StageLocation))
	}
	if res.CrewAllocation.IsFallback {
		stages = append(stages, string(oracle.StageCrew))
	}
	if res.Schedule.IsFallback {
		stages = append(stages, string(oracle.StageSchedule))
	}
	return stages
}
