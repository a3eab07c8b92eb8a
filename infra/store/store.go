// Package store persists schedule results as JSON documents on disk, one
// file per run, with optional calendar and gantt sub-views for the UI layer.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	corelogger "github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
)

// Config defines where schedule artifacts are written.
type Config struct {
	// Dir is the data root. Results land in Dir/schedules.
	Dir string `json:"dir"`
	// SaveViews also writes calendar and gantt sub-view documents.
	SaveViews bool `json:"save_views"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
}

// Store writes schedule results under a data directory.
type Store struct {
	cfg Config
	log corelogger.Logger
	mu  sync.Mutex
}

// New creates the store and ensures its directories exist.
func New(cfg Config, log corelogger.Logger) (*Store, error) {
	cfg.SetDefaults()
	if log == nil {
		log = corelogger.Nop{}
	}
	dirs := []string{filepath.Join(cfg.Dir, "schedules")}
	if cfg.SaveViews {
		dirs = append(dirs,
			filepath.Join(cfg.Dir, "schedules", "calendar"),
			filepath.Join(cfg.Dir, "schedules", "gantt"))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", d, err)
		}
	}
	return &Store{cfg: cfg, log: log}, nil
}

// SaveResult writes the full result document and returns its path. Sub-view
// write failures are logged, not returned: the main document is the artifact
// of record.
func (s *Store) SaveResult(ctx context.Context, res model.ScheduleResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp := res.Timestamp.Format("20060102_150405")
	path := filepath.Join(s.cfg.Dir, "schedules", fmt.Sprintf("schedule_%s.json", stamp))
	if err := writeJSON(path, res); err != nil {
		return "", err
	}
	if s.cfg.SaveViews {
		cal := filepath.Join(s.cfg.Dir, "schedules", "calendar", fmt.Sprintf("calendar_%s.json", stamp))
		if err := writeJSON(cal, calendarView(res)); err != nil {
			s.log.Errorf("save calendar view: %v", err)
		}
		gantt := filepath.Join(s.cfg.Dir, "schedules", "gantt", fmt.Sprintf("gantt_%s.json", stamp))
		if err := writeJSON(gantt, ganttView(res)); err != nil {
			s.log.Errorf("save gantt view: %v", err)
		}
	}
	return path, nil
}

// List returns the saved result paths, newest last.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.cfg.Dir, "schedules"))
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "schedule_") {
			continue
		}
		paths = append(paths, filepath.Join(s.cfg.Dir, "schedules", e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads a previously saved result.
func (s *Store) Load(ctx context.Context, path string) (model.ScheduleResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ScheduleResult{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return model.ScheduleResult{}, err
	}
	var res model.ScheduleResult
	if err := json.Unmarshal(b, &res); err != nil {
		return model.ScheduleResult{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return res, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// calendarView maps dates onto their scene and location lists, the shape the
// calendar renderer consumes.
func calendarView(res model.ScheduleResult) map[string]any {
	days := make([]map[string]any, 0, len(res.Schedule.Days))
	for _, d := range res.Schedule.Days {
		sceneIDs := make([]string, 0, len(d.Scenes))
		locations := make([]string, 0, len(d.Scenes))
		for _, sc := range d.Scenes {
			sceneIDs = append(sceneIDs, sc.SceneID)
			if sc.Location != "" {
				locations = append(locations, sc.Location)
			}
		}
		days = append(days, map[string]any{
			"date":       d.Date,
			"day_number": d.DayNumber,
			"scenes":     sceneIDs,
			"locations":  locations,
			"day_start":  d.DayStart,
			"day_wrap":   d.DayWrap,
		})
	}
	return map[string]any{"run_id": res.RunID, "days": days}
}

// ganttView flattens the schedule into one bar per scheduled scene.
func ganttView(res model.ScheduleResult) map[string]any {
	var bars []map[string]any
	for _, d := range res.Schedule.Days {
		for _, sc := range d.Scenes {
			bars = append(bars, map[string]any{
				"scene_id": sc.SceneID,
				"date":     d.Date,
				"start":    sc.StartTime,
				"end":      sc.EndTime,
				"location": sc.Location,
			})
		}
	}
	return map[string]any{"run_id": res.RunID, "bars": bars}
}
