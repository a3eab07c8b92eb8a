package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/stripboard/core/model"
)

func sampleResult(stamp time.Time) model.ScheduleResult {
	return model.ScheduleResult{
		RunID:     "run-1",
		StartDate: "2024-03-01",
		Schedule: model.Schedule{
			Days: []model.ShootingDay{{
				Date:      "2024-03-01",
				DayNumber: 1,
				Scenes: []model.ScheduledScene{{
					SceneID: "1", StartTime: "08:00", EndTime: "10:00",
				}},
			}},
			TotalDays: 1,
		},
		Timestamp: stamp,
	}
}

func TestSaveAndLoadResult(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	res := sampleResult(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	path, err := s.SaveResult(context.Background(), res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "schedule_20240301_093000.json" {
		t.Fatalf("unexpected file name: %s", path)
	}
	loaded, err := s.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != res.RunID || loaded.Schedule.TotalDays != 1 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSaveResultViews(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir, SaveViews: true}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	stamp := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	if _, err := s.SaveResult(context.Background(), sampleResult(stamp)); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, p := range []string{
		filepath.Join(dir, "schedules", "calendar", "calendar_20240301_093000.json"),
		filepath.Join(dir, "schedules", "gantt", "gantt_20240301_093000.json"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected view file %s: %v", p, err)
		}
	}
}

func TestListResults(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for i, stamp := range []time.Time{
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	} {
		if _, err := s.SaveResult(context.Background(), sampleResult(stamp)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	paths, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 results, got %v", paths)
	}
	if filepath.Base(paths[0]) > filepath.Base(paths[1]) {
		t.Fatalf("results not sorted: %v", paths)
	}
}

func TestSaveResultCancelledContext(t *testing.T) {
	s, err := New(Config{Dir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SaveResult(ctx, sampleResult(time.Now())); err == nil {
		t.Fatalf("expected context error")
	}
}
