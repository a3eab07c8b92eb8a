package sched

import (
	"time"

	"github.com/kilianp07/stripboard/core/model"
)

const (
	defaultSceneTime = "00:00"
	defaultCallTime  = "07:00"
)

// NormalizeDates rewrites the calendar placement of a schedule so that day i
// falls on start+(i-1) days with DayNumber i, regardless of the dates the
// planner proposed. Time-of-day fields that do not parse as HH:MM are
// replaced with documented defaults. The operation is idempotent.
func NormalizeDates(sched *model.Schedule, start time.Time) {
	for i := range sched.Days {
		day := &sched.Days[i]
		day.Date = start.AddDate(0, 0, i).Format("2006-01-02")
		day.DayNumber = i + 1
		for j := range day.Scenes {
			sc := &day.Scenes[j]
			normalizeTime(&sc.StartTime)
			normalizeTime(&sc.EndTime)
			normalizeTime(&sc.SetupTime)
			normalizeTime(&sc.WrapTime)
			for k := range sc.CrewCalls {
				if !validClockTime(sc.CrewCalls[k].CallTime) {
					sc.CrewCalls[k].CallTime = defaultCallTime
				}
			}
		}
	}
}

func normalizeTime(v *string) {
	if *v != "" && !validClockTime(*v) {
		*v = defaultSceneTime
	}
}

func validClockTime(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
