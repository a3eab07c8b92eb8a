package sched

import (
	"fmt"

	"github.com/kilianp07/stripboard/core/model"
)

// checkUnionRules flags crew assignments breaching the configured work rules.
// Violations are attached to the allocation, never enforced: a schedule with
// flagged problems beats no schedule.
func checkUnionRules(cfg Config, alloc *model.CrewAllocation) {
	var violations []model.UnionViolation
	for _, as := range alloc.CrewAssignments {
		member := as.CrewMember
		if member == "" {
			member = "Unknown crew member"
		}
		if as.TurnaroundHours < cfg.MinTurnaroundHours {
			violations = append(violations, model.UnionViolation{
				CrewMember: member,
				Rule:       "min_turnaround",
				Detail: fmt.Sprintf("insufficient turnaround for %s: %.1fh < %.1fh",
					member, as.TurnaroundHours, cfg.MinTurnaroundHours),
			})
		}
		if as.WorkHours > cfg.MaxWorkHours {
			violations = append(violations, model.UnionViolation{
				CrewMember: member,
				Rule:       "max_work_hours",
				Detail: fmt.Sprintf("excessive work hours for %s: %.1fh > %.1fh",
					member, as.WorkHours, cfg.MaxWorkHours),
			})
		}
		if as.MealBreakInterval > cfg.MaxMealIntervalHours {
			violations = append(violations, model.UnionViolation{
				CrewMember: member,
				Rule:       "meal_break",
				Detail: fmt.Sprintf("missing meal break for %s: %.1fh interval > %.1fh",
					member, as.MealBreakInterval, cfg.MaxMealIntervalHours),
			})
		}
	}
	alloc.UnionRuleViolations = violations
}
