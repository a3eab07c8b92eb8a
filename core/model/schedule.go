package model

import "time"

// CrewCall is a call time for one crew member on a scheduled scene.
type CrewCall struct {
	CrewMember string `json:"crew_member"`
	CallTime   string `json:"call_time"`
}

// ScheduledScene places a scene inside a shooting day. All times are local
// clock times in HH:MM form.
type ScheduledScene struct {
	SceneID               string     `json:"scene_id"`
	Location              string     `json:"location,omitempty"`
	StartTime             string     `json:"start_time"`
	EndTime               string     `json:"end_time"`
	SetupTime             string     `json:"setup_time,omitempty"`
	WrapTime              string     `json:"wrap_time,omitempty"`
	CrewCalls             []CrewCall `json:"crew_calls,omitempty"`
	EquipmentRequirements []string   `json:"equipment_requirements,omitempty"`
	Notes                 []string   `json:"notes,omitempty"`
}

// ShootingDay is one calendar day of the schedule. Dates are strictly
// sequential from the validated start date and DayNumber is 1-based.
type ShootingDay struct {
	Date         string           `json:"date"`
	DayNumber    int              `json:"day_number"`
	Scenes       []ScheduledScene `json:"scenes"`
	DayStart     string           `json:"day_start,omitempty"`
	DayWrap      string           `json:"day_wrap,omitempty"`
	TotalPages   float64          `json:"total_pages"`
	CompanyMoves int              `json:"company_moves"`
	Notes        []string         `json:"notes,omitempty"`
}

// EfficiencyMetrics summarises how well the schedule uses each day.
type EfficiencyMetrics struct {
	CompanyMovesPerDay        float64 `json:"company_moves_per_day"`
	AveragePagesPerDay        float64 `json:"average_pages_per_day"`
	LocationOptimizationScore float64 `json:"location_optimization_score"`
}

// Schedule is the output of the schedule generation stage.
type Schedule struct {
	Days          []ShootingDay     `json:"schedule"`
	TotalDays     int               `json:"total_days"`
	ScheduleNotes []string          `json:"schedule_notes,omitempty"`
	Metrics       EfficiencyMetrics `json:"efficiency_metrics"`
	IsFallback    bool              `json:"is_fallback,omitempty"`
}

// ScheduleConstraints tune schedule generation.
type ScheduleConstraints struct {
	MaxHoursPerDay        float64 `json:"max_hours_per_day,omitempty"`
	MealBreakMinutes      int     `json:"meal_break_minutes,omitempty"`
	MaxCompanyMovesPerDay int     `json:"max_company_moves_per_day,omitempty"`
}

// ScheduleResult is the root aggregate returned by the coordinator.
type ScheduleResult struct {
	RunID          string         `json:"run_id"`
	StartDate      string         `json:"start_date"`
	LocationPlan   LocationPlan   `json:"location_plan"`
	CrewAllocation CrewAllocation `json:"crew_allocation"`
	Schedule       Schedule       `json:"schedule"`
	Timestamp      time.Time      `json:"timestamp"`
	SavedTo        string         `json:"saved_to,omitempty"`
}
