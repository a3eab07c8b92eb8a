package sched

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines the scheduling parameters. Thresholds mirror common union
// agreements but are plain configuration, not hardcoded business law.
type Config struct {
	// MaxWorkHours is the maximum daily work for a crew member before a
	// violation is flagged.
	MaxWorkHours float64 `json:"max_work_hours" yaml:"max_work_hours"`
	// MinTurnaroundHours is the minimum rest between shooting days.
	MinTurnaroundHours float64 `json:"min_turnaround_hours" yaml:"min_turnaround_hours"`
	// MaxMealIntervalHours is the longest stretch without a meal break.
	MaxMealIntervalHours float64 `json:"max_meal_interval_hours" yaml:"max_meal_interval_hours"`
	// MealBreakMinutes is the mandated meal break duration.
	MealBreakMinutes int `json:"meal_break_minutes" yaml:"meal_break_minutes"`
	// MaxCompanyMovesPerDay caps relocations within one shooting day.
	MaxCompanyMovesPerDay int `json:"max_company_moves_per_day" yaml:"max_company_moves_per_day"`
	// FallbackScenesPerDay is the conservative packing used by the
	// schedule fallback.
	FallbackScenesPerDay int `json:"fallback_scenes_per_day" yaml:"fallback_scenes_per_day"`
	// OracleTimeoutSeconds bounds each oracle call. A timeout is treated
	// like an unparseable proposal.
	OracleTimeoutSeconds int `json:"oracle_timeout_seconds" yaml:"oracle_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxWorkHours == 0 {
		c.MaxWorkHours = 12
	}
	if c.MinTurnaroundHours == 0 {
		c.MinTurnaroundHours = 10
	}
	if c.MaxMealIntervalHours == 0 {
		c.MaxMealIntervalHours = 6
	}
	if c.MealBreakMinutes == 0 {
		c.MealBreakMinutes = 60
	}
	if c.MaxCompanyMovesPerDay == 0 {
		c.MaxCompanyMovesPerDay = 2
	}
	if c.FallbackScenesPerDay == 0 {
		c.FallbackScenesPerDay = 3
	}
	if c.OracleTimeoutSeconds == 0 {
		c.OracleTimeoutSeconds = 30
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxWorkHours < 0 || c.MinTurnaroundHours < 0 || c.MaxMealIntervalHours < 0 {
		return fmt.Errorf("sched: negative hour threshold")
	}
	if c.FallbackScenesPerDay < 0 || c.MaxCompanyMovesPerDay < 0 {
		return fmt.Errorf("sched: negative day budget")
	}
	return nil
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
