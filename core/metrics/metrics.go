// Package metrics defines the run-level observability contract for the
// scheduling pipeline. Concrete sinks live under infra/metrics.
package metrics

import "time"

// ScheduleRun captures one scheduling run for observability purposes.
type ScheduleRun struct {
	RunID              string
	Scenes             int
	Locations          int
	TotalDays          int
	CompanyMovesPerDay float64
	PagesPerDay        float64
	UnionViolations    int
	LocationFallback   bool
	CrewFallback       bool
	ScheduleFallback   bool
	Duration           time.Duration
	Time               time.Time
}

// MetricsSink records schedule runs.
type MetricsSink interface {
	RecordScheduleRun(run ScheduleRun) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordScheduleRun(ScheduleRun) error { return nil }

// Config holds the observability settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
