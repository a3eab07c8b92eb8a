package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/stripboard/core/metrics"
)

// PromSink records schedule runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	days       prometheus.Gauge
	violations prometheus.Gauge
}

// NewPromSink registers scheduling run metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total number of scheduling runs",
	}, []string{"degraded"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Wall time of a full scheduling run",
		Buckets: prometheus.DefBuckets,
	})
	days := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_total_days",
		Help: "Shooting days in the most recent schedule",
	})
	violations := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_union_violations",
		Help: "Union rule violations flagged in the most recent schedule",
	})

	for _, c := range []prometheus.Collector{runs, duration, days, violations} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{runs: runs, duration: duration, days: days, violations: violations}, nil
}

// RecordScheduleRun updates the collectors for one run.
func (s *PromSink) RecordScheduleRun(run coremetrics.ScheduleRun) error {
	degraded := run.LocationFallback || run.CrewFallback || run.ScheduleFallback
	s.runs.WithLabelValues(strconv.FormatBool(degraded)).Inc()
	s.duration.Observe(run.Duration.Seconds())
	s.days.Set(float64(run.TotalDays))
	s.violations.Set(float64(run.UnionViolations))
	return nil
}
