package sched

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	stageDuration       *prometheus.HistogramVec
	stageFallbacks      *prometheus.CounterVec
	schedulesGenerated  prometheus.Counter
	unionViolations     prometheus.Counter
	persistenceFailures prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter, prometheus.Counter) {
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduling_stage_duration_seconds",
			Help:    "Duration of each scheduling pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	fb := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduling_stage_fallbacks_total",
			Help: "Number of stages that degraded to their fallback plan",
		},
		[]string{"stage"},
	)
	gen := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedules_generated_total",
			Help: "Number of schedule results produced",
		},
	)
	uv := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "union_rule_violations_total",
			Help: "Number of union rule violations flagged",
		},
	)
	pf := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_persistence_failures_total",
			Help: "Number of schedule results that could not be persisted",
		},
	)
	return dur, fb, gen, uv, pf
}

func init() {
	stageDuration, stageFallbacks, schedulesGenerated, unionViolations, persistenceFailures = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduling metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(stageDuration, stageFallbacks, schedulesGenerated, unionViolations, persistenceFailures)
}

// ResetMetrics reinitializes collectors for testing purposes and registers
// them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	stageDuration, stageFallbacks, schedulesGenerated, unionViolations, persistenceFailures = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
