package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/stripboard/core/metrics"
)

func TestPromSinkRecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	run := coremetrics.ScheduleRun{
		RunID:           "run-1",
		TotalDays:       4,
		UnionViolations: 2,
		Duration:        3 * time.Second,
	}
	require.NoError(t, sink.RecordScheduleRun(run))

	assert.Equal(t, float64(4), testutil.ToFloat64(sink.(*PromSink).days))
	assert.Equal(t, float64(2), testutil.ToFloat64(sink.(*PromSink).violations))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.(*PromSink).runs.WithLabelValues("false")))
}

func TestPromSinkDegradedLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordScheduleRun(coremetrics.ScheduleRun{ScheduleFallback: true}))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.(*PromSink).runs.WithLabelValues("true")))
	assert.Equal(t, float64(0), testutil.ToFloat64(sink.(*PromSink).runs.WithLabelValues("false")))
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	assert.NoError(t, err, "re-registration must be tolerated")
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b recordingSink
	multi := NewMultiSink(&a, &b)
	require.NoError(t, multi.RecordScheduleRun(coremetrics.ScheduleRun{RunID: "x"}))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

type recordingSink struct{ calls int }

func (r *recordingSink) RecordScheduleRun(coremetrics.ScheduleRun) error {
	r.calls++
	return nil
}
