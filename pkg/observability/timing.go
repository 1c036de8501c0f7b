package observability

import "time"

// Timer measures one operation and reports it when stopped.
type Timer struct {
	metrics Metrics
	start   time.Time
	tags    []Tag
}

// StartTimer starts timing operation. The operation name becomes the
// "operation" tag of every series the timer records.
func StartTimer(metrics Metrics, operation string, tags ...Tag) *Timer {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Timer{
		metrics: metrics,
		start:   time.Now(),
		tags:    append(append([]Tag(nil), tags...), T(OperationKey, operation)),
	}
}

// Stop records the duration and the total, plus an error when err is non-nil,
// and returns the elapsed time.
func (t *Timer) Stop(err error) time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.Timing(MetricOperationDuration, elapsed, t.tags...)
	t.metrics.Counter(MetricOperationTotal, 1, t.tags...)
	if err != nil {
		t.metrics.Counter(MetricOperationErrors, 1, t.tags...)
	}
	return elapsed
}
