package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metric names recorded by Lumina.
const (
	MetricOperationTotal    = "lumina.operation.total"
	MetricOperationDuration = "lumina.operation.duration"
	MetricOperationErrors   = "lumina.operation.errors"

	MetricCacheHits   = "lumina.cache.hits"
	MetricCacheMisses = "lumina.cache.misses"

	MetricOutboxPublished   = "lumina.outbox.published"
	MetricOutboxFailed      = "lumina.outbox.failed"
	MetricOutboxDeadLetters = "lumina.outbox.dead_letters"
	MetricOutboxLag         = "lumina.outbox.lag_seconds"
)

// Metrics records counters, gauges and timings. Tags label a series and
// their order does not matter.
type Metrics interface {
	Counter(name string, delta int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, d time.Duration, tags ...Tag)
}

// Tag is one label of a metric series.
type Tag struct {
	Key   string
	Value string
}

// T creates a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps every series in process. It backs the container and
// the worker's /healthz, and lets tests read values back.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

type series struct {
	count   int64
	gauge   float64
	timings []time.Duration
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) Counter(name string, delta int64, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.count += delta })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.gauge = value })
}

func (m *InMemoryMetrics) Timing(name string, d time.Duration, tags ...Tag) {
	m.update(name, tags, func(s *series) { s.timings = append(s.timings, d) })
}

// GetCounter returns the counter value of a series.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	if s, ok := m.lookup(name, tags); ok {
		return s.count
	}
	return 0
}

// GetGauge returns the last gauge value of a series.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	if s, ok := m.lookup(name, tags); ok {
		return s.gauge
	}
	return 0
}

// GetTimings returns a copy of the durations recorded for a series.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	if s, ok := m.lookup(name, tags); ok {
		return slices.Clone(s.timings)
	}
	return nil
}

// Counters returns every counter keyed by its series, e.g.
// lumina.outbox.published{routing_key=album.created}.
func (m *InMemoryMetrics) Counters() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64)
	for key, s := range m.series {
		if s.count != 0 {
			out[key] = s.count
		}
	}
	return out
}

func (m *InMemoryMetrics) update(name string, tags []Tag, fn func(*series)) {
	key := seriesKey(name, tags)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	fn(s)
}

func (m *InMemoryMetrics) lookup(name string, tags []Tag) (series, bool) {
	key := seriesKey(name, tags)
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[key]
	if !ok {
		return series{}, false
	}
	return *s, true
}

func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}
