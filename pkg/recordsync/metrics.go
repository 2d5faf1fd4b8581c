package recordsync

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type DefaultNoopMetric struct{}

func NewDefaultNoopMetric() *DefaultNoopMetric {
	return &DefaultNoopMetric{}
}

func (*DefaultNoopMetric) Timer(storage, entity string) MetricTimerInterface {
	return &DefaultNoopMetricTimer{}
}

func (*DefaultNoopMetric) StatCount(storage, entity string) MetricStatCountInterface {
	return &DefaultNoopMetricCount{}
}

func (*DefaultNoopMetric) ErrorCount(storage, entity string) MetricStatCountInterface {
	return &DefaultNoopMetricCount{}
}

type DefaultNoopMetricTimer struct{}

func (*DefaultNoopMetricTimer) Timing(ctx context.Context, name string) {}
func (*DefaultNoopMetricTimer) Finish(ctx context.Context, name string) {}

type DefaultNoopMetricCount struct{}

func (*DefaultNoopMetricCount) Inc(ctx context.Context, name string, val float64) {}

// CounterMetric накапливает счётчики и длительности в памяти.
// Используется утилитой командной строки для итоговой сводки
type CounterMetric struct {
	mu       sync.Mutex
	counters map[string]float64
	timings  map[string]time.Duration
}

func NewCounterMetric() *CounterMetric {
	return &CounterMetric{
		counters: map[string]float64{},
		timings:  map[string]time.Duration{},
	}
}

func metricKey(parts ...string) string {
	return strings.Join(parts, ".")
}

func (m *CounterMetric) StatCount(storage, entity string) MetricStatCountInterface {
	return &counterMetricCount{m: m, prefix: metricKey("stat", storage, entity)}
}

func (m *CounterMetric) ErrorCount(storage, entity string) MetricStatCountInterface {
	return &counterMetricCount{m: m, prefix: metricKey("error", storage, entity)}
}

func (m *CounterMetric) Timer(storage, entity string) MetricTimerInterface {
	return &counterMetricTimer{m: m, prefix: metricKey("timer", storage, entity), started: map[string]time.Time{}}
}

// Counter возвращает значение счётчика, например "stat.precedence.update.pair"
func (m *CounterMetric) Counter(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counters[key]
}

// Keys возвращает отсортированный список ненулевых счётчиков
func (m *CounterMetric) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.counters))
	for k := range m.counters {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func (m *CounterMetric) Timing(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.timings[key]
}

type counterMetricCount struct {
	m      *CounterMetric
	prefix string
}

func (c *counterMetricCount) Inc(ctx context.Context, name string, val float64) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	c.m.counters[metricKey(c.prefix, name)] += val
}

type counterMetricTimer struct {
	m       *CounterMetric
	prefix  string
	mu      sync.Mutex
	started map[string]time.Time
}

func (t *counterMetricTimer) Timing(ctx context.Context, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.started[name] = time.Now()
}

func (t *counterMetricTimer) Finish(ctx context.Context, name string) {
	t.mu.Lock()
	start, ok := t.started[name]
	delete(t.started, name)
	t.mu.Unlock()

	if !ok {
		return
	}

	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	t.m.timings[metricKey(t.prefix, name)] += time.Since(start)
}
