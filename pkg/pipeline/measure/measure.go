package measure

import (
	"sync"
)

// DefaultMeasure is an in-memory Measure.
type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for name, replacing any previous one.
func (m *DefaultMeasure) AddMetric(name, parent string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := &DefaultMetric{
		mu:     &sync.Mutex{},
		parent: parent,
	}
	m.Steps[name] = mt

	return mt
}

// GetMetric returns nil when name has no metric.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		res[name] = mt
	}

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
