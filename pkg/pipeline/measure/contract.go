package measure

import "time"

// Measure holds one Metric per step name.
type Measure interface {
	AddMetric(name, parent string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations of one step.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Count() int64
	Parent() string
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
