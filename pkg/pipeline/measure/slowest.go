package measure

import (
	"sort"
	"time"
)

// Flow is the average duration of a step and its capacity, how much faster it is than the slowest step.
type Flow struct {
	Step     string
	Average  time.Duration
	Capacity time.Duration
}

// Slowest returns up to n measured steps, stages and pipes alike, slowest first. Ties keep name order.
// A non positive n returns every step.
func Slowest(m Measure, n int) []Flow {
	var flows []Flow
	var maxAvg time.Duration
	for name, mt := range m.AllMetrics() {
		if mt.Count() == 0 {
			continue
		}
		avg := mt.AVGDuration()
		flows = append(flows, Flow{Step: name, Average: avg})
		maxAvg = max(maxAvg, avg)
	}
	for i := range flows {
		flows[i].Capacity = maxAvg - flows[i].Average
	}

	sort.Slice(flows, func(i, j int) bool {
		if flows[i].Capacity != flows[j].Capacity {
			return flows[i].Capacity < flows[j].Capacity
		}
		return flows[i].Step < flows[j].Step
	})
	if n > 0 && len(flows) > n {
		flows = flows[:n]
	}

	return flows
}
