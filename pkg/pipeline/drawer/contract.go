package drawer

import (
	"time"

	"github.com/askiada/hatstall/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline system.
type Drawer interface {
	// AddStep adds a step with optional DOT attributes.
	AddStep(stepName string, attributes map[string]string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// Draw writes the graph.
	Draw() error
	// SetTotalTime sets the total time for the step.
	SetTotalTime(stepName string, totalTime time.Duration) error
	// AddMeasure annotates steps and links with measured durations.
	AddMeasure(measure measure.Measure) error
}
