package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/hatstall/pkg/pipeline/model"
)

// ErrUnknownStep is returned when a step reports an output without having been prepared.
var ErrUnknownStep = errors.New("step was not prepared")

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStep.Name, "")
	pm.AddMetric(model.EndStep.Name, "")

	return nil
}

func (pm *pipelineMeasure) PrepareStep(parentStep, step *model.StepInfo) error {
	if step == model.EndStep {
		return nil
	}
	pm.AddMetric(step.Name, parentStep.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepOutput(step *model.StepInfo, computationDuration time.Duration) error {
	mt := pm.GetMetric(step.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStep, step.Name)
	}
	mt.AddDuration(computationDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.GetMetric(model.EndStep.Name).SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure returns a hook recording the duration of every stage and pipe into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
