package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/hatstall/pkg/pipeline/measure"
	"github.com/askiada/hatstall/pkg/pipeline/model"
)

var shapes = map[model.StepType]string{
	model.BoundaryStepType: "circle",
	model.StageStepType:    "box",
	model.PipeStepType:     "ellipse",
}

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	pd.startTime = time.Now()
	err := pd.AddStep(model.StartStep.Name, map[string]string{"shape": shapes[model.BoundaryStepType]})
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}
	err = pd.AddStep(model.EndStep.Name, map[string]string{"shape": shapes[model.BoundaryStepType]})
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	if step != model.EndStep {
		err := pd.AddStep(step.Name, map[string]string{"shape": shapes[step.Type]})
		if err != nil {
			return err
		}
	}

	return pd.AddLink(parentStep.Name, step.Name)
}

func (pd *pipelineDrawer) OnStepOutput(*model.StepInfo, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}
	err := pd.SetTotalTime(model.EndStep.Name, time.Since(pd.startTime))
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns a hook drawing the system once it has run. measure may be nil.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
