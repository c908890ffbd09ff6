package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/pipeline/model"
)

// System runs the stages of a run in order and hands the preparation payload over to the others.
type System struct {
	stages []Stage
	opts   options
}

// NewSystem validates stages and attaches the system options to the pipelines they wrap.
func NewSystem(stages []Stage, opts ...Option) (*System, error) {
	err := validate(stages)
	if err != nil {
		return nil, err
	}
	sys := &System{
		stages: append([]Stage(nil), stages...),
		opts:   newOptions(opts...),
	}
	for _, st := range sys.stages {
		if pipe := stagePipeline(st); pipe != nil {
			pipe.adopt(string(st.Kind()), sys.opts)
		}
	}

	for _, opt := range sys.opts.hooks {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
		err = sys.prepare(opt)
		if err != nil {
			return nil, err
		}
	}

	return sys, nil
}

// Stages returns the stages in run order.
func (s *System) Stages() []Stage {
	return append([]Stage(nil), s.stages...)
}

func (s *System) prepare(opt model.PipelineOption) error {
	parent := model.StartStep
	for _, st := range s.stages {
		info := stageInfo(st)
		err := opt.PrepareStep(parent, info)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare stage %s", info.Name)
		}
		if pipe := stagePipeline(st); pipe != nil {
			pipeParent := info
			for _, pipeInfo := range pipe.stepInfos() {
				err := opt.PrepareStep(pipeParent, pipeInfo)
				if err != nil {
					return errors.Wrapf(err, "unable to prepare pipe %s", pipeInfo.Name)
				}
				pipeParent = pipeInfo
			}
		}
		parent = info
	}
	err := opt.PrepareStep(parent, model.EndStep)
	if err != nil {
		return errors.Wrap(err, "unable to prepare end step")
	}

	return nil
}

// Run validates the stages again, then runs them in order. The first error aborts the run.
func (s *System) Run(ctx context.Context) error {
	err := validate(s.stages)
	if err != nil {
		return err
	}

	var prep *Pipeline
	for _, st := range s.stages {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "system interrupted")
		}
		s.opts.logger.Info("running pipeline", zap.String("stage", string(st.Kind())))

		start := time.Now()
		switch stage := st.(type) {
		case *PreparationStage:
			err = stage.Pipeline.Run(ctx)
			prep = stage.Pipeline
		case *ModellingStage:
			err = fit(prep.Payload(), stage.Estimator)
		case *EvaluationStage:
			stage.Pipeline.Rebind(prep.Payload())
			err = stage.Pipeline.Run(ctx)
		case *PredictionStage:
			if prep != nil && Has(prep.Payload(), ModelKey) {
				trained, _ := Get(prep.Payload(), ModelKey)
				Set(stage.Pipeline.Payload(), ModelKey, trained)
			}
			err = stage.Pipeline.Run(ctx)
		default:
			err = &UnknownStageError{Nickname: string(st.Kind())}
		}
		if err != nil {
			return errors.Wrapf(err, "%s pipeline", st.Kind())
		}
		elapsed := time.Since(start)

		for _, opt := range s.opts.hooks {
			err := opt.OnStepOutput(stageInfo(st), elapsed)
			if err != nil {
				return errors.Wrap(err, "unable to run on step output function")
			}
		}
	}

	return s.finishRun()
}

func (s *System) finishRun() error {
	for _, opt := range s.opts.hooks {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

func fit(payload *Payload, est Estimator) error {
	split, err := Get(payload, TrainTestKey)
	if err != nil {
		return err
	}
	err = est.Fit(split.TrainX, split.TrainY)
	if err != nil {
		return errors.Wrap(err, "unable to fit model")
	}
	Set(payload, ModelKey, est)

	return nil
}

// validate checks the stage list without running anything. Stages must follow the order of Kinds,
// any of them may be left out.
func validate(stages []Stage) error {
	seen := make(map[Kind]struct{}, len(stages))
	prepared := false
	last := -1
	for i, st := range stages {
		if st == nil {
			return errors.Wrapf(ErrStageMustBeSet, "stage %d", i)
		}
		switch stage := st.(type) {
		case *PreparationStage:
			if stage == nil {
				return errors.Wrapf(ErrStageMustBeSet, "stage %d (%s)", i, KindPreparation)
			}
			if stage.Pipeline == nil {
				return errors.Wrapf(ErrPipelineMustBeSet, "stage %d (%s)", i, st.Kind())
			}
			prepared = true
		case *ModellingStage:
			if stage == nil {
				return errors.Wrapf(ErrStageMustBeSet, "stage %d (%s)", i, KindModelling)
			}
			if stage.Estimator == nil {
				return errors.Wrapf(ErrEstimatorMustBeSet, "stage %d (%s)", i, st.Kind())
			}
			if !prepared {
				return errors.Wrapf(ErrPreparationMissing, "stage %d (%s)", i, st.Kind())
			}
		case *EvaluationStage:
			if stage == nil {
				return errors.Wrapf(ErrStageMustBeSet, "stage %d (%s)", i, KindEvaluation)
			}
			if stage.Pipeline == nil {
				return errors.Wrapf(ErrPipelineMustBeSet, "stage %d (%s)", i, st.Kind())
			}
			if !prepared {
				return errors.Wrapf(ErrPreparationMissing, "stage %d (%s)", i, st.Kind())
			}
		case *PredictionStage:
			if stage == nil {
				return errors.Wrapf(ErrStageMustBeSet, "stage %d (%s)", i, KindPrediction)
			}
			if stage.Pipeline == nil {
				return errors.Wrapf(ErrPipelineMustBeSet, "stage %d (%s)", i, st.Kind())
			}
		default:
			return &UnknownStageError{Nickname: string(st.Kind())}
		}
		if _, ok := seen[st.Kind()]; ok {
			return errors.Wrapf(ErrDuplicateStage, "stage %d (%s)", i, st.Kind())
		}
		seen[st.Kind()] = struct{}{}

		pos := slices.Index(Kinds(), st.Kind())
		if pos < last {
			return errors.Wrapf(ErrStageOrder, "stage %d (%s) after %s", i, st.Kind(), Kinds()[last])
		}
		last = pos
	}

	return nil
}

func stagePipeline(st Stage) *Pipeline {
	switch stage := st.(type) {
	case *PreparationStage:
		return stage.Pipeline
	case *EvaluationStage:
		return stage.Pipeline
	case *PredictionStage:
		return stage.Pipeline
	default:
		return nil
	}
}

func stageInfo(st Stage) *model.StepInfo {
	return &model.StepInfo{
		Type:     model.StageStepType,
		Name:     string(st.Kind()),
		Nickname: string(st.Kind()),
	}
}
