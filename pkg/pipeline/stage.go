package pipeline

import "github.com/pkg/errors"

// Kind is the nickname of a stage.
type Kind string

const (
	KindPreparation Kind = "preparation"
	KindModelling   Kind = "modelling"
	KindEvaluation  Kind = "evaluation"
	KindPrediction  Kind = "prediction"
)

// Kinds returns the known stages in run order.
func Kinds() []Kind {
	return []Kind{KindPreparation, KindModelling, KindEvaluation, KindPrediction}
}

// Stage is one of PreparationStage, ModellingStage, EvaluationStage or PredictionStage.
type Stage interface {
	Kind() Kind
	isStage()
}

// PreparationStage loads and prepares the data. Its payload is shared with the following stages.
type PreparationStage struct {
	Pipeline *Pipeline
}

// ModellingStage fits Estimator on the train split of the preparation payload.
type ModellingStage struct {
	Estimator Estimator
}

// EvaluationStage runs Pipeline against the preparation payload.
type EvaluationStage struct {
	Pipeline *Pipeline
}

// PredictionStage runs Pipeline on its own payload, with the trained model handed over.
type PredictionStage struct {
	Pipeline *Pipeline
}

func Preparation(p *Pipeline) Stage { return &PreparationStage{Pipeline: p} }
func Modelling(e Estimator) Stage   { return &ModellingStage{Estimator: e} }
func Evaluation(p *Pipeline) Stage  { return &EvaluationStage{Pipeline: p} }
func Prediction(p *Pipeline) Stage  { return &PredictionStage{Pipeline: p} }

func (*PreparationStage) Kind() Kind { return KindPreparation }
func (*ModellingStage) Kind() Kind   { return KindModelling }
func (*EvaluationStage) Kind() Kind  { return KindEvaluation }
func (*PredictionStage) Kind() Kind  { return KindPrediction }

func (*PreparationStage) isStage() {}
func (*ModellingStage) isStage()   {}
func (*EvaluationStage) isStage()  {}
func (*PredictionStage) isStage()  {}

// NewStage builds a stage from its nickname. runner is an Estimator for the modelling stage and a *Pipeline
// for the others.
func NewStage(nickname string, runner any) (Stage, error) {
	switch Kind(nickname) {
	case KindModelling:
		est, ok := runner.(Estimator)
		if !ok || est == nil {
			return nil, errors.Wrapf(ErrRunnerType, "%s expects an estimator, got %T", nickname, runner)
		}
		return Modelling(est), nil
	case KindPreparation, KindEvaluation, KindPrediction:
		pipe, ok := runner.(*Pipeline)
		if !ok || pipe == nil {
			return nil, errors.Wrapf(ErrRunnerType, "%s expects a pipeline, got %T", nickname, runner)
		}
		switch Kind(nickname) {
		case KindPreparation:
			return Preparation(pipe), nil
		case KindEvaluation:
			return Evaluation(pipe), nil
		default:
			return Prediction(pipe), nil
		}
	default:
		return nil, &UnknownStageError{Nickname: nickname}
	}
}
