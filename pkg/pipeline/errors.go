package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet  = errors.New("pipeline must be set")
	ErrFactoryMustBeSet   = errors.New("pipe factory must be set")
	ErrStageMustBeSet     = errors.New("stage must be set")
	ErrEstimatorMustBeSet = errors.New("estimator must be set")
	ErrPreparationMissing = errors.New("stage needs an earlier preparation stage")
	ErrDuplicateStage     = errors.New("stage is defined more than once")
	ErrStageOrder         = errors.New("stages must run in preparation, modelling, evaluation, prediction order")
	ErrRunnerType         = errors.New("runner type does not match the stage")
)

// UnknownStageError is returned when a stage nickname is not one of the four known stages.
type UnknownStageError struct {
	Nickname string
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("don't recognize pipeline nickname: %q", e.Nickname)
}

// MissingContextKeyError is returned when a pipe reads a payload key no earlier pipe has written.
// Got is set when the key exists but holds a value of another type.
type MissingContextKeyError struct {
	Key  string
	Want string
	Got  string
}

func (e *MissingContextKeyError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("payload key %q holds %s, not %s", e.Key, e.Got, e.Want)
	}
	return fmt.Sprintf("payload key %q is not set", e.Key)
}
