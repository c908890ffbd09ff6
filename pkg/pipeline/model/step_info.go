package model

type StepType string

const (
	BoundaryStepType StepType = "boundary"
	StageStepType    StepType = "stage"
	PipeStepType     StepType = "pipe"
)

// StepInfo identifies a stage or a pipe of a pipeline system.
// Name is unique in a system; pipes are named after their stage, for example "preparation.loader".
type StepInfo struct {
	Type     StepType
	Name     string
	Nickname string
	Pipe     string
}

var (
	StartStep = &StepInfo{Type: BoundaryStepType, Name: "start"}
	EndStep   = &StepInfo{Type: BoundaryStepType, Name: "end"}
)
