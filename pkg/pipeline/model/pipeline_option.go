package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs once per step while the system is built. parentStep is StartStep for the first stage.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepOutput runs every time a step has finished.
	OnStepOutput(step *StepInfo, computationDuration time.Duration) error
	// Finish runs after the pipeline is finished.
	Finish() error
}
