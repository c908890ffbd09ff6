package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
	"github.com/askiada/hatstall/pkg/pipeline/model"
)

var traceKey = pipeline.NewKey[[]string]("trace")

// tracePipe appends its nickname to the trace key of its payload.
type tracePipe struct {
	pipeline.Base
	err error
}

func (p *tracePipe) Name() string { return "TracePipe" }

func (p *tracePipe) Run(_ context.Context) error {
	if p.err != nil {
		return p.err
	}
	trace, _ := pipeline.Get(p.Payload, traceKey)
	pipeline.Set(p.Payload, traceKey, append(trace, p.Nickname))
	return nil
}

func trace(err error) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &tracePipe{Base: pipeline.Base{Payload: payload, Nickname: nickname}, err: err}
	}
}

// funcPipe runs fn against its payload.
type funcPipe struct {
	pipeline.Base
	fn func(p *pipeline.Payload) error
}

func (p *funcPipe) Name() string { return "FuncPipe" }

func (p *funcPipe) Run(_ context.Context) error {
	return p.fn(p.Payload)
}

func withPayload(fn func(p *pipeline.Payload) error) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &funcPipe{Base: pipeline.Base{Payload: payload, Nickname: nickname}, fn: fn}
	}
}

func newPipeline(t *testing.T, defs ...pipeline.Definition) *pipeline.Pipeline {
	t.Helper()
	pipe, err := pipeline.New(defs)
	if err != nil {
		t.Fatalf("unable to create pipeline: %v", err)
	}
	return pipe
}

// fakeEstimator predicts the first label for every record.
type fakeEstimator struct {
	fitX [][]string
	fitY []persona.Label
	err  error
}

func (f *fakeEstimator) Fit(x [][]string, y []persona.Label) error {
	if f.err != nil {
		return f.err
	}
	f.fitX, f.fitY = x, y
	return nil
}

func (f *fakeEstimator) Predict(x [][]string) ([]persona.Label, error) {
	res := make([]persona.Label, len(x))
	for i := range res {
		res[i] = persona.DefaultLabels.First
	}
	return res, nil
}

func (f *fakeEstimator) Score(x [][]string, y []persona.Label) (float64, error) {
	pred, _ := f.Predict(x)
	ok := 0
	for i := range pred {
		if pred[i] == y[i] {
			ok++
		}
	}
	return float64(ok) / float64(len(y)), nil
}

// recordingHook records every hook call.
type recordingHook struct {
	mu       sync.Mutex
	links    [][2]string
	outputs  []string
	started  bool
	finished bool
}

func (h *recordingHook) New() error {
	h.started = true
	return nil
}

func (h *recordingHook) PrepareStep(parentStep, step *model.StepInfo) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.links = append(h.links, [2]string{parentStep.Name, step.Name})
	return nil
}

func (h *recordingHook) OnStepOutput(step *model.StepInfo, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outputs = append(h.outputs, step.Name)
	return nil
}

func (h *recordingHook) Finish() error {
	h.finished = true
	return nil
}
