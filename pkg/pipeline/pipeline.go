package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/pipeline/model"
)

// Pipeline is an ordered list of pipes sharing one payload.
type Pipeline struct {
	payload    *Payload
	inputPipes []Definition
	pipes      []Pipe
	opts       options
	// ownHooks are the hooks given to New, kept apart from the ones a System adds.
	ownHooks []model.PipelineOption
}

// New creates a pipeline with a fresh payload and one pipe per definition.
func New(defs []Definition, opts ...Option) (*Pipeline, error) {
	for i, def := range defs {
		if def.New == nil {
			return nil, errors.Wrapf(ErrFactoryMustBeSet, "pipe %d (%s)", i, def.Nickname)
		}
	}
	pipe := &Pipeline{
		payload:    NewPayload(),
		inputPipes: append([]Definition(nil), defs...),
		opts:       newOptions(opts...),
	}
	pipe.ownHooks = pipe.opts.hooks
	pipe.ReinitializePipes()

	return pipe, nil
}

// Payload returns the payload the pipes are currently bound to.
func (p *Pipeline) Payload() *Payload {
	return p.payload
}

// SetPayload replaces the payload. Pipes built before keep the previous one until ReinitializePipes.
func (p *Pipeline) SetPayload(payload *Payload) {
	p.payload = payload
}

// ReinitializePipes discards the current pipes and builds fresh ones bound to the current payload.
func (p *Pipeline) ReinitializePipes() {
	p.pipes = make([]Pipe, len(p.inputPipes))
	for i, def := range p.inputPipes {
		p.pipes[i] = def.New(p.payload, def.Nickname)
	}
}

// Rebind binds the pipeline to payload and rebuilds its pipes.
func (p *Pipeline) Rebind(payload *Payload) {
	p.SetPayload(payload)
	p.ReinitializePipes()
}

// Definitions returns the pipe definitions the pipeline was built from.
func (p *Pipeline) Definitions() []Definition {
	return append([]Definition(nil), p.inputPipes...)
}

// Run runs every pipe in order and stops on the first error.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, pipe := range p.pipes {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "pipeline interrupted")
		}
		info := p.stepInfo(i)
		p.opts.logger.Info("running pipe", zap.String("nickname", info.Nickname), zap.String("pipe", pipe.Name()))

		start := time.Now()
		err := pipe.Run(ctx)
		if err != nil {
			return errors.Wrapf(err, "pipe %s", info.Nickname)
		}
		elapsed := time.Since(start)

		for _, opt := range p.opts.hooks {
			err := opt.OnStepOutput(info, elapsed)
			if err != nil {
				return errors.Wrap(err, "unable to run on step output function")
			}
		}
	}

	return nil
}

// adopt is called by a System: the pipeline takes the stage name and the system options. The hooks of a
// previous System are replaced.
func (p *Pipeline) adopt(name string, sys options) {
	p.opts.name = name
	p.opts.logger = sys.logger.With(zap.String("pipeline", name))
	p.opts.hooks = append(slices.Clip(p.ownHooks), sys.hooks...)
}

func (p *Pipeline) stepInfo(i int) *model.StepInfo {
	def := p.inputPipes[i]
	nickname := def.Nickname
	if nickname == "" {
		nickname = p.pipes[i].Name()
	}
	name := nickname
	if p.opts.name != "" {
		name = p.opts.name + "." + nickname
	}

	return &model.StepInfo{
		Type:     model.PipeStepType,
		Name:     name,
		Nickname: nickname,
		Pipe:     p.pipes[i].Name(),
	}
}

func (p *Pipeline) stepInfos() []*model.StepInfo {
	infos := make([]*model.StepInfo, len(p.pipes))
	for i := range p.pipes {
		infos[i] = p.stepInfo(i)
	}
	return infos
}
