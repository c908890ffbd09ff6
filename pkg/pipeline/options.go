package pipeline

import (
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/pipeline/model"
)

type options struct {
	logger *zap.Logger
	hooks  []model.PipelineOption
	name   string
}

func newOptions(opts ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Pipeline or a System.
type Option func(o *options)

// WithLogger sets the logger progress lines are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHooks registers options notified while steps are built and run.
func WithHooks(hooks ...model.PipelineOption) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithName names a standalone pipeline. A System names its pipelines after their stage.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
