// Package system assembles the personality classifier pipeline system from the configuration.
package system

import (
	"io"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/internal/config"
	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/pipeline"
	"github.com/askiada/hatstall/pkg/pipeline/model"
	"github.com/askiada/hatstall/pkg/pipes"
)

// Mode selects what a run does.
type Mode string

const (
	// ModeTrainTest runs the configured stages.
	ModeTrainTest Mode = "train_test"
	// ModePredict only runs the prediction stage with a previously saved model.
	ModePredict Mode = "predict"
)

var ErrUnknownMode = errors.New("unknown mode")

// ParseMode maps a command line value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTrainTest, ModePredict:
		return Mode(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%q, select from [%s, %s]", s, ModeTrainTest, ModePredict)
	}
}

// Options holds what a System is wired to besides the configuration.
type Options struct {
	Logger *zap.Logger
	// Out receives the evaluation report and the predictions. Defaults to stdout.
	Out io.Writer
	// Results enables the recorder pipes when set.
	Results pipes.ResultsStore
	Hooks   []model.PipelineOption
}

type builder struct {
	cfg  *config.Config
	opts Options
	// loadModel prepends a model loader to the prediction pipeline.
	loadModel bool
}

type runnerBuilder func(b *builder) (any, error)

var runners = map[pipeline.Kind]runnerBuilder{
	pipeline.KindPreparation: (*builder).preparation,
	pipeline.KindModelling:   (*builder).modelling,
	pipeline.KindEvaluation:  (*builder).evaluation,
	pipeline.KindPrediction:  (*builder).prediction,
}

// Build validates cfg and creates the System of mode.
func Build(cfg *config.Config, mode Mode, opts Options) (*pipeline.System, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	err := cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	b := &builder{cfg: cfg, opts: opts}
	names := cfg.Stages
	switch mode {
	case ModePredict:
		err := cfg.ValidatePredict()
		if err != nil {
			return nil, errors.Wrap(err, "invalid configuration")
		}
		names = []string{string(pipeline.KindPrediction)}
		b.loadModel = true
	case ModeTrainTest:
		if cfg.HasStage(pipeline.KindPrediction) && !cfg.HasStage(pipeline.KindModelling) {
			err := cfg.ValidatePredict()
			if err != nil {
				return nil, errors.Wrap(err, "prediction without modelling")
			}
			b.loadModel = true
		}
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%q", mode)
	}

	stages := make([]pipeline.Stage, 0, len(names))
	for _, name := range names {
		build, ok := runners[pipeline.Kind(name)]
		if !ok {
			return nil, &pipeline.UnknownStageError{Nickname: name}
		}
		runner, err := build(b)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to build %s", name)
		}
		st, err := pipeline.NewStage(name, runner)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}

	return pipeline.NewSystem(stages, pipeline.WithLogger(opts.Logger), pipeline.WithHooks(opts.Hooks...))
}

// replacers are shared by the preparation and the prediction pipelines.
func replacers() []pipeline.Definition {
	return []pipeline.Definition{
		pipeline.Def("persona", pipes.PersonalityCodeReplacer()),
		pipeline.Def("link", pipes.LinkReplacer()),
		pipeline.Def("digit", pipes.DigitReplacer()),
	}
}

func (b *builder) preparation() (any, error) {
	logger := b.opts.Logger
	prep := b.cfg.Preparation
	defs := []pipeline.Definition{
		pipeline.Def("loader", pipes.PersonalityPostLoader(b.cfg.Data.Training, b.cfg.Labels, logger)),
		pipeline.Def("splitter", pipes.PostsSplitter(prep.ChunkSize, logger)),
	}
	defs = append(defs, replacers()...)
	defs = append(defs,
		pipeline.Def("evenfier", pipes.EvenlyDistributor(rand.New(rand.NewSource(prep.Seed)), logger)), //nolint:gosec
		pipeline.Def("traintest", pipes.TrainTestSplitter(prep.TestSize, prep.Seed, logger)),
	)

	return pipeline.New(defs)
}

func (b *builder) modelling() (any, error) {
	classifier, err := learn.NewClassifier(b.cfg.Labels, b.cfg.Model.Options, b.opts.Logger)
	if err != nil {
		return nil, err
	}

	return pipeline.Estimator(classifier), nil
}

func (b *builder) evaluation() (any, error) {
	logger := b.opts.Logger
	defs := []pipeline.Definition{
		pipeline.Def("eval", pipes.Evaluator(b.cfg.Labels, b.opts.Out, logger)),
	}
	if b.cfg.Model.Path != "" {
		defs = append(defs, pipeline.Def("saver", pipes.ModelSaver(b.cfg.Model.Path, logger)))
	}
	if b.opts.Results != nil {
		defs = append(defs, pipeline.Def("recorder", pipes.EvaluationRecorder(b.opts.Results, logger)))
	}

	return pipeline.New(defs)
}

func (b *builder) prediction() (any, error) {
	logger := b.opts.Logger
	var defs []pipeline.Definition
	if b.loadModel {
		defs = append(defs, pipeline.Def("model", pipes.ModelLoader(b.cfg.Model.Path, logger)))
	}
	defs = append(defs, pipeline.Def("loader", pipes.PredictionDataLoader(b.cfg.Data.Prediction, b.cfg.Labels, logger)))
	defs = append(defs, replacers()...)
	defs = append(defs, pipeline.Def("predictor", pipes.Predictor(b.opts.Out, logger)))
	if b.opts.Results != nil {
		defs = append(defs, pipeline.Def("recorder", pipes.PredictionRecorder(b.opts.Results, logger)))
	}

	return pipeline.New(defs)
}
