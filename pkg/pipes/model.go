package pipes

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

type evaluator struct {
	pipeline.Base
	labels persona.LabelSet
	out    io.Writer
	logger *zap.Logger
}

func (e *evaluator) Name() string { return "Evaluator" }

func (e *evaluator) Run(_ context.Context) error {
	model, err := pipeline.Get(e.Payload, pipeline.ModelKey)
	if err != nil {
		return err
	}
	split, err := pipeline.Get(e.Payload, pipeline.TrainTestKey)
	if err != nil {
		return err
	}
	pred, err := model.Predict(split.TestX)
	if err != nil {
		return errors.Wrap(err, "unable to predict test split")
	}
	report, err := learn.NewReport(split.TestY, pred, e.labels.Labels())
	if err != nil {
		return errors.Wrap(err, "unable to evaluate model")
	}

	_, err = io.WriteString(e.out, report.String())
	if err != nil {
		return errors.Wrap(err, "unable to write report")
	}
	e.logger.Info("evaluated model", zap.Float64("score", report.Score), zap.Float64s("f1", report.F1))
	pipeline.Set(e.Payload, ReportKey, report)

	return nil
}

// Evaluator scores the model on the test split and writes the accuracy, the F1 of every label and the
// confusion matrix to out. It stores the report.
func Evaluator(labels persona.LabelSet, out io.Writer, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &evaluator{
			Base:   pipeline.Base{Payload: payload, Nickname: nickname},
			labels: labels,
			out:    out,
			logger: orNop(logger),
		}
	}
}

type predictor struct {
	pipeline.Base
	out    io.Writer
	logger *zap.Logger
}

func (p *predictor) Name() string { return "Predictor" }

func (p *predictor) Run(_ context.Context) error {
	model, err := pipeline.Get(p.Payload, pipeline.ModelKey)
	if err != nil {
		return err
	}
	persons, err := pipeline.Get(p.Payload, pipeline.PersonsKey)
	if err != nil {
		return err
	}
	names, err := pipeline.Get(p.Payload, pipeline.NamesKey)
	if err != nil {
		return err
	}
	if len(names) != len(persons) {
		return errors.Wrapf(ErrNamesMismatch, "%d names, %d records", len(names), len(persons))
	}

	posts := make([][]string, len(persons))
	for i, r := range persons {
		posts[i] = r.Posts
	}
	labels, err := model.Predict(posts)
	if err != nil {
		return errors.Wrap(err, "unable to predict")
	}

	predictions := make([]persona.Prediction, len(labels))
	for i, label := range labels {
		predictions[i] = persona.Prediction{Name: names[i], Label: label}
		_, err := fmt.Fprintf(p.out, "%s %s\n", names[i], label)
		if err != nil {
			return errors.Wrap(err, "unable to write prediction")
		}
	}
	p.logger.Info("predicted records", zap.Int("records", len(predictions)))
	pipeline.Set(p.Payload, PredictionsKey, predictions)

	return nil
}

// Predictor labels every loaded record and writes one "identifier label" line per record to out.
// It stores the predictions.
func Predictor(out io.Writer, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &predictor{
			Base:   pipeline.Base{Payload: payload, Nickname: nickname},
			out:    out,
			logger: orNop(logger),
		}
	}
}

type modelSaver struct {
	pipeline.Base
	path   string
	logger *zap.Logger
}

func (s *modelSaver) Name() string { return "ModelSaver" }

func (s *modelSaver) Run(_ context.Context) error {
	model, err := pipeline.Get(s.Payload, pipeline.ModelKey)
	if err != nil {
		return err
	}
	classifier, ok := model.(*learn.Classifier)
	if !ok {
		return errors.Wrapf(ErrModelNotSavable, "%T", model)
	}
	err = classifier.SaveFile(s.path)
	if err != nil {
		return err
	}
	s.logger.Info("saved model", zap.String("path", s.path))

	return nil
}

// ModelSaver writes the fitted classifier to path.
func ModelSaver(path string, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &modelSaver{Base: pipeline.Base{Payload: payload, Nickname: nickname}, path: path, logger: orNop(logger)}
	}
}

type modelLoader struct {
	pipeline.Base
	path   string
	logger *zap.Logger
}

func (l *modelLoader) Name() string { return "ModelLoader" }

func (l *modelLoader) Run(_ context.Context) error {
	classifier, err := learn.LoadFile(l.path, l.logger)
	if err != nil {
		return err
	}
	pipeline.Set(l.Payload, pipeline.ModelKey, pipeline.Estimator(classifier))
	l.logger.Info("loaded model", zap.String("path", l.path))

	return nil
}

// ModelLoader reads a classifier saved by ModelSaver and stores it as the model.
func ModelLoader(path string, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &modelLoader{Base: pipeline.Base{Payload: payload, Nickname: nickname}, path: path, logger: orNop(logger)}
	}
}
