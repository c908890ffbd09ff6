package pipes

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

// ResultsStore persists evaluation reports and predictions. Both methods return the id of the new run.
type ResultsStore interface {
	SaveEvaluation(ctx context.Context, report learn.Report) (int64, error)
	SavePredictions(ctx context.Context, predictions []persona.Prediction) (int64, error)
}

type recorder struct {
	pipeline.Base
	name   string
	store  ResultsStore
	logger *zap.Logger
	record func(ctx context.Context, r *recorder) (int64, error)
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Run(ctx context.Context) error {
	if r.store == nil {
		return ErrResultsStoreUnset
	}
	id, err := r.record(ctx, r)
	if err != nil {
		return errors.Wrap(err, "unable to record results")
	}
	r.logger.Info("recorded results", zap.Int64("run", id))

	return nil
}

// EvaluationRecorder saves the report into store.
func EvaluationRecorder(store ResultsStore, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &recorder{
			Base:   pipeline.Base{Payload: payload, Nickname: nickname},
			name:   "EvaluationRecorder",
			store:  store,
			logger: orNop(logger),
			record: func(ctx context.Context, r *recorder) (int64, error) {
				report, err := pipeline.Get(r.Payload, ReportKey)
				if err != nil {
					return 0, err
				}
				return r.store.SaveEvaluation(ctx, report)
			},
		}
	}
}

// PredictionRecorder saves the predictions into store.
func PredictionRecorder(store ResultsStore, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &recorder{
			Base:   pipeline.Base{Payload: payload, Nickname: nickname},
			name:   "PredictionRecorder",
			store:  store,
			logger: orNop(logger),
			record: func(ctx context.Context, r *recorder) (int64, error) {
				predictions, err := pipeline.Get(r.Payload, PredictionsKey)
				if err != nil {
					return 0, err
				}
				return r.store.SavePredictions(ctx, predictions)
			},
		}
	}
}
