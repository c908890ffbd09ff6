package pipes

import (
	"github.com/pkg/errors"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

var (
	// ReportKey holds the evaluation of the model on the test split.
	ReportKey = pipeline.NewKey[learn.Report]("report")
	// PredictionsKey holds one prediction per loaded record.
	PredictionsKey = pipeline.NewKey[[]persona.Prediction]("predictions")
)

var (
	ErrMalformedRow      = errors.New("malformed row")
	ErrNamesMismatch     = errors.New("names and records have different lengths")
	ErrModelNotSavable   = errors.New("model can't be saved")
	ErrResultsStoreUnset = errors.New("results store must be set")
)
