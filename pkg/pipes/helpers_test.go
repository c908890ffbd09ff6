package pipes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

var (
	intro  = persona.DefaultLabels.First
	extro  = persona.DefaultLabels.Second
	labels = persona.DefaultLabels
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, payload *pipeline.Payload, defs ...pipeline.Definition) error {
	t.Helper()
	pipe, err := pipeline.New(defs)
	require.NoError(t, err)
	pipe.Rebind(payload)
	return pipe.Run(t.Context())
}

func record(t *testing.T, label persona.Label, posts ...string) *persona.Record {
	t.Helper()
	r, err := labels.NewRecord(label.Code(), posts)
	require.NoError(t, err)
	return r
}

// constEstimator predicts label for every record.
type constEstimator struct {
	label persona.Label
}

func (e constEstimator) Fit([][]string, []persona.Label) error { return nil }

func (e constEstimator) Predict(x [][]string) ([]persona.Label, error) {
	res := make([]persona.Label, len(x))
	for i := range res {
		res[i] = e.label
	}
	return res, nil
}

func (e constEstimator) Score(x [][]string, y []persona.Label) (float64, error) {
	pred, _ := e.Predict(x)
	return learn.Accuracy(y, pred)
}

// memoryStore keeps what the recorders save.
type memoryStore struct {
	reports     []learn.Report
	predictions [][]persona.Prediction
}

func (s *memoryStore) SaveEvaluation(_ context.Context, report learn.Report) (int64, error) {
	s.reports = append(s.reports, report)
	return int64(len(s.reports)), nil
}

func (s *memoryStore) SavePredictions(_ context.Context, predictions []persona.Prediction) (int64, error) {
	s.predictions = append(s.predictions, predictions)
	return int64(len(s.predictions)), nil
}
