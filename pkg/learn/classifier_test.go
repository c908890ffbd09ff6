package learn_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

var _ pipeline.Estimator = (*learn.Classifier)(nil)

var (
	intro = persona.DefaultLabels.First
	extro = persona.DefaultLabels.Second
)

func trainingSet() ([][]string, []persona.Label) {
	x := [][]string{
		{"quiet evening with a book", "reading alone again"},
		{"alone with my book", "quiet tea"},
		{"reading quiet poems", "book club was too loud"},
		{"quiet walk alone", "reading"},
		{"party tonight with everyone", "love meeting new friends"},
		{"great party", "friends everywhere tonight"},
		{"meeting friends at the party", "everyone come"},
		{"loud party with friends", "tonight again"},
	}
	y := []persona.Label{intro, intro, intro, intro, extro, extro, extro, extro}
	return x, y
}

func newClassifier(t *testing.T) *learn.Classifier {
	t.Helper()
	c, err := learn.NewClassifier(persona.DefaultLabels, learn.DefaultOptions(), nil)
	require.NoError(t, err)
	return c
}

func TestClassifierSeparable(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := learn.NewClassifier(persona.DefaultLabels, learn.DefaultOptions(), zap.New(core))
	require.NoError(t, err)

	x, y := trainingSet()
	require.NoError(t, c.Fit(x, y))
	require.Equal(t, 1, logs.FilterMessage("fitted classifier").Len())

	pred, err := c.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	score, err := c.Score(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, score, 1e-9)

	pred, err = c.Predict([][]string{{"a quiet book"}, {"party with friends"}})
	require.NoError(t, err)
	assert.Equal(t, []persona.Label{intro, extro}, pred)
}

func TestClassifierFitErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		x        [][]string
		y        []persona.Label
		expected error
	}{
		"length mismatch": {x: [][]string{{"a"}}, y: nil, expected: learn.ErrLengthMismatch},
		"single class":    {x: [][]string{{"a"}, {"b"}}, y: []persona.Label{intro, intro}, expected: learn.ErrSingleClass},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, newClassifier(t).Fit(tc.x, tc.y), tc.expected)
		})
	}

	var verr *persona.ValidationError
	require.ErrorAs(t, newClassifier(t).Fit([][]string{{"a"}}, []persona.Label{"Ambivert"}), &verr)
}

func TestClassifierNotFitted(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	_, err := c.Predict([][]string{{"post"}})
	require.ErrorIs(t, err, learn.ErrNotFitted)
	require.ErrorIs(t, c.Save(&bytes.Buffer{}), learn.ErrNotFitted)
}

func TestClassifierPersistence(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	x, y := trainingSet()
	require.NoError(t, c.Fit(x, y))

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, c.SaveFile(path))

	loaded, err := learn.LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, persona.DefaultLabels, loaded.Labels())

	probe := [][]string{{"a quiet book"}, {"party with friends"}, {"something else entirely"}}
	want, err := c.Predict(probe)
	require.NoError(t, err)
	got, err := loaded.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	_, err := learn.Load(bytes.NewBufferString("{"), nil)
	require.Error(t, err)

	_, err = learn.Load(bytes.NewBufferString(`{"labels":{"First":"Introvert","Second":"Extrovert"}}`), nil)
	require.ErrorIs(t, err, learn.ErrNotFitted)

	_, err = learn.LoadFile(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
}

func TestLogisticRegressionErrors(t *testing.T) {
	t.Parallel()

	m := learn.NewLogisticRegression(0, 0, 0)
	assert.InDelta(t, 1, m.C, 1e-9)

	_, err := m.Fit(nil, nil)
	require.ErrorIs(t, err, learn.ErrEmptyDataset)
	_, err = m.Fit([]learn.Features{{"a": 1}}, []float64{1, 0})
	require.ErrorIs(t, err, learn.ErrLengthMismatch)
	_, err = m.Probability([]learn.Features{{"a": 1}})
	require.ErrorIs(t, err, learn.ErrNotFitted)

	m.C = -1
	_, err = m.Fit([]learn.Features{{"a": 1}}, []float64{1})
	require.ErrorIs(t, err, learn.ErrRegularization)
}
