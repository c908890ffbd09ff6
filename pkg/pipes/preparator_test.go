package pipes_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
	"github.com/askiada/hatstall/pkg/pipes"
)

func TestPreparatorsShareContainer(t *testing.T) {
	t.Parallel()

	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.PersonsKey, []*persona.Record{
		record(t, intro, "a1", "www.example.com", "intj", "x"),
	})

	require.NoError(t, run(t, payload, pipeline.Def("persona", pipes.PersonalityCodeReplacer())))
	first, err := pipeline.Get(payload, pipeline.ContainerKey)
	require.NoError(t, err)

	require.NoError(t, run(t, payload,
		pipeline.Def("link", pipes.LinkReplacer()),
		pipeline.Def("digit", pipes.DigitReplacer()),
	))
	second, err := pipeline.Get(payload, pipeline.ContainerKey)
	require.NoError(t, err)
	assert.Same(t, first, second)

	persons, err := pipeline.Get(payload, pipeline.PersonsKey)
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, []string{"$digit", "$link", "", "x"}, persons[0].Posts)
}

func TestPreparatorWithoutPersons(t *testing.T) {
	t.Parallel()

	err := run(t, pipeline.NewPayload(), pipeline.Def("digit", pipes.DigitReplacer()))
	var missing *pipeline.MissingContextKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, pipeline.PersonsKey.Name(), missing.Key)
}

func TestEvenlyDistributorLabelsNotStored(t *testing.T) {
	t.Parallel()

	custom := persona.LabelSet{First: "Thinker", Second: "Feeler"}
	thinker, err := custom.NewRecord("T", []string{"logic"})
	require.NoError(t, err)
	feeler, err := custom.NewRecord("F", []string{"heart"})
	require.NoError(t, err)
	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.PersonsKey, []*persona.Record{thinker, feeler})

	err = run(t, payload, pipeline.Def("evenfier", pipes.EvenlyDistributor(rand.New(rand.NewSource(1)), nil)))
	var invalid *persona.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Thinker", invalid.Code)

	pipeline.Set(payload, pipeline.LabelsKey, custom)
	pipeline.Set(payload, pipeline.PersonsKey, []*persona.Record{thinker, feeler})
	payload.Delete(pipeline.ContainerKey.Name())
	require.NoError(t, run(t, payload, pipeline.Def("evenfier", pipes.EvenlyDistributor(rand.New(rand.NewSource(1)), nil))))
	persons, err := pipeline.Get(payload, pipeline.PersonsKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []*persona.Record{thinker, feeler}, persons)
}

func TestPostsSplitter(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.PersonsKey, []*persona.Record{
		record(t, intro, "p1", "p2", "p3", "p4", "p5"),
		record(t, extro, "q1", "q2"),
	})

	require.NoError(t, run(t, payload, pipeline.Def("splitter", pipes.PostsSplitter(2, zap.New(core)))))

	persons, err := pipeline.Get(payload, pipeline.PersonsKey)
	require.NoError(t, err)
	require.Len(t, persons, 3)
	assert.Equal(t, []string{"p1", "p2"}, persons[0].Posts)
	assert.Equal(t, []string{"p3", "p4"}, persons[1].Posts)
	assert.Equal(t, []string{"q1", "q2"}, persons[2].Posts)
	assert.Equal(t, extro, persons[2].Personality())

	entries := logs.FilterMessage("ignored texts because of too small chunks").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["ignored"])

	err = run(t, payload, pipeline.Def("splitter", pipes.PostsSplitter(0, nil)))
	require.ErrorIs(t, err, persona.ErrChunkSize)
}

func TestEvenlyDistributor(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.PersonsKey, []*persona.Record{
		record(t, intro, "i1"),
		record(t, intro, "i2"),
		record(t, intro, "i3"),
		record(t, extro, "e1"),
	})
	evenfier := pipes.EvenlyDistributor(rand.New(rand.NewSource(1)), zap.New(core))

	require.NoError(t, run(t, payload, pipeline.Def("evenfier", evenfier)))
	persons, err := pipeline.Get(payload, pipeline.PersonsKey)
	require.NoError(t, err)
	posts := make([]string, len(persons))
	for i, p := range persons {
		posts[i] = p.Posts[0]
	}
	assert.ElementsMatch(t, []string{"i1", "e1"}, posts)
	assert.Zero(t, logs.Len())

	require.NoError(t, run(t, payload, pipeline.Def("evenfier", evenfier)))
	assert.Equal(t, 1, logs.FilterMessage("both personalities already have an even distribution").Len())
}

func TestTrainTestSplitter(t *testing.T) {
	t.Parallel()

	newPayload := func() *pipeline.Payload {
		var records []*persona.Record
		for i := range 20 {
			label := intro
			if i%3 == 0 {
				label = extro
			}
			records = append(records, record(t, label, string(rune('a'+i))))
		}
		payload := pipeline.NewPayload()
		pipeline.Set(payload, pipeline.PersonsKey, records)
		return payload
	}

	core, logs := observer.New(zapcore.InfoLevel)
	first := newPayload()
	require.NoError(t, run(t, first, pipeline.Def("traintest", pipes.TrainTestSplitter(0.3, 123, zap.New(core)))))
	split, err := pipeline.Get(first, pipeline.TrainTestKey)
	require.NoError(t, err)
	assert.Len(t, split.TrainX, 14)
	assert.Len(t, split.TrainY, 14)
	assert.Len(t, split.TestX, 6)
	assert.Len(t, split.TestY, 6)

	test := logs.FilterMessage("test split").All()
	require.Len(t, test, 1)
	assert.EqualValues(t, 6, test[0].ContextMap()["records"])
	assert.EqualValues(t, 4, test[0].ContextMap()["Introvert"])
	assert.EqualValues(t, 2, test[0].ContextMap()["Extrovert"])

	second := newPayload()
	require.NoError(t, run(t, second, pipeline.Def("traintest", pipes.TrainTestSplitter(0.3, 123, nil))))
	again, err := pipeline.Get(second, pipeline.TrainTestKey)
	require.NoError(t, err)
	assert.Equal(t, split, again)

	err = run(t, newPayload(), pipeline.Def("traintest", pipes.TrainTestSplitter(1.5, 123, nil)))
	require.ErrorIs(t, err, persona.ErrTestSize)
}
