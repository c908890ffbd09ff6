package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/hatstall/pkg/pipeline"
)

func TestPayloadGetSet(t *testing.T) {
	t.Parallel()

	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.NamesKey, []string{"alice", "bob"})

	got, err := pipeline.Get(payload, pipeline.NamesKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, got)
	assert.True(t, pipeline.Has(payload, pipeline.NamesKey))
	assert.Equal(t, []string{"names"}, payload.Keys())

	payload.Delete(pipeline.NamesKey.Name())
	assert.False(t, pipeline.Has(payload, pipeline.NamesKey))
}

func TestPayloadMissingKey(t *testing.T) {
	t.Parallel()

	payload := pipeline.NewPayload()
	_, err := pipeline.Get(payload, pipeline.TrainTestKey)

	var missing *pipeline.MissingContextKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "train_test", missing.Key)
	assert.Equal(t, "pipeline.TrainTest", missing.Want)
	assert.Empty(t, missing.Got)
}

func TestPayloadWrongType(t *testing.T) {
	t.Parallel()

	payload := pipeline.NewPayload()
	pipeline.Set(payload, pipeline.NewKey[int]("model"), 42)

	_, err := pipeline.Get(payload, pipeline.ModelKey)
	var missing *pipeline.MissingContextKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "pipeline.Estimator", missing.Want)
	assert.Equal(t, "int", missing.Got)
	assert.False(t, pipeline.Has(payload, pipeline.ModelKey))
}
