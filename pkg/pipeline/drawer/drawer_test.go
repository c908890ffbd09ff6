package drawer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/hatstall/pkg/pipeline"
	"github.com/askiada/hatstall/pkg/pipeline/drawer"
	"github.com/askiada/hatstall/pkg/pipeline/measure"
)

type noopPipe struct {
	pipeline.Base
}

func (p *noopPipe) Name() string { return "NoopPipe" }

func (p *noopPipe) Run(_ context.Context) error { return nil }

func noop(payload *pipeline.Payload, nickname string) pipeline.Pipe {
	return &noopPipe{Base: pipeline.Base{Payload: payload, Nickname: nickname}}
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	prep, err := pipeline.New([]pipeline.Definition{
		pipeline.Def("loader", noop),
		pipeline.Def("digit", noop),
	})
	require.NoError(t, err)
	pred, err := pipeline.New([]pipeline.Definition{pipeline.Def("predictor", noop)})
	require.NoError(t, err)

	fileName := filepath.Join(t.TempDir(), "system.dot")
	m := measure.NewDefaultMeasure()
	sys, err := pipeline.NewSystem(
		[]pipeline.Stage{pipeline.Preparation(prep), pipeline.Prediction(pred)},
		pipeline.WithHooks(measure.PipelineMeasure(m), drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), m)),
	)
	require.NoError(t, err)
	require.NoError(t, sys.Run(t.Context()))

	raw, err := os.ReadFile(fileName)
	require.NoError(t, err)
	out := string(raw)

	assert.True(t, strings.HasPrefix(out, "strict digraph {"))
	for _, link := range []string{
		`"start" -> "preparation"`,
		`"preparation" -> "preparation.loader"`,
		`"preparation.loader" -> "preparation.digit"`,
		`"preparation" -> "prediction"`,
		`"prediction" -> "prediction.predictor"`,
		`"prediction" -> "end"`,
	} {
		assert.Contains(t, out, link)
	}
	assert.Contains(t, out, `shape="box"`)
	assert.Contains(t, out, `shape="ellipse"`)
	assert.Contains(t, out, "total: ")
	assert.Less(t, strings.Index(out, `"start" [`), strings.Index(out, `"preparation" [`))
	assert.Less(t, strings.Index(out, `"preparation.digit" [`), strings.Index(out, `"prediction" [`))
}

func TestAddMeasureColoursLinks(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")
	for _, name := range []string{"start", "fast", "slow"} {
		require.NoError(t, d.AddStep(name, nil))
	}
	require.NoError(t, d.AddLink("start", "fast"))
	require.NoError(t, d.AddLink("fast", "slow"))

	m := measure.NewDefaultMeasure()
	m.AddMetric("fast", "start").AddDuration(time.Millisecond)
	m.AddMetric("slow", "fast").AddDuration(3 * time.Millisecond)
	require.NoError(t, d.AddMeasure(m))

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	lines := strings.Split(buf.String(), "\n")

	var fastLink, slowLink string
	for _, line := range lines {
		switch {
		case strings.Contains(line, `"start" -> "fast"`):
			fastLink = line
		case strings.Contains(line, `"fast" -> "slow"`):
			slowLink = line
		}
	}
	require.NotEmpty(t, fastLink)
	require.NotEmpty(t, slowLink)
	assert.Contains(t, fastLink, `label="1ms"`)
	assert.Contains(t, slowLink, `label="3ms"`)
	assert.Contains(t, fastLink, `color="#`)
	assert.NotEqual(t, colourOf(fastLink), colourOf(slowLink))
	assert.Contains(t, buf.String(), `label=<slow <BR /> <FONT POINT-SIZE="12">3ms</FONT>>`)
}

func TestAddLinkUnknownStep(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer("")
	require.NoError(t, d.AddStep("a", nil))
	require.Error(t, d.AddLink("a", "b"))
	require.Error(t, d.AddStep("a", nil))
}

func colourOf(line string) string {
	_, rest, _ := strings.Cut(line, ` color="`)
	colour, _, _ := strings.Cut(rest, `"`)
	return colour
}
