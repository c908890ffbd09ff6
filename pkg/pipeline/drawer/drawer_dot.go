package drawer

import (
	"fmt"
	"io"
	"os"
	"slices"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/hatstall/internal/store"
	"github.com/askiada/hatstall/pkg/pipeline/measure"
)

// DOTDrawer renders the system graph in the DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.OrderedStore[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName on Draw.
func NewDOTDrawer(fileName string) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    st,
		graph:    graph.NewWithStore(graph.StringHash, st, graph.Directed(), graph.PreventCycles()),
	}
}

// AddStep adds a step to the graph.
func (d *DOTDrawer) AddStep(name string, attributes map[string]string) error {
	opts := make([]func(*graph.VertexProperties), 0, len(attributes))
	for k, v := range attributes {
		opts = append(opts, graph.VertexAttribute(k, v))
	}

	err := d.graph.AddVertex(name, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates the DOT file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

// Render writes the DOT description of the graph to wrt.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	desc, err := d.describe()
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// SetTotalTime labels the step with the total run time.
func (d *DOTDrawer) SetTotalTime(stepName string, total time.Duration) error {
	err := d.store.UpdateVertex(stepName, func(p *graph.VertexProperties) {
		p.Attributes["xlabel"] = "total: " + measure.Round(total).String()
	})
	if err != nil {
		return errors.Wrapf(err, "unable to update vertex %s", stepName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every measured step with its average duration. The link into a step is coloured from
// blue for the fastest step to red for the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	durations := []time.Duration{}
	for _, step := range msr.AllMetrics() {
		if avg := step.AVGDuration(); avg > 0 {
			durations = append(durations, avg)
		}
	}
	if len(durations) == 0 {
		return nil
	}
	slices.Sort(durations)
	minValue, maxValue := durations[0], durations[len(durations)-1]

	for name, step := range msr.AllMetrics() {
		avg := step.AVGDuration()
		if avg == 0 {
			continue
		}

		err := d.store.UpdateVertex(name, func(p *graph.VertexProperties) {
			p.Attributes["xlabel"] = avg.String()
		})
		if err != nil {
			return errors.Wrapf(err, "unable to update vertex %s", name)
		}

		if step.Parent() == "" {
			continue
		}
		colour, err := durationColour(avg, minValue, maxValue)
		if err != nil {
			return err
		}
		err = d.graph.UpdateEdge(step.Parent(), name,
			graph.EdgeAttribute("label", avg.String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to update edge from %s to %s", step.Parent(), name)
		}
	}

	return nil
}

func durationColour(curr, minValue, maxValue time.Duration) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(curr-minValue) / float64(maxValue-minValue)
	}

	red := maxRGB * fraction
	blue := maxRGB - red

	colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict digraph {
{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}-> "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	Statements []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func (d *DOTDrawer) describe() (description, error) {
	desc := description{}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}
	for _, vertex := range vertices {
		_, props, err := d.store.Vertex(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		attributes := make(map[string]string, len(props.Attributes))
		for k, v := range props.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)
				continue
			}
			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     props.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})
	}

	edges, err := d.store.ListEdges()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list edges")
	}
	for _, edge := range edges {
		desc.Statements = append(desc.Statements, statement{
			Source:         edge.Source,
			Target:         edge.Target,
			EdgeWeight:     edge.Properties.Weight,
			EdgeAttributes: edge.Properties.Attributes,
		})
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
