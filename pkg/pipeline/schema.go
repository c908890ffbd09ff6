package pipeline

import "github.com/askiada/hatstall/pkg/persona"

// Estimator is the trained model capability the modelling stage drives.
// x holds the posts of each record and y their labels.
type Estimator interface {
	Fit(x [][]string, y []persona.Label) error
	Predict(x [][]string) ([]persona.Label, error)
	Score(x [][]string, y []persona.Label) (float64, error)
}

// TrainTest is the output of the train/test split.
type TrainTest struct {
	TrainX [][]string
	TrainY []persona.Label
	TestX  [][]string
	TestY  []persona.Label
}

// Payload keys shared across stages.
var (
	// LabelsKey holds the label set the records were parsed with.
	LabelsKey = NewKey[persona.LabelSet]("labels")
	// PersonsKey holds the records loaded or rewritten by the latest pipe.
	PersonsKey = NewKey[[]*persona.Record]("persons")
	// ContainerKey holds the collection the preparation pipes mutate in place.
	ContainerKey = NewKey[*persona.Collection]("persons_container")
	// NamesKey holds the identifier of every record loaded for prediction, in record order.
	NamesKey = NewKey[[]string]("names")
	// TrainTestKey is written by the train/test splitter and read by modelling and evaluation.
	TrainTestKey = NewKey[TrainTest]("train_test")
	// ModelKey holds the fitted estimator.
	ModelKey = NewKey[Estimator]("model")
)
