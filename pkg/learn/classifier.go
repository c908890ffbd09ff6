package learn

import (
	"encoding/json"
	"io"
	"os"
	"regexp"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/persona"
)

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	MinDF        float64 `yaml:"min_df"`
	MaxDF        float64 `yaml:"max_df"`
	TokenPattern string  `yaml:"token_pattern"`
	C            float64 `yaml:"c"`
	MaxIter      int     `yaml:"max_iter"`
	LearningRate float64 `yaml:"learning_rate"`
}

// DefaultOptions mirrors the feature extraction the model was designed with.
func DefaultOptions() Options {
	return Options{
		MinDF:        0.01,
		MaxDF:        1.0,
		TokenPattern: DefaultTokenPattern,
		C:            1,
		MaxIter:      1000,
		LearningRate: 0.5,
	}
}

// Classifier predicts one of two labels from the posts of a record. The second label is the positive
// class of the logistic regression.
type Classifier struct {
	labels     persona.LabelSet
	vectorizer *TfidfVectorizer
	scaler     *MinMaxScaler
	union      *FeatureUnion
	model      *LogisticRegression
	logger     *zap.Logger
}

// NewClassifier builds an unfitted classifier. logger may be nil.
func NewClassifier(labels persona.LabelSet, opts Options, logger *zap.Logger) (*Classifier, error) {
	err := labels.Validate()
	if err != nil {
		return nil, err
	}
	if opts.MaxDF == 0 {
		opts.MaxDF = 1
	}
	vectorizer, err := NewTfidfVectorizer(opts.MinDF, opts.MaxDF, opts.TokenPattern)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Classifier{
		labels:     labels,
		vectorizer: vectorizer,
		scaler:     &MinMaxScaler{},
		model:      NewLogisticRegression(opts.C, opts.MaxIter, opts.LearningRate),
		logger:     logger,
	}
	c.buildUnion()

	return c, nil
}

func (c *Classifier) buildUnion() {
	c.union = &FeatureUnion{Branches: []Transformer{
		c.vectorizer,
		Scaled{Transformer: AverageWordCalculator{}, Scaler: c.scaler},
	}}
}

// Labels returns the labels the classifier separates.
func (c *Classifier) Labels() persona.LabelSet {
	return c.labels
}

func (c *Classifier) Fit(x [][]string, y []persona.Label) error {
	if len(x) != len(y) {
		return errors.Wrapf(ErrLengthMismatch, "%d samples, %d labels", len(x), len(y))
	}
	target := make([]float64, len(y))
	positives := 0
	for i, label := range y {
		switch label {
		case c.labels.Second:
			target[i] = 1
			positives++
		case c.labels.First:
		default:
			return &persona.ValidationError{Code: string(label), Labels: c.labels}
		}
	}
	if positives == 0 || positives == len(y) {
		return ErrSingleClass
	}

	err := c.union.Fit(x)
	if err != nil {
		return errors.Wrap(err, "unable to fit features")
	}
	feats, err := c.union.Transform(x)
	if err != nil {
		return errors.Wrap(err, "unable to compute features")
	}
	iter, err := c.model.Fit(feats, target)
	if err != nil {
		return errors.Wrap(err, "unable to fit logistic regression")
	}
	c.logger.Debug("fitted classifier",
		zap.Int("samples", len(x)),
		zap.Int("vocabulary", c.vectorizer.Vocabulary()),
		zap.Int("iterations", iter),
	)

	return nil
}

func (c *Classifier) Predict(x [][]string) ([]persona.Label, error) {
	feats, err := c.union.Transform(x)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compute features")
	}
	proba, err := c.model.Probability(feats)
	if err != nil {
		return nil, err
	}

	res := make([]persona.Label, len(proba))
	for i, p := range proba {
		res[i] = c.labels.First
		if p > 0.5 {
			res[i] = c.labels.Second
		}
	}

	return res, nil
}

// Score returns the accuracy of the predictions for x.
func (c *Classifier) Score(x [][]string, y []persona.Label) (float64, error) {
	pred, err := c.Predict(x)
	if err != nil {
		return 0, err
	}

	return Accuracy(y, pred)
}

type tfidfState struct {
	MinDF   float64            `json:"min_df"`
	MaxDF   float64            `json:"max_df"`
	Pattern string             `json:"token_pattern"`
	IDF     map[string]float64 `json:"idf"`
}

type classifierState struct {
	Labels persona.LabelSet    `json:"labels"`
	Tfidf  tfidfState          `json:"tfidf"`
	Scaler *MinMaxScaler       `json:"scaler"`
	Model  *LogisticRegression `json:"model"`
}

// Save writes the fitted classifier as JSON.
func (c *Classifier) Save(w io.Writer) error {
	if c.model.Weights == nil {
		return errors.Wrap(ErrNotFitted, "classifier")
	}
	state := classifierState{
		Labels: c.labels,
		Tfidf: tfidfState{
			MinDF:   c.vectorizer.MinDF,
			MaxDF:   c.vectorizer.MaxDF,
			Pattern: c.vectorizer.Pattern.String(),
			IDF:     c.vectorizer.idf,
		},
		Scaler: c.scaler,
		Model:  c.model,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(state), "unable to encode classifier")
}

// SaveFile writes the fitted classifier to path.
func (c *Classifier) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create model file %s", path)
	}
	err = c.Save(file)
	if err != nil {
		file.Close()
		return err
	}

	return errors.Wrapf(file.Close(), "unable to close model file %s", path)
}

// Load reads a classifier written by Save.
func Load(r io.Reader, logger *zap.Logger) (*Classifier, error) {
	var state classifierState
	err := json.NewDecoder(r).Decode(&state)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode classifier")
	}
	err = state.Labels.Validate()
	if err != nil {
		return nil, err
	}
	if state.Model == nil || state.Model.Weights == nil || state.Scaler == nil || state.Scaler.Min == nil || state.Tfidf.IDF == nil {
		return nil, errors.Wrap(ErrNotFitted, "model file")
	}
	re, err := regexp.Compile(state.Tfidf.Pattern)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compile token pattern")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Classifier{
		labels: state.Labels,
		vectorizer: &TfidfVectorizer{
			MinDF:   state.Tfidf.MinDF,
			MaxDF:   state.Tfidf.MaxDF,
			Pattern: re,
			idf:     state.Tfidf.IDF,
		},
		scaler: state.Scaler,
		model:  state.Model,
		logger: logger,
	}
	c.buildUnion()

	return c, nil
}

// LoadFile reads a classifier from path.
func LoadFile(path string, logger *zap.Logger) (*Classifier, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open model file %s", path)
	}
	defer file.Close()

	return Load(file, logger)
}
