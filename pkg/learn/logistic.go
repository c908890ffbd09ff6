package learn

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// LogisticRegression is a binary L2 regularised logistic regression trained by batch gradient descent.
// It predicts the probability of the positive class.
type LogisticRegression struct {
	// C is the inverse regularization strength.
	C            float64 `json:"c"`
	MaxIter      int     `json:"max_iter"`
	LearningRate float64 `json:"learning_rate"`
	// Tolerance stops the descent once every gradient component is below it.
	Tolerance float64 `json:"tolerance"`

	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

// NewLogisticRegression returns a model with scikit-learn like defaults for unset fields.
func NewLogisticRegression(c float64, maxIter int, learningRate float64) *LogisticRegression {
	if c == 0 {
		c = 1
	}
	if maxIter == 0 {
		maxIter = 1000
	}
	if learningRate == 0 {
		learningRate = 0.5
	}

	return &LogisticRegression{C: c, MaxIter: maxIter, LearningRate: learningRate, Tolerance: 1e-6}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit learns the weights. y holds 1 for the positive class and 0 otherwise. It returns the number of
// iterations run.
func (m *LogisticRegression) Fit(x []Features, y []float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%d samples, %d labels", len(x), len(y))
	}
	if m.C <= 0 {
		return 0, errors.Wrapf(ErrRegularization, "C=%v", m.C)
	}

	// dense copy indexed by sorted feature names
	index := make(map[string]int)
	for _, vec := range x {
		for k := range vec {
			index[k] = 0
		}
	}
	names := make([]string, 0, len(index))
	for k := range index {
		names = append(names, k)
	}
	sort.Strings(names)
	for i, k := range names {
		index[k] = i
	}
	type entry struct {
		col int
		val float64
	}
	rows := make([][]entry, len(x))
	for i, vec := range x {
		for k, v := range vec {
			rows[i] = append(rows[i], entry{col: index[k], val: v})
		}
	}

	n := float64(len(x))
	w := make([]float64, len(names))
	grad := make([]float64, len(names))
	bias := 0.0
	iter := 0
	for iter < m.MaxIter {
		iter++
		for j := range grad {
			grad[j] = w[j] / (m.C * n)
		}
		gradBias := 0.0
		for i, row := range rows {
			z := bias
			for _, e := range row {
				z += w[e.col] * e.val
			}
			diff := (sigmoid(z) - y[i]) / n
			for _, e := range row {
				grad[e.col] += diff * e.val
			}
			gradBias += diff
		}

		maxGrad := math.Abs(gradBias)
		bias -= m.LearningRate * gradBias
		for j := range w {
			maxGrad = math.Max(maxGrad, math.Abs(grad[j]))
			w[j] -= m.LearningRate * grad[j]
		}
		if maxGrad < m.Tolerance {
			break
		}
	}

	m.Bias = bias
	m.Weights = make(map[string]float64, len(names))
	for j, k := range names {
		m.Weights[k] = w[j]
	}

	return iter, nil
}

// Probability returns the probability of the positive class for every vector.
func (m *LogisticRegression) Probability(x []Features) ([]float64, error) {
	if m.Weights == nil {
		return nil, errors.Wrap(ErrNotFitted, "logistic regression")
	}
	res := make([]float64, len(x))
	for i, vec := range x {
		z := m.Bias
		for k, v := range vec {
			z += m.Weights[k] * v
		}
		res[i] = sigmoid(z)
	}

	return res, nil
}
