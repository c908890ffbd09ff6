package learn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/hatstall/pkg/persona"
)

// Accuracy is the share of predictions equal to the truth.
func Accuracy(truth, pred []persona.Label) (float64, error) {
	if len(truth) != len(pred) {
		return 0, errors.Wrapf(ErrLengthMismatch, "%d truths, %d predictions", len(truth), len(pred))
	}
	if len(truth) == 0 {
		return 0, ErrEmptyDataset
	}
	ok := 0
	for i := range truth {
		if truth[i] == pred[i] {
			ok++
		}
	}

	return float64(ok) / float64(len(truth)), nil
}

// Confusion counts predictions per label: row i is the truth labels[i], column j the prediction labels[j].
// Pairs with a label outside labels are ignored.
func Confusion(truth, pred []persona.Label, labels []persona.Label) ([][]int, error) {
	if len(truth) != len(pred) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d truths, %d predictions", len(truth), len(pred))
	}
	pos := make(map[persona.Label]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	res := make([][]int, len(labels))
	for i := range res {
		res[i] = make([]int, len(labels))
	}
	for i := range truth {
		row, ok := pos[truth[i]]
		if !ok {
			continue
		}
		col, ok := pos[pred[i]]
		if !ok {
			continue
		}
		res[row][col]++
	}

	return res, nil
}

// F1 returns the F1 score of every label, computed from a confusion matrix. A label never predicted
// nor present scores 0.
func F1(confusion [][]int) []float64 {
	res := make([]float64, len(confusion))
	for i := range confusion {
		tp := confusion[i][i]
		fn, fp := 0, 0
		for j := range confusion {
			if j == i {
				continue
			}
			fn += confusion[i][j]
			fp += confusion[j][i]
		}
		if denom := 2*tp + fp + fn; denom > 0 {
			res[i] = 2 * float64(tp) / float64(denom)
		}
	}

	return res
}

// Report is the evaluation of a model on the test split.
type Report struct {
	Labels    []persona.Label
	Score     float64
	F1        []float64
	Confusion [][]int
}

// NewReport evaluates pred against truth for labels.
func NewReport(truth, pred []persona.Label, labels []persona.Label) (Report, error) {
	score, err := Accuracy(truth, pred)
	if err != nil {
		return Report{}, err
	}
	confusion, err := Confusion(truth, pred, labels)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Labels:    append([]persona.Label(nil), labels...),
		Score:     score,
		F1:        F1(confusion),
		Confusion: confusion,
	}, nil
}

// String renders the score, the F1 of every label and the confusion matrix on separate lines.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.4f\n", r.Score)

	f1 := make([]string, len(r.F1))
	for i, v := range r.F1 {
		f1[i] = fmt.Sprintf("%.4f", v)
	}
	fmt.Fprintf(&sb, "[%s]\n", strings.Join(f1, " "))

	for _, row := range r.Confusion {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(&sb, "[%s]\n", strings.Join(cells, " "))
	}

	return sb.String()
}
