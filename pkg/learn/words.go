package learn

import (
	"strings"
)

const meanWordsFeature = "mean_words"

// AverageWordCalculator computes the mean number of whitespace separated words per post.
type AverageWordCalculator struct{}

func (AverageWordCalculator) Fit([][]string) error { return nil }

func (AverageWordCalculator) Transform(x [][]string) ([]Features, error) {
	res := make([]Features, len(x))
	for i, posts := range x {
		mean := 0.0
		if len(posts) > 0 {
			words := 0
			for _, post := range posts {
				words += len(strings.Fields(post))
			}
			mean = float64(words) / float64(len(posts))
		}
		res[i] = Features{meanWordsFeature: mean}
	}

	return res, nil
}

var _ Transformer = AverageWordCalculator{}
