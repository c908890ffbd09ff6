package learn

import (
	"math"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultTokenPattern keeps words of two characters or more, with the leading "$" of placeholder tokens.
const DefaultTokenPattern = `\$?\b\w\w+\b`

const tfidfPrefix = "tfidf:"

// TfidfVectorizer weights the terms of the joined posts of a record by their inverse document frequency.
// Vectors are L2 normalised.
type TfidfVectorizer struct {
	// MinDF and MaxDF bound the share of records a term must appear in to be kept.
	MinDF, MaxDF float64
	Pattern      *regexp.Regexp

	joiner PostsJoiner
	idf    map[string]float64
}

// NewTfidfVectorizer checks the document frequency bounds. An empty pattern selects DefaultTokenPattern.
func NewTfidfVectorizer(minDF, maxDF float64, pattern string) (*TfidfVectorizer, error) {
	if minDF < 0 || maxDF > 1 || minDF > maxDF {
		return nil, errors.Wrapf(ErrDocumentFreq, "min_df=%v max_df=%v", minDF, maxDF)
	}
	if pattern == "" {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "unable to compile token pattern")
	}

	return &TfidfVectorizer{MinDF: minDF, MaxDF: maxDF, Pattern: re}, nil
}

func (v *TfidfVectorizer) tokens(posts []string) []string {
	return v.Pattern.FindAllString(strings.ToLower(v.joiner.Join(posts)), -1)
}

// Fit learns the vocabulary and the smoothed idf of every kept term.
func (v *TfidfVectorizer) Fit(x [][]string) error {
	if len(x) == 0 {
		return ErrEmptyDataset
	}

	df := make(map[string]int)
	for _, posts := range x {
		seen := make(map[string]struct{})
		for _, tok := range v.tokens(posts) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(x))
	minCount, maxCount := v.MinDF*n, v.MaxDF*n
	v.idf = make(map[string]float64, len(df))
	for term, count := range df {
		c := float64(count)
		if c < minCount || c > maxCount {
			continue
		}
		v.idf[term] = math.Log((1+n)/(1+c)) + 1
	}

	return nil
}

// Transform returns one vector per record. Terms outside the vocabulary are ignored.
func (v *TfidfVectorizer) Transform(x [][]string) ([]Features, error) {
	if v.idf == nil {
		return nil, errors.Wrap(ErrNotFitted, "tfidf vectorizer")
	}

	res := make([]Features, len(x))
	for i, posts := range x {
		tf := make(map[string]float64)
		for _, tok := range v.tokens(posts) {
			if _, ok := v.idf[tok]; ok {
				tf[tok]++
			}
		}

		vec := make(Features, len(tf))
		norm := 0.0
		for term, count := range tf {
			w := count * v.idf[term]
			vec[tfidfPrefix+term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k] /= norm
			}
		}
		res[i] = vec
	}

	return res, nil
}

// Vocabulary returns the number of kept terms.
func (v *TfidfVectorizer) Vocabulary() int {
	return len(v.idf)
}

var _ Transformer = (*TfidfVectorizer)(nil)
