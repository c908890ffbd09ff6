package learn

import "strings"

// Features is a sparse feature vector keyed by feature name.
type Features map[string]float64

// Transformer learns a mapping from the posts of each record to Features.
type Transformer interface {
	Fit(x [][]string) error
	Transform(x [][]string) ([]Features, error)
}

// PostsJoiner joins the posts of a record with a space.
type PostsJoiner struct{}

func (PostsJoiner) Join(posts []string) string {
	return strings.Join(posts, " ")
}

// JoinAll joins the posts of every record.
func (j PostsJoiner) JoinAll(x [][]string) []string {
	res := make([]string, len(x))
	for i, posts := range x {
		res[i] = j.Join(posts)
	}
	return res
}
