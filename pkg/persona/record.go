package persona

import (
	"strings"
	"unicode/utf8"
)

// PostDelimiter separates posts inside a raw export row.
const PostDelimiter = "|||"

// Label is a personality name, for example "Introvert".
type Label string

// Code returns the one character code of the label.
func (l Label) Code() string {
	return firstChar(string(l))
}

func (l Label) String() string {
	return string(l)
}

// LabelSet is the pair of labels the binary classifier separates.
type LabelSet struct {
	First  Label `yaml:"first"`
	Second Label `yaml:"second"`
}

// DefaultLabels is the introvert/extrovert split of the MBTI export.
var DefaultLabels = LabelSet{First: "Introvert", Second: "Extrovert"}

// Labels returns the labels in reporting order.
func (ls LabelSet) Labels() []Label {
	return []Label{ls.First, ls.Second}
}

// Validate checks that both labels are set and can be told apart by their code.
func (ls LabelSet) Validate() error {
	if ls.First == "" || ls.Second == "" {
		return ErrEmptyLabel
	}
	if ls.First.Code() == ls.Second.Code() {
		return ErrAmbiguousCode
	}
	return nil
}

// Parse maps a raw code to its label. Only the first character of code is compared, case-sensitively.
func (ls LabelSet) Parse(code string) (Label, error) {
	c := firstChar(code)
	switch {
	case c == "":
	case c == ls.First.Code():
		return ls.First, nil
	case c == ls.Second.Code():
		return ls.Second, nil
	}
	return "", &ValidationError{Code: code, Labels: ls}
}

// Record is one subject: a personality and their ordered posts.
type Record struct {
	personality Label
	Posts       []string
}

// NewRecord builds a record from an already split list of posts. The list is kept as is.
func (ls LabelSet) NewRecord(code string, posts []string) (*Record, error) {
	personality, err := ls.Parse(code)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, &InputTypeError{Reason: "empty posts sequence"}
	}
	return &Record{personality: personality, Posts: posts}, nil
}

// ParseRecord builds a record from a raw row where posts are joined by PostDelimiter.
func (ls LabelSet) ParseRecord(code, raw string) (*Record, error) {
	personality, err := ls.Parse(code)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(raw, PostDelimiter) {
		return nil, &InputTypeError{Reason: "raw posts are not delimited by " + PostDelimiter}
	}
	return &Record{personality: personality, Posts: strings.Split(raw, PostDelimiter)}, nil
}

// Personality returns the label the record was built with.
func (r *Record) Personality() Label {
	return r.personality
}

// Raw joins the posts back with PostDelimiter.
func (r *Record) Raw() string {
	return strings.Join(r.Posts, PostDelimiter)
}

// Prediction is the label predicted for a named subject.
type Prediction struct {
	Name  string
	Label Label
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}
