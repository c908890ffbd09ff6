package persona

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrChunkSize     = errors.New("chunk size must be greater than 0")
	ErrTestSize      = errors.New("test size must be in (0, 1)")
	ErrEmptyLabel    = errors.New("label name must be set")
	ErrAmbiguousCode = errors.New("labels must not share their first character")
)

// ValidationError is returned when a raw label code does not match any label of the set.
type ValidationError struct {
	Code   string
	Labels LabelSet
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("personality of %s (%s) or %s (%s) is expected, got %q",
		e.Labels.First.Code(), e.Labels.First, e.Labels.Second.Code(), e.Labels.Second, e.Code)
}

// InputTypeError is returned when posts are neither a delimited string nor a non-empty sequence.
type InputTypeError struct {
	Reason string
}

func (e *InputTypeError) Error() string {
	return "can't handle the posts input: " + e.Reason
}
