package learn

import "github.com/pkg/errors"

var (
	ErrNotFitted      = errors.New("model is not fitted")
	ErrEmptyDataset   = errors.New("dataset is empty")
	ErrLengthMismatch = errors.New("samples and labels have different lengths")
	ErrSingleClass    = errors.New("training labels contain a single class")
	ErrDocumentFreq   = errors.New("min_df must be lower than max_df and both in [0, 1]")
	ErrRegularization = errors.New("regularization strength must be positive")
)
