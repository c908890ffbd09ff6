package learn

import (
	"github.com/pkg/errors"
)

// MinMaxScaler maps every feature to [0, 1] using the range seen during Fit.
// A constant feature is only shifted.
type MinMaxScaler struct {
	Min map[string]float64 `json:"min"`
	Max map[string]float64 `json:"max"`
}

func (s *MinMaxScaler) Fit(x []Features) error {
	if len(x) == 0 {
		return ErrEmptyDataset
	}
	s.Min = make(map[string]float64)
	s.Max = make(map[string]float64)
	for _, vec := range x {
		for k, v := range vec {
			if lo, ok := s.Min[k]; !ok || v < lo {
				s.Min[k] = v
			}
			if hi, ok := s.Max[k]; !ok || v > hi {
				s.Max[k] = v
			}
		}
	}

	return nil
}

func (s *MinMaxScaler) Transform(x []Features) ([]Features, error) {
	if s.Min == nil {
		return nil, errors.Wrap(ErrNotFitted, "min-max scaler")
	}
	res := make([]Features, len(x))
	for i, vec := range x {
		scaled := make(Features, len(vec))
		for k, v := range vec {
			lo, ok := s.Min[k]
			if !ok {
				continue
			}
			scale := s.Max[k] - lo
			if scale == 0 {
				scale = 1
			}
			scaled[k] = (v - lo) / scale
		}
		res[i] = scaled
	}

	return res, nil
}

// Scaled chains a Transformer and a MinMaxScaler.
type Scaled struct {
	Transformer
	Scaler *MinMaxScaler
}

func (s Scaled) Fit(x [][]string) error {
	err := s.Transformer.Fit(x)
	if err != nil {
		return err
	}
	feats, err := s.Transformer.Transform(x)
	if err != nil {
		return err
	}

	return s.Scaler.Fit(feats)
}

func (s Scaled) Transform(x [][]string) ([]Features, error) {
	feats, err := s.Transformer.Transform(x)
	if err != nil {
		return nil, err
	}

	return s.Scaler.Transform(feats)
}
