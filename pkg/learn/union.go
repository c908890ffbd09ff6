package learn

import (
	"maps"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// FeatureUnion fits and applies its branches concurrently and merges their vectors in branch order.
type FeatureUnion struct {
	Branches []Transformer
}

func (u *FeatureUnion) Fit(x [][]string) error {
	var errGrp errgroup.Group
	for i, branch := range u.Branches {
		errGrp.Go(func() error {
			return errors.Wrapf(branch.Fit(x), "unable to fit branch %d", i)
		})
	}

	return errGrp.Wait()
}

func (u *FeatureUnion) Transform(x [][]string) ([]Features, error) {
	outputs := make([][]Features, len(u.Branches))
	var errGrp errgroup.Group
	for i, branch := range u.Branches {
		errGrp.Go(func() error {
			feats, err := branch.Transform(x)
			if err != nil {
				return errors.Wrapf(err, "unable to transform branch %d", i)
			}
			outputs[i] = feats
			return nil
		})
	}
	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	res := make([]Features, len(x))
	for i := range res {
		res[i] = make(Features)
		for _, out := range outputs {
			maps.Copy(res[i], out[i])
		}
	}

	return res, nil
}

var _ Transformer = (*FeatureUnion)(nil)
