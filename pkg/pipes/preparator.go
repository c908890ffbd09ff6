package pipes

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

// preparator applies a collection transformation. It reuses persons_container when a previous
// preparator left one, otherwise it wraps persons, and writes both keys back.
type preparator struct {
	pipeline.Base
	name  string
	apply func(c *persona.Collection) error
}

func (p *preparator) Name() string { return p.name }

func (p *preparator) Run(_ context.Context) error {
	c, err := container(p.Payload)
	if err != nil {
		return err
	}
	err = p.apply(c)
	if err != nil {
		return err
	}
	pipeline.Set(p.Payload, pipeline.ContainerKey, c)
	pipeline.Set(p.Payload, pipeline.PersonsKey, c.Records)

	return nil
}

func container(payload *pipeline.Payload) (*persona.Collection, error) {
	if pipeline.Has(payload, pipeline.ContainerKey) {
		return pipeline.Get(payload, pipeline.ContainerKey)
	}
	persons, err := pipeline.Get(payload, pipeline.PersonsKey)
	if err != nil {
		return nil, err
	}
	labels := persona.DefaultLabels
	if pipeline.Has(payload, pipeline.LabelsKey) {
		labels, _ = pipeline.Get(payload, pipeline.LabelsKey)
	}

	return persona.NewCollection(labels, persons), nil
}

func newPreparator(name string, apply func(c *persona.Collection) error) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &preparator{
			Base:  pipeline.Base{Payload: payload, Nickname: nickname},
			name:  name,
			apply: apply,
		}
	}
}

// PostsSplitter cuts every record into records of chunkSize posts.
func PostsSplitter(chunkSize int, logger *zap.Logger) pipeline.Factory {
	logger = orNop(logger)
	return newPreparator("PostsSplitter", func(c *persona.Collection) error {
		ignored, err := c.SplitPosts(chunkSize)
		if err != nil {
			return err
		}
		if ignored != 0 {
			logger.Info("ignored texts because of too small chunks", zap.Int("ignored", ignored), zap.Int("chunk_size", chunkSize))
		}
		return nil
	})
}

// EvenlyDistributor balances the labels, see persona.Collection.EvenlyDistribute. rng may be nil.
func EvenlyDistributor(rng *rand.Rand, logger *zap.Logger) pipeline.Factory {
	logger = orNop(logger)
	return newPreparator("EvenlyDistributor", func(c *persona.Collection) error {
		truncated, err := c.EvenlyDistribute(rng)
		if err != nil {
			return err
		}
		if !truncated {
			logger.Info("both personalities already have an even distribution", zap.Int("records", c.Len()))
		}
		return nil
	})
}

// DigitReplacer masks tokens holding a digit.
func DigitReplacer() pipeline.Factory {
	return newPreparator("DigitReplacer", func(c *persona.Collection) error {
		c.ReplaceDigits()
		return nil
	})
}

// LinkReplacer masks www links.
func LinkReplacer() pipeline.Factory {
	return newPreparator("LinkReplacer", func(c *persona.Collection) error {
		c.ReplaceLinks()
		return nil
	})
}

// PersonalityCodeReplacer removes personality type codes.
func PersonalityCodeReplacer() pipeline.Factory {
	return newPreparator("PersonalityCodeReplacer", func(c *persona.Collection) error {
		c.ReplacePersonalityCodes()
		return nil
	})
}
