package pipes

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

type trainTestSplitter struct {
	pipeline.Base
	testSize float64
	seed     int64
	logger   *zap.Logger
}

func (s *trainTestSplitter) Name() string { return "TrainTestSplitter" }

func (s *trainTestSplitter) Run(_ context.Context) error {
	c, err := container(s.Payload)
	if err != nil {
		return err
	}
	train, test, err := c.Split(s.testSize, rand.New(rand.NewSource(s.seed))) //nolint:gosec
	if err != nil {
		return err
	}
	s.logger.Info("train split", countFields(train)...)
	s.logger.Info("test split", countFields(test)...)

	pipeline.Set(s.Payload, pipeline.TrainTestKey, pipeline.TrainTest{
		TrainX: train.Posts(),
		TrainY: train.Personalities(),
		TestX:  test.Posts(),
		TestY:  test.Personalities(),
	})

	return nil
}

func countFields(c *persona.Collection) []zap.Field {
	counts := c.Counts()
	fields := []zap.Field{zap.Int("records", c.Len())}
	for _, label := range c.Labels().Labels() {
		fields = append(fields, zap.Int(string(label), counts[label]))
	}
	return fields
}

// TrainTestSplitter splits the prepared records into a stratified train and test split. The split is
// reproducible for a given seed.
func TrainTestSplitter(testSize float64, seed int64, logger *zap.Logger) pipeline.Factory {
	return func(payload *pipeline.Payload, nickname string) pipeline.Pipe {
		return &trainTestSplitter{
			Base:     pipeline.Base{Payload: payload, Nickname: nickname},
			testSize: testSize,
			seed:     seed,
			logger:   orNop(logger),
		}
	}
}
