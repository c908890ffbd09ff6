// Package config loads the settings of a hatstall run from YAML.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/askiada/hatstall/pkg/learn"
	"github.com/askiada/hatstall/pkg/persona"
	"github.com/askiada/hatstall/pkg/pipeline"
)

var (
	ErrChunkSize      = errors.New("preparation.chunk_size must be greater than 0")
	ErrTestSize       = errors.New("preparation.test_size must be in (0, 1)")
	ErrDataPath       = errors.New("data path must be set")
	ErrNoStages       = errors.New("at least one stage must be configured")
	ErrModelPathUnset = errors.New("model.path must be set to predict without training")
)

// Config holds the settings of a run.
type Config struct {
	Labels      persona.LabelSet  `yaml:"labels"`
	Data        DataConfig        `yaml:"data"`
	Preparation PreparationConfig `yaml:"preparation"`
	Model       ModelConfig       `yaml:"model"`
	Stages      []string          `yaml:"stages"`
	Results     ResultsConfig     `yaml:"results"`
	Graph       GraphConfig       `yaml:"graph"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DataConfig locates the input files.
type DataConfig struct {
	Training   string `yaml:"training"`
	Prediction string `yaml:"prediction"`
}

// PreparationConfig tunes the preparation pipes.
type PreparationConfig struct {
	ChunkSize int     `yaml:"chunk_size"`
	TestSize  float64 `yaml:"test_size"`
	Seed      int64   `yaml:"seed"`
}

// ModelConfig configures the classifier. Path, when set, is where the trained model is saved and loaded.
type ModelConfig struct {
	Path          string `yaml:"path"`
	learn.Options `yaml:",inline"`
}

// ResultsConfig enables the SQLite results store when Path is set.
type ResultsConfig struct {
	Path string `yaml:"path"`
}

// GraphConfig enables the DOT rendering of the system when Path is set.
type GraphConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings the classifier was designed with.
func Default() *Config {
	kinds := pipeline.Kinds()
	stages := make([]string, len(kinds))
	for i, k := range kinds {
		stages[i] = string(k)
	}

	return &Config{
		Labels: persona.DefaultLabels,
		Data: DataConfig{
			Training:   "data/mbti_1.csv",
			Prediction: "data/for_pred.csv",
		},
		Preparation: PreparationConfig{
			ChunkSize: 10,
			TestSize:  0.3,
			Seed:      123,
		},
		Model:   ModelConfig{Options: learn.DefaultOptions()},
		Stages:  stages,
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load overlays the YAML file at path on the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// Validate checks the settings without touching the filesystem.
func (c *Config) Validate() error {
	if err := c.Labels.Validate(); err != nil {
		return errors.Wrap(err, "labels")
	}
	if c.Preparation.ChunkSize <= 0 {
		return ErrChunkSize
	}
	if c.Preparation.TestSize <= 0 || c.Preparation.TestSize >= 1 {
		return ErrTestSize
	}
	if len(c.Stages) == 0 {
		return ErrNoStages
	}
	seen := make(map[string]struct{}, len(c.Stages))
	last := -1
	for _, name := range c.Stages {
		pos := slices.Index(pipeline.Kinds(), pipeline.Kind(name))
		if pos < 0 {
			return &pipeline.UnknownStageError{Nickname: name}
		}
		if _, ok := seen[name]; ok {
			return errors.Wrapf(pipeline.ErrDuplicateStage, "stages: %s", name)
		}
		seen[name] = struct{}{}
		if pos < last {
			return errors.Wrapf(pipeline.ErrStageOrder, "stages: %s after %s", name, pipeline.Kinds()[last])
		}
		last = pos
	}
	if c.HasStage(pipeline.KindPreparation) && c.Data.Training == "" {
		return errors.Wrap(ErrDataPath, "data.training")
	}
	if c.HasStage(pipeline.KindPrediction) && c.Data.Prediction == "" {
		return errors.Wrap(ErrDataPath, "data.prediction")
	}
	if _, err := learn.NewTfidfVectorizer(c.Model.MinDF, c.Model.MaxDF, c.Model.TokenPattern); err != nil {
		return errors.Wrap(err, "model")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}

	return nil
}

// HasStage reports whether kind is configured.
func (c *Config) HasStage(kind pipeline.Kind) bool {
	return slices.Contains(c.Stages, string(kind))
}

// ValidatePredict checks the extra settings of a prediction only run.
func (c *Config) ValidatePredict() error {
	if c.Model.Path == "" {
		return ErrModelPathUnset
	}
	if c.Data.Prediction == "" {
		return errors.Wrap(ErrDataPath, "data.prediction")
	}

	return nil
}
