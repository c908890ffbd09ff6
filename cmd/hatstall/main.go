// Command hatstall trains the introvert/extrovert classifier and labels new posts.
//
// Usage:
//
//	hatstall run --mode train_test   # prepare, fit, evaluate and predict
//	hatstall run --mode predict      # label the prediction file with a saved model
//	hatstall stages                  # print the configured stages
//	hatstall init                    # write the default configuration
//	hatstall results                 # list stored evaluations
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askiada/hatstall/internal/config"
)

type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hatstall",
		Short: "Sort people into introverts and extroverts from what they post",
		Long: `hatstall learns a binary personality classifier from a labelled export of posts.

A run chains four stages: preparation, modelling, evaluation and prediction.
The stages to run and their settings are read from a YAML configuration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// init replaces the file, which may not even parse.
			return a.setup(cmd.Name() != "init")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "hatstall.yaml", "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.runCmd(), a.stagesCmd(), a.initCmd(), a.resultsCmd())

	return root
}

// setup loads the configuration, or takes the defaults when load is false, and builds the logger.
func (a *app) setup(load bool) error {
	cfg := config.Default()
	if load {
		var err error
		cfg, err = config.Load(a.configPath)
		if err != nil {
			return err
		}
	}
	a.cfg = cfg

	zapCfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return errors.Wrap(err, "logging.level")
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zapCfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
