package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/hatstall/internal/config"
	"github.com/askiada/hatstall/internal/results"
	"github.com/askiada/hatstall/internal/system"
	"github.com/askiada/hatstall/pkg/pipeline/drawer"
	"github.com/askiada/hatstall/pkg/pipeline/measure"
	"github.com/askiada/hatstall/pkg/pipeline/model"
)

func (a *app) runCmd() *cobra.Command {
	var mode, graph string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured stages",
		Long: `Runs the configured stages in order.

In train_test mode the preparation payload is shared with modelling and evaluation,
and the fitted model is handed to prediction. In predict mode only the prediction
stage runs, with the model saved at model.path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := system.ParseMode(mode)
			if err != nil {
				return err
			}
			if graph == "" {
				graph = a.cfg.Graph.Path
			}

			opts := system.Options{Logger: a.logger, Out: cmd.OutOrStdout()}
			if a.cfg.Results.Path != "" {
				store, err := results.New(a.cfg.Results.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Results = store
			}
			var msr *measure.DefaultMeasure
			if graph != "" {
				msr = measure.NewDefaultMeasure()
				opts.Hooks = []model.PipelineOption{
					measure.PipelineMeasure(msr),
					drawer.PipelineDrawer(drawer.NewDOTDrawer(graph), msr),
				}
			}

			sys, err := system.Build(a.cfg, m, opts)
			if err != nil {
				return err
			}
			a.logger.Info("starting run", zap.String("mode", string(m)), zap.Strings("stages", kindNames(sys)))

			err = sys.Run(cmd.Context())
			if err != nil {
				return err
			}
			if msr != nil {
				for _, f := range measure.Slowest(msr, 3) {
					a.logger.Info("slowest step", zap.String("step", f.Step), zap.Duration("average", f.Average))
				}
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(system.ModeTrainTest),
		fmt.Sprintf("run mode, one of [%s, %s]", system.ModeTrainTest, system.ModePredict))
	cmd.Flags().StringVar(&graph, "graph", "", "write a DOT rendering of the run to this file")

	return cmd
}

func (a *app) stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Print the configured stages in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.cfg.Stages, " -> "))
			return err
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force && fileExists(a.configPath) {
				return errors.Errorf("%s already exists, use --force to overwrite it", a.configPath)
			}
			if err := config.Default().Save(a.configPath); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func (a *app) resultsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the latest stored evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Results.Path == "" {
				return errors.New("results.path is not configured")
			}
			store, err := results.New(a.cfg.Results.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			evaluations, err := store.Evaluations(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range evaluations {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "#%d %s score=%.4f f1=%v\n", e.ID, e.CreatedAt, e.Report.Score, e.Report.F1)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of evaluations to list")

	return cmd
}
