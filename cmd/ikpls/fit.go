package main

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/ikpls/internal/dataset"
	"github.com/YuminosukeSato/ikpls/internal/telemetry"
	"github.com/YuminosukeSato/ikpls/pkg/log"
	"github.com/YuminosukeSato/ikpls/pls"
)

type fitFlags struct {
	xPath, yPath string
	out          string
	components   int
	algorithm    int
	solver       string
}

func newFitCmd(a *app) *cobra.Command {
	f := &fitFlags{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a model on CSV data and write it as JSON",
		Long: `Fit scales X and Y column-wise as configured, fits an IKPLS model and writes the
model, the scalers and the column names to a single JSON file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("components") {
				a.cfg.Fit.Components = f.components
			}
			if cmd.Flags().Changed("algorithm") {
				a.cfg.Fit.Algorithm = f.algorithm
			}
			if cmd.Flags().Changed("solver") {
				a.cfg.Fit.EigenSolver = f.solver
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runFit(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.xPath, "x", "", "CSV file with the predictors (N×K)")
	fs.StringVar(&f.yPath, "y", "", "CSV file with the responses (N×M)")
	fs.StringVarP(&f.out, "out", "o", "model.json", "Output model file")
	fs.IntVarP(&f.components, "components", "a", 0, "Number of components; overrides the config file")
	fs.IntVar(&f.algorithm, "algorithm", 0, "IKPLS engine (1|2); overrides the config file")
	fs.StringVar(&f.solver, "solver", "", "Weight solver (eigen|power); overrides the config file")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func (a *app) runFit(cmd *cobra.Command, f *fitFlags) error {
	opts := a.csvOptions()
	xt, err := dataset.ReadFile(f.xPath, opts)
	if err != nil {
		return err
	}
	yt, err := dataset.ReadFile(f.yPath, opts)
	if err != nil {
		return err
	}

	xScaler, yScaler := a.cfg.XScaler(), a.cfg.YScaler()
	xs, err := xScaler.FitTransform(xt.Data)
	if err != nil {
		return errors.Wrap(err, "failed to scale X")
	}
	ys, err := yScaler.FitTransform(yt.Data)
	if err != nil {
		return errors.Wrap(err, "failed to scale Y")
	}

	metrics := telemetry.NewFitMetrics()
	popts := append(a.cfg.PLSOptions(), pls.WithObserver(metrics))
	est := pls.New(popts...)

	start := time.Now()
	if err := est.Fit(xs, ys, a.cfg.Fit.Components); err != nil {
		return err
	}
	m := est.Model()

	a.logger.Info("Model fitted",
		log.AlgorithmKey, int(m.Algorithm()),
		log.ComponentsKey, m.NComponents(),
		log.DegenerateFromKey, m.DegenerateFrom(),
		log.EigenSolverKey, a.cfg.Fit.EigenSolver,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	if m.DegenerateFrom() >= 0 {
		a.logger.Warn("Model has degenerate components",
			log.DegenerateFromKey, m.DegenerateFrom(),
			log.ComponentsKey, m.ValidComponents(),
		)
	}

	_, k := xs.Dims()
	_, mt := ys.Dims()
	b := &bundle{
		XNames:  dataset.Names(xt.Header, "x", k),
		YNames:  dataset.Names(yt.Header, "y", mt),
		XScaler: xScaler,
		YScaler: yScaler,
		Model:   m,
	}
	if err := b.save(f.out); err != nil {
		return err
	}

	if a.cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "fitted %s with %d components (%d valid) -> %s\n",
		m.Algorithm(), m.NComponents(), m.ValidComponents(), f.out)
	return nil
}
