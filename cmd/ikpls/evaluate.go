package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/internal/dataset"
	"github.com/YuminosukeSato/ikpls/internal/report"
	"github.com/YuminosukeSato/ikpls/metrics"
	"github.com/YuminosukeSato/ikpls/pkg/log"
	"github.com/YuminosukeSato/ikpls/pls"
)

type evaluateFlags struct {
	modelPath    string
	xPath, yPath string
	reportPath   string
	plotPath     string
	noPlot       bool
}

func newEvaluateCmd(a *app) *cobra.Command {
	f := &evaluateFlags{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a model on held-out data for every component count",
		Long: `Evaluate predicts the held-out responses with 1..A components and reports RMSE (in the
original units) and R² for each count. The best count by RMSE is marked with '*'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEvaluate(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.modelPath, "model", "m", "model.json", "Model file written by fit")
	fs.StringVar(&f.xPath, "x", "", "CSV file with the predictors")
	fs.StringVar(&f.yPath, "y", "", "CSV file with the observed responses")
	fs.StringVar(&f.reportPath, "report", "", "Write the scores as YAML to this file")
	fs.StringVar(&f.plotPath, "plot", "", "Save an RMSE/R² chart (png, svg or pdf) to this file (default next to --report)")
	fs.BoolVar(&f.noPlot, "no-plot", false, "Do not save a chart")
	cmd.MarkFlagsMutuallyExclusive("plot", "no-plot")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, f *evaluateFlags) error {
	b, err := loadBundle(f.modelPath)
	if err != nil {
		return err
	}
	opts := a.csvOptions()
	xt, err := dataset.ReadFile(f.xPath, opts)
	if err != nil {
		return err
	}
	yt, err := dataset.ReadFile(f.yPath, opts)
	if err != nil {
		return err
	}

	scores, err := scoreRaw(b, xt.Data, yt.Data)
	if err != nil {
		return err
	}

	best := pls.BestComponents(scores)
	a.logger.Info("Evaluation completed",
		log.PhaseKey, log.PhaseValidation,
		log.SamplesKey, yt.Data.RawMatrix().Rows,
		log.ComponentsKey, best,
		log.RMSEKey, scores[best-1].RMSE,
		log.R2ScoreKey, scores[best-1].R2,
	)

	if err := report.WriteTable(cmd.OutOrStdout(), scores); err != nil {
		return err
	}
	if f.reportPath != "" {
		out, err := os.Create(f.reportPath)
		if err != nil {
			return errors.Wrap(err, "failed to create report")
		}
		if err := report.WriteYAML(out, scores); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return errors.Wrap(err, "failed to close report")
		}
	}
	plotPath := f.plotPath
	if plotPath == "" && f.reportPath != "" {
		plotPath = report.PlotPath(f.reportPath)
	}
	if plotPath != "" && !f.noPlot {
		if err := report.SaveRMSEPlot(plotPath, "IKPLS "+b.Model.Algorithm().String(), scores); err != nil {
			return err
		}
	}
	return nil
}

// scoreRaw computes RMSE and R² in the original units of Y for every component count.
func scoreRaw(b *bundle, X, Y mat.Matrix) ([]pls.ComponentScore, error) {
	preds, err := b.predictRaw(X)
	if err != nil {
		return nil, err
	}
	scores := make([]pls.ComponentScore, len(preds))
	for i, p := range preds {
		rmse, err := metrics.RMSEMatrix(Y, p)
		if err != nil {
			return nil, err
		}
		r2, err := metrics.R2ScoreMatrix(Y, p)
		if err != nil {
			return nil, err
		}
		scores[i] = pls.ComponentScore{Components: i + 1, RMSE: rmse, R2: r2}
	}
	return scores, nil
}
