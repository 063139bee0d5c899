package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/internal/dataset"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

type predictFlags struct {
	modelPath  string
	xPath      string
	out        string
	components int
	all        bool
}

func newPredictCmd(a *app) *cobra.Command {
	f := &predictFlags{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict responses for new CSV data",
		Long: `Predict applies a fitted model to new predictors and writes the responses in their
original units. With --all, one block of columns is written per component count.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPredict(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.modelPath, "model", "m", "model.json", "Model file written by fit")
	fs.StringVar(&f.xPath, "x", "", "CSV file with the predictors")
	fs.StringVarP(&f.out, "out", "o", "", "Output CSV file (default stdout)")
	fs.IntVarP(&f.components, "components", "a", 0, "Number of components to use (default all)")
	fs.BoolVar(&f.all, "all", false, "Write predictions for every component count")
	cmd.MarkFlagsMutuallyExclusive("components", "all")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}

func (a *app) runPredict(cmd *cobra.Command, f *predictFlags) error {
	b, err := loadBundle(f.modelPath)
	if err != nil {
		return err
	}
	xt, err := dataset.ReadFile(f.xPath, a.csvOptions())
	if err != nil {
		return err
	}

	total := b.Model.NComponents()
	a.logger.Debug("Predicting",
		log.SamplesKey, xt.Data.RawMatrix().Rows,
		log.FeaturesKey, b.Model.NFeatures(),
		log.ComponentsKey, total,
	)

	preds, err := b.predictRaw(xt.Data)
	if err != nil {
		return err
	}

	var (
		out    *mat.Dense
		header []string
	)
	switch {
	case f.all:
		out, header = stackPredictions(preds, b.YNames)
	default:
		n := total
		if f.components != 0 {
			n = f.components
		}
		if n < 1 || n > total {
			return errors.Newf("--components must be in [1, %d], got %d", total, n)
		}
		out, header = preds[n-1], b.YNames
	}

	if !a.cfg.Data.Header {
		header = nil
	}
	if f.out == "" {
		return dataset.Write(cmd.OutOrStdout(), header, out, a.csvOptions())
	}
	return dataset.WriteFile(f.out, header, out, a.csvOptions())
}

// stackPredictions concatenates the per-truncation predictions column-wise. Columns are
// named a<components>_<target>.
func stackPredictions(preds []*mat.Dense, names []string) (*mat.Dense, []string) {
	rows, m := preds[0].Dims()
	out := mat.NewDense(rows, m*len(preds), nil)
	header := make([]string, 0, m*len(preds))
	for i, p := range preds {
		out.Slice(0, rows, i*m, (i+1)*m).(*mat.Dense).Copy(p)
		for _, name := range names {
			header = append(header, fmt.Sprintf("a%d_%s", i+1, name))
		}
	}
	return out, header
}
