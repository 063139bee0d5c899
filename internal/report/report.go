// Package report renders per-component evaluation results.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ikpls/pls"
)

// WriteTable writes scores as an aligned text table, marking the component count with the
// lowest RMSE.
func WriteTable(w io.Writer, scores []pls.ComponentScore) error {
	best := pls.BestComponents(scores)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "components\trmse\tr2\t")
	for _, s := range scores {
		mark := ""
		if s.Components == best {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%.6g\t%.6f\t%s\n", s.Components, s.RMSE, s.R2, mark)
	}
	return errors.Wrap(tw.Flush(), "failed to write score table")
}

// WriteYAML writes scores as a YAML list.
func WriteYAML(w io.Writer, scores []pls.ComponentScore) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scores); err != nil {
		return errors.Wrap(err, "failed to encode scores")
	}
	return errors.Wrap(enc.Close(), "failed to encode scores")
}

// SaveRMSEPlot draws RMSE and R² against the component count and saves the chart to path.
// The image format follows the file extension (png, svg, pdf, ...).
func SaveRMSEPlot(path, title string, scores []pls.ComponentScore) error {
	if len(scores) == 0 {
		return errors.New("no scores to plot")
	}

	rmse := make(plotter.XYs, len(scores))
	r2 := make(plotter.XYs, len(scores))
	for i, s := range scores {
		rmse[i].X, rmse[i].Y = float64(s.Components), s.RMSE
		r2[i].X, r2[i].Y = float64(s.Components), s.R2
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Components"
	p.Y.Label.Text = "Score"
	p.Add(plotter.NewGrid())

	rmseLine, rmsePoints, err := plotter.NewLinePoints(rmse)
	if err != nil {
		return errors.Wrap(err, "failed to build RMSE line")
	}
	r2Line, err := plotter.NewLine(r2)
	if err != nil {
		return errors.Wrap(err, "failed to build R2 line")
	}
	r2Line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(rmseLine, rmsePoints, r2Line)
	p.Legend.Add("RMSE", rmseLine, rmsePoints)
	p.Legend.Add("R2", r2Line)
	p.Legend.Top = true

	width := vg.Length(4+0.25*float64(len(scores))) * vg.Inch
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", filepath.Base(path))
	}
	return nil
}

// PlotPath derives the chart path for a score report: scores.yaml → scores.png.
func PlotPath(reportPath string) string {
	ext := filepath.Ext(reportPath)
	return strings.TrimSuffix(reportPath, ext) + ".png"
}
