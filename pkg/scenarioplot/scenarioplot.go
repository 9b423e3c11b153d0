// Package scenarioplot renders the diagnostic PNGs for a generated
// scenario: the user series over schedule time and its sorted
// distribution.
package scenarioplot

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Save writes workload_timeseries_{name}.png and workload_sorted_{name}.png
// into dir. Its signature matches the scenario plot hook.
func Save(values []float64, dir, name string) error {
	if err := saveTimeseries(values, filepath.Join(dir, fmt.Sprintf("workload_timeseries_%s.png", name)), name); err != nil {
		return errors.Wrap(err, "timeseries plot")
	}
	if err := saveSorted(values, filepath.Join(dir, fmt.Sprintf("workload_sorted_%s.png", name)), name); err != nil {
		return errors.Wrap(err, "sorted plot")
	}
	return nil
}

func saveTimeseries(values []float64, file, name string) error {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Concurrent users over time (%s)", name)
	p.X.Label.Text = "Minute"
	p.Y.Label.Text = "Users"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(16*vg.Inch, 6*vg.Inch, file)
}

func saveSorted(values []float64, file, name string) error {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pts := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		if len(sorted) > 1 {
			pts[i].X = 100 * float64(i) / float64(len(sorted)-1)
		}
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Load distribution (%s)", name)
	p.X.Label.Text = "Percentile"
	p.Y.Label.Text = "Users"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(16*vg.Inch, 6*vg.Inch, file)
}
