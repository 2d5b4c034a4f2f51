package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dacapoday/bpindex"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var header = []string{
	"order", "distribution", "records", "operations",
	"loaded_height", "loaded_leaves", "loaded_fill",
	"final_height", "final_internal", "final_leaves", "final_keys", "final_fill",
	"inserts", "deletes", "misses", "elapsed_ms", "verified",
}

// WriteCSV writes one row per result under a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, res := range results {
		cfg := res.Config
		row := []string{
			strconv.Itoa(cfg.Order),
			cfg.Distribution.String(),
			strconv.Itoa(cfg.Records),
			strconv.Itoa(cfg.Operations),
			strconv.Itoa(res.Loaded.Height),
			strconv.Itoa(res.Loaded.LeafNodes),
			strconv.FormatFloat(res.Loaded.LeafFill, 'f', 4, 64),
			strconv.Itoa(res.Final.Height),
			strconv.Itoa(res.Final.InternalNodes),
			strconv.Itoa(res.Final.LeafNodes),
			strconv.Itoa(res.Final.Keys),
			strconv.FormatFloat(res.Final.LeafFill, 'f', 4, 64),
			strconv.Itoa(res.Inserts),
			strconv.Itoa(res.Deletes),
			strconv.Itoa(res.Misses),
			strconv.FormatInt(res.Elapsed.Milliseconds(), 10),
			strconv.FormatBool(res.Verified),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Plot renders leaf fill against order, one line per distribution and phase,
// and saves it to path. The image format follows the extension of path.
func Plot(results []Result, path string) error {
	p := plot.New()
	p.Title.Text = "Leaf fill by order"
	p.X.Label.Text = "order"
	p.Y.Label.Text = "leaf fill"
	p.Y.Min, p.Y.Max = 0, 1

	var lines []any
	for _, dist := range []bpindex.Distribution{bpindex.Dense, bpindex.Sparse} {
		var loaded, final plotter.XYs
		for _, res := range results {
			if res.Config.Distribution != dist || res.Final.LeafNodes == 0 {
				continue
			}
			x := float64(res.Config.Order)
			loaded = append(loaded, plotter.XY{X: x, Y: res.Loaded.LeafFill})
			final = append(final, plotter.XY{X: x, Y: res.Final.LeafFill})
		}
		if len(loaded) == 0 {
			continue
		}
		lines = append(lines, dist.String()+" loaded", loaded, dist.String()+" final", final)
	}
	if len(lines) == 0 {
		return fmt.Errorf("experiment: nothing to plot")
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
