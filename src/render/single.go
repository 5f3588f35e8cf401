package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jusPats753/QACode/src/compose"
	"github.com/jusPats753/QACode/src/config"
)

// SinglePlotter draws exactly one run's distribution as a filled histogram.
type SinglePlotter struct {
	// Width and Height of the saved plot; zero values fall back to 8x6 inches.
	Width, Height vg.Length
	LogY          bool
}

// Render implements compose.Renderer. It expects a single series; extra
// series are rejected rather than silently composited.
func (p *SinglePlotter) Render(spec compose.PlotSpec, series []compose.Series, outPath string) error {
	if len(series) != 1 {
		return fmt.Errorf("single plot wants exactly 1 series, got %d", len(series))
	}
	s := series[0]
	if len(s.Centers) == 0 {
		return fmt.Errorf("empty series for %s", outPath)
	}

	plt := plot.New()
	plt.Title.Text = spec.Title
	plt.X.Label.Text = spec.XLabel
	plt.Y.Label.Text = spec.YLabel

	binWidth := 1.0
	if len(s.Centers) > 1 {
		binWidth = s.Centers[1] - s.Centers[0]
	}
	bins := make([]plotter.HistogramBin, len(s.Centers))
	for i, c := range s.Centers {
		bins[i] = plotter.HistogramBin{Min: c - binWidth/2, Max: c + binWidth/2, Weight: s.Values[i]}
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     binWidth,
		LineStyle: plotter.DefaultLineStyle,
		LogY:      p.LogY,
	}
	if col, err := config.ParseHexColor(s.Color); err == nil {
		hist.FillColor = col
	}
	if p.LogY {
		plt.Y.Scale = plot.LogScale{}
		plt.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	plt.Add(hist)

	w, h := p.Width, p.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 6 * vg.Inch
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := plt.Save(w, h, outPath); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
