// Package compose implements the run normalizer/composer: for an ordered run
// table it loads two histograms per run from the per-run store, optionally
// rescales by 1/(events*weight), optionally zeroes bins below a cut
// threshold, and hands styled series to a renderer. Per-run failures
// (missing store, missing histogram) only remove that run from the chart.
package compose

import (
	"fmt"
	"path/filepath"

	"github.com/jusPats753/QACode/src/config"
	"github.com/jusPats753/QACode/src/histstore"
)

// AuxHistName is the fixed event-count histogram fetched alongside every
// primary histogram. It is filled once per event at the source, so its entry
// count is the run's event count.
const AuxHistName = "hNClusters"

// Series is one styled run distribution ready for rendering.
type Series struct {
	Label   string
	Color   string // hex, from the run table
	Centers []float64
	Values  []float64
}

// PlotSpec is the chart-level text for a render call.
type PlotSpec struct {
	Title  string
	XLabel string
	YLabel string
}

// Renderer draws a finished set of series and persists the chart. The first
// series is the base plot, the rest are composited over it in order.
type Renderer interface {
	Render(spec PlotSpec, series []Series, outPath string) error
}

// StoreOpener resolves a run id to its histogram store.
type StoreOpener func(run string) (*histstore.Store, error)

// CutConfig enables zeroing bins whose center lies below Value, for the
// histogram names in Histograms.
type CutConfig struct {
	Value      float64
	Histograms map[string]bool
}

// NewCutConfig builds a CutConfig from a threshold and eligible names.
func NewCutConfig(value float64, names []string) *CutConfig {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return &CutConfig{Value: value, Histograms: set}
}

// Options controls the per-run transform steps.
type Options struct {
	Normalize bool
	Cut       *CutConfig
}

// Composer drives the per-run procedure over the configured run table.
type Composer struct {
	open     StoreOpener
	renderer Renderer
	runs     []config.RunConfig
	outDir   string
	opts     Options
}

// New builds a Composer. The run slice order is the processing and legend
// order.
func New(open StoreOpener, r Renderer, runs []config.RunConfig, outDir string, opts Options) *Composer {
	return &Composer{open: open, renderer: r, runs: runs, outDir: outDir, opts: opts}
}

// Normalize scales every bin of h by 1/(nEvents*weight). With nEvents <= 0
// or weight <= 0 it leaves h untouched and reports false; that is a benign
// no-op, not an error.
func Normalize(h *histstore.Histogram, nEvents int64, weight int) bool {
	if nEvents <= 0 || weight <= 0 {
		return false
	}
	h.Scale(1 / (float64(nEvents) * float64(weight)))
	return true
}

// ApplyCut zeroes every bin whose center is below threshold and returns how
// many bins were zeroed. Bins at or above threshold are untouched.
func ApplyCut(h *histstore.Histogram, threshold float64) int {
	zeroed := 0
	for i := 0; i < h.NBins; i++ {
		if h.Center(i) < threshold {
			h.SetContent(i, 0)
			zeroed++
		}
	}
	return zeroed
}

// loadRun performs steps 1-4 of the per-run procedure: resolve the store,
// fetch primary and auxiliary histograms, normalize, cut. A false return
// means the run contributes nothing; the reason has been logged.
//
// Normalization happens here, exactly once per freshly loaded histogram.
// Histogram.Scale compounds when repeated, so nothing below this point may
// scale again.
func (c *Composer) loadRun(rc config.RunConfig, histName string) (*histstore.Histogram, bool) {
	st, err := c.open(rc.ID)
	if err != nil {
		histstore.Warnf("run %s: %v; skipping", rc.ID, err)
		return nil, false
	}
	h, err := st.Histogram(histName)
	if err != nil {
		histstore.Warnf("run %s: %v; skipping", rc.ID, err)
		return nil, false
	}
	aux, err := st.Histogram(AuxHistName)
	if err != nil {
		histstore.Warnf("run %s: %v; skipping", rc.ID, err)
		return nil, false
	}
	if c.opts.Normalize {
		nEvents := aux.Entries()
		if Normalize(h, nEvents, rc.Weight) {
			histstore.Debugf("run %s: %s normalized (events=%d weight=%d)", rc.ID, histName, nEvents, rc.Weight)
		} else {
			histstore.Debugf("run %s: %s left unscaled (events=%d weight=%d)", rc.ID, histName, nEvents, rc.Weight)
		}
	}
	if c.opts.Cut != nil && c.opts.Cut.Histograms[histName] {
		n := ApplyCut(h, c.opts.Cut.Value)
		histstore.Debugf("run %s: %s cut below %g zeroed %d bins", rc.ID, histName, c.opts.Cut.Value, n)
	}
	return h, true
}

func seriesFor(rc config.RunConfig, h *histstore.Histogram) Series {
	return Series{
		Label:   "Run: " + rc.ID,
		Color:   rc.Color,
		Centers: h.Centers(),
		Values:  append([]float64(nil), h.Contents...),
	}
}

// Overlay builds one chart with every contributing run's distribution for
// spec, then renders it to <outDir>/Overlayed_<name>.png. Runs that fail to
// load are skipped with a diagnostic and do not affect the others.
func (c *Composer) Overlay(spec config.HistogramSpec) error {
	histstore.Infof("overlaying %s across %d runs", spec.Name, len(c.runs))
	sess := newSession()
	for _, rc := range c.runs {
		h, ok := c.loadRun(rc, spec.Name)
		if !ok {
			continue
		}
		sess.add(seriesFor(rc, h))
	}
	if sess.empty() {
		histstore.Warnf("%s: no run contributed, nothing to render", spec.Name)
		return nil
	}
	out := filepath.Join(c.outDir, "Overlayed_"+spec.Name+".png")
	if err := c.renderer.Render(PlotSpec{Title: spec.Title, XLabel: spec.XLabel, YLabel: spec.YLabel}, sess.all(), out); err != nil {
		return fmt.Errorf("overlay %s: %w", spec.Name, err)
	}
	histstore.Infof("wrote %s (%d runs)", out, len(sess.all()))
	return nil
}

// PlotEach renders one chart per contributing run for spec, each to
// <outDir>/<name>/<name>_Run_<run>.png.
func (c *Composer) PlotEach(spec config.HistogramSpec) error {
	histstore.Infof("plotting %s per run", spec.Name)
	for _, rc := range c.runs {
		h, ok := c.loadRun(rc, spec.Name)
		if !ok {
			continue
		}
		sess := newSession()
		sess.add(seriesFor(rc, h))
		out := filepath.Join(c.outDir, spec.Name, fmt.Sprintf("%s_Run_%s.png", spec.Name, rc.ID))
		title := fmt.Sprintf("%s (Run: %s)", spec.Title, rc.ID)
		if err := c.renderer.Render(PlotSpec{Title: title, XLabel: spec.XLabel, YLabel: spec.YLabel}, sess.all(), out); err != nil {
			return fmt.Errorf("plot %s run %s: %w", spec.Name, rc.ID, err)
		}
		histstore.Infof("wrote %s", out)
	}
	return nil
}
