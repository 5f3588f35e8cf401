package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jusPats753/QACode/src/compose"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testSeries(label, color string, values []float64) compose.Series {
	centers := make([]float64, len(values))
	for i := range centers {
		centers[i] = float64(i) + 0.5
	}
	return compose.Series{Label: label, Color: color, Centers: centers, Values: values}
}

func TestChartRendererWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "Overlayed_hClusterChi.png")
	r := &ChartRenderer{Annotation: "sPHENIX EMCal QA"}
	spec := compose.PlotSpec{Title: "Cluster chi^2 Distribution", XLabel: "Cluster chi^2", YLabel: "Counts"}
	series := []compose.Series{
		testSeries("Run: 101", "#0000FF", []float64{1, 4, 9, 6, 2, 1, 0.5, 0.2, 0.1, 0.05}),
		testSeries("Run: 103", "#FF0000", []float64{2, 5, 8, 5, 3, 1.5, 0.7, 0.3, 0.2, 0.1}),
	}
	if err := r.Render(spec, series, out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatalf("output is not a PNG (first bytes %v)", data[:4])
	}
}

func TestChartRendererRejectsEmpty(t *testing.T) {
	r := &ChartRenderer{}
	if err := r.Render(compose.PlotSpec{}, nil, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatalf("expected error for empty series")
	}
}

func TestFilterPositiveDropsZeroBins(t *testing.T) {
	xs := []float64{0.5, 1.5, 2.5, 3.5}
	ys := []float64{0, 0, 3, 4} // e.g. after a cut at 2.0
	fx, fy := filterPositive(xs, ys)
	if len(fx) != 2 || fx[0] != 2.5 || fy[1] != 4 {
		t.Fatalf("filtered: %v %v", fx, fy)
	}
}

func TestChartRendererLogYWithCutBins(t *testing.T) {
	out := filepath.Join(t.TempDir(), "logy.png")
	r := &ChartRenderer{LogY: true}
	series := []compose.Series{testSeries("Run: 101", "#0000FF", []float64{0, 0, 3, 4, 5, 2})}
	if err := r.Render(compose.PlotSpec{Title: "t"}, series, out); err != nil {
		t.Fatalf("render logy: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
