// Package render holds the rendering collaborators: a go-chart based
// overlay renderer and a gonum/plot based single-run plotter. Both take
// pre-styled series from the composer and persist PNG files.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jusPats753/QACode/src/compose"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// ChartRenderer draws all series onto one chart with a legend entry per
// series, in series order.
type ChartRenderer struct {
	Width, Height int
	// LogY switches the Y axis to a logarithmic range. Zero-content bins
	// (e.g. after a cut) cannot be represented and are dropped from the
	// series.
	LogY bool
	// Annotation, when non-empty, is stamped onto the finished PNG.
	Annotation string
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
		DotColor:    col,
		DotWidth:    2,
	}
}

// Render implements compose.Renderer.
func (r *ChartRenderer) Render(spec compose.PlotSpec, series []compose.Series, outPath string) error {
	if len(series) == 0 {
		return fmt.Errorf("no series to render for %s", outPath)
	}
	w, h := r.Width, r.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	cs := make([]chart.Series, 0, len(series))
	for _, s := range series {
		xs, ys := s.Centers, s.Values
		if r.LogY {
			xs, ys = filterPositive(xs, ys)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			// Pad to at least two X values for go-chart.
			xs = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		}
		col := drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#"))
		cs = append(cs, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: lineStyle(col)})
	}
	if len(cs) == 0 {
		return fmt.Errorf("no drawable series for %s", outPath)
	}
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: spec.XLabel},
		YAxis:      chart.YAxis{Name: spec.YLabel},
		Series:     cs,
	}
	if r.LogY {
		ch.YAxis.Range = &chart.LogarithmicRange{}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	data := buf.Bytes()
	if r.Annotation != "" {
		stamped, err := stampAnnotation(data, r.Annotation)
		if err == nil {
			data = stamped
		}
		// On stamp failure the plain chart is still written.
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// filterPositive drops points whose Y is not strictly positive.
func filterPositive(xs, ys []float64) ([]float64, []float64) {
	fx := make([]float64, 0, len(xs))
	fy := make([]float64, 0, len(ys))
	for i := range xs {
		if ys[i] > 0 {
			fx = append(fx, xs[i])
			fy = append(fy, ys[i])
		}
	}
	return fx, fy
}

// stampAnnotation draws text near the lower-right corner of a PNG, shadow
// first for contrast on varying backgrounds.
func stampAnnotation(pngData []byte, text string) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 220, G: 220, B: 220, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Max.X - tw - 12
	y := b.Max.Y - 10
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	var out bytes.Buffer
	if err := png.Encode(&out, rgba); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
