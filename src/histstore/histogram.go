package histstore

// Histogram is a named one-dimensional distribution with uniform binning.
// Contents are plain per-bin sums that callers may rescale or overwrite in
// place; NEntries counts Fill calls independently of the bin sums so a
// rescaled histogram still reports how many entries produced it.
type Histogram struct {
	Name      string    `json:"name"`
	NBins     int       `json:"nbins"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
	Contents  []float64 `json:"contents"`
	NEntries  int64     `json:"entries"`
	Underflow int64     `json:"underflow,omitempty"`
	Overflow  int64     `json:"overflow,omitempty"`
}

// NewHistogram returns an empty histogram with nbins uniform bins on [low, high).
func NewHistogram(name string, nbins int, low, high float64) *Histogram {
	return &Histogram{
		Name:     name,
		NBins:    nbins,
		Low:      low,
		High:     high,
		Contents: make([]float64, nbins),
	}
}

// BinWidth returns the width of each bin.
func (h *Histogram) BinWidth() float64 {
	if h.NBins <= 0 {
		return 0
	}
	return (h.High - h.Low) / float64(h.NBins)
}

// Center returns the center of bin i (0-based).
func (h *Histogram) Center(i int) float64 {
	return h.Low + (float64(i)+0.5)*h.BinWidth()
}

// Centers returns all bin centers in order.
func (h *Histogram) Centers() []float64 {
	cs := make([]float64, h.NBins)
	for i := range cs {
		cs[i] = h.Center(i)
	}
	return cs
}

// Content returns the content of bin i.
func (h *Histogram) Content(i int) float64 { return h.Contents[i] }

// SetContent overwrites the content of bin i.
func (h *Histogram) SetContent(i int, v float64) { h.Contents[i] = v }

// Entries returns the total number of Fill calls, including under/overflow.
func (h *Histogram) Entries() int64 { return h.NEntries }

// Fill adds weight w at value x. Out-of-range values are counted in the
// under/overflow counters and do not touch visible bins.
func (h *Histogram) Fill(x, w float64) {
	h.NEntries++
	if x < h.Low {
		h.Underflow++
		return
	}
	if x >= h.High {
		h.Overflow++
		return
	}
	i := int((x - h.Low) / h.BinWidth())
	if i >= h.NBins { // guard float rounding at the upper edge
		i = h.NBins - 1
	}
	h.Contents[i] += w
}

// Scale multiplies every visible bin content by f. Calling Scale twice
// compounds; callers that need at-most-once scaling must track it themselves.
func (h *Histogram) Scale(f float64) {
	for i := range h.Contents {
		h.Contents[i] *= f
	}
}

// Integral returns the sum of all visible bin contents.
func (h *Histogram) Integral() float64 {
	var sum float64
	for _, v := range h.Contents {
		sum += v
	}
	return sum
}

// Clone returns a deep copy.
func (h *Histogram) Clone() *Histogram {
	c := *h
	c.Contents = append([]float64(nil), h.Contents...)
	return &c
}

// valid reports whether a decoded histogram payload is structurally usable.
func (h *Histogram) valid() bool {
	return h.Name != "" && h.NBins > 0 && h.High > h.Low && len(h.Contents) == h.NBins
}
