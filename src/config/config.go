// Package config holds the run table and the histogram catalog. The table is
// an ordered list: its order decides processing order, legend order and which
// run draws the base plot of an overlay.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RunConfig maps one run id to its display color and weight factor. The
// weight is the per-run hardware sub-unit count used as a normalization
// divisor; non-positive weights are legal and disable normalization for the
// run rather than erroring.
type RunConfig struct {
	ID     string `yaml:"id" json:"id"`
	Color  string `yaml:"color" json:"color"`
	Weight int    `yaml:"weight" json:"weight"`
}

// DefaultRuns returns the built-in run table.
func DefaultRuns() []RunConfig {
	return []RunConfig{
		{ID: "21813", Color: "#0000FF", Weight: 7},
		{ID: "21796", Color: "#FF5500", Weight: 8},
		{ID: "21615", Color: "#000000", Weight: 8},
		{ID: "21599", Color: "#000099", Weight: 8},
		{ID: "21598", Color: "#FF0000", Weight: 8},
		{ID: "21891", Color: "#009999", Weight: 7},
		{ID: "22979", Color: "#FF00FF", Weight: 5},
		{ID: "22950", Color: "#9933FF", Weight: 5},
		{ID: "22949", Color: "#CC00CC", Weight: 5},
		{ID: "22951", Color: "#3366CC", Weight: 5},
		{ID: "22982", Color: "#3399FF", Weight: 5},
		{ID: "21518", Color: "#FF6699", Weight: 8},
		{ID: "21520", Color: "#FFA500", Weight: 8},
		{ID: "21889", Color: "#999999", Weight: 7},
	}
}

type runsFile struct {
	Runs []RunConfig `yaml:"runs"`
}

// LoadRuns reads a YAML run table, replacing the built-in one. The file
// order is preserved.
func LoadRuns(path string) ([]RunConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read runs file: %w", err)
	}
	var rf runsFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("parse runs file %s: %w", path, err)
	}
	if len(rf.Runs) == 0 {
		return nil, fmt.Errorf("runs file %s: no runs", path)
	}
	seen := map[string]bool{}
	for i, rc := range rf.Runs {
		if strings.TrimSpace(rc.ID) == "" {
			return nil, fmt.Errorf("runs file %s: entry %d: empty run id", path, i+1)
		}
		if seen[rc.ID] {
			return nil, fmt.Errorf("runs file %s: duplicate run id %s", path, rc.ID)
		}
		seen[rc.ID] = true
		if _, err := ParseHexColor(rc.Color); err != nil {
			return nil, fmt.Errorf("runs file %s: run %s: %w", path, rc.ID, err)
		}
	}
	return rf.Runs, nil
}

// ParseHexColor parses "#RRGGBB" (leading '#' optional) into an opaque RGBA.
func ParseHexColor(s string) (color.RGBA, error) {
	hs := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hs) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(hs, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// HistogramSpec describes one QA histogram type: store key plus chart text.
type HistogramSpec struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
}

// Catalog returns the QA histogram types in plot order.
func Catalog() []HistogramSpec {
	return []HistogramSpec{
		{Name: "hClusterChi", Title: "Cluster chi^2 Distribution", XLabel: "Cluster chi^2", YLabel: "Counts"},
		{Name: "hTotalMBD", Title: "MBD Charge Distribution", XLabel: "MBD Charge", YLabel: "Counts"},
		{Name: "hClusterPt", Title: "Cluster pT Good Runs Distribution", XLabel: "Cluster pT (GeV)", YLabel: "Counts"},
		{Name: "hTotalCaloE", Title: "Total Calorimeter Energy Distribution", XLabel: "Cluster Energy (GeV)", YLabel: "Counts"},
		{Name: "hClusterECore", Title: "Cluster ECore Distribution", XLabel: "Cluster ECore (GeV)", YLabel: "Counts"},
	}
}

// CatalogNames returns the catalog histogram names in plot order.
func CatalogNames() []string {
	specs := Catalog()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}
