// Calorimeter QA plotter entrypoint.
//
// Two modes:
//  1. Overlay mode (default): for every histogram in the catalog, draw all
//     configured runs onto one chart with a legend entry per run.
//  2. Single mode (--mode single): one chart per (histogram, run) pair,
//     with an optional low-bin cut configured via flags or interactively.
//
// Design notes:
//   - Run identity: the run table (built-in or --runs YAML) is ordered; list
//     order decides processing order, legend order and which run draws the
//     base plot.
//   - Per-run failures (missing or corrupt result file, missing histogram)
//     are logged and skipped; they never abort the remaining runs.
//   - Dependency direction: main -> compose for the per-run procedure;
//     render for chart output; histstore for result files.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jusPats753/QACode/src/compose"
	"github.com/jusPats753/QACode/src/config"
	"github.com/jusPats753/QACode/src/histstore"
	"github.com/jusPats753/QACode/src/prompt"
	"github.com/jusPats753/QACode/src/render"
)

func main() {
	mode := flag.String("mode", "overlay", "Plot mode: overlay (all runs on one chart) or single (one chart per run)")
	baseDir := flag.String("base", "./qaOutput", "Base directory holding per-run result files (<base>/<run>/qa.jsonl[.gz])")
	outDir := flag.String("out", "./plots", "Output directory for rendered charts")
	runsFile := flag.String("runs", "", "Optional YAML run table overriding the built-in one")
	normalize := flag.Bool("normalize", true, "Scale each histogram by 1/(events*weight)")
	logy := flag.Bool("logy", false, "Logarithmic Y axis (zero-content bins are dropped from overlays)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	interactive := flag.Bool("interactive", false, "Prompt for cut configuration on stdin (single mode only)")
	cutEnable := flag.Bool("cut", false, "Apply a low-bin cut (single mode only)")
	cutValue := flag.Float64("cut-value", 0, "Cut threshold; bins with centers below it are zeroed")
	cutHists := flag.String("cut-hists", "", "Comma-separated histogram names eligible for the cut (default: all)")
	flag.Parse()

	histstore.SetLogLevel(*logLevel)

	runs := config.DefaultRuns()
	if *runsFile != "" {
		var err error
		runs, err = config.LoadRuns(*runsFile)
		if err != nil {
			histstore.Errorf("%v", err)
			os.Exit(1)
		}
		histstore.Infof("loaded %d runs from %s", len(runs), *runsFile)
	}

	var cut *compose.CutConfig
	switch *mode {
	case "single":
		cut = resolveCut(*interactive, *cutEnable, *cutValue, *cutHists)
	case "overlay":
		// Overlay charts never cut; the cut flag set is single-mode only.
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (want overlay or single)\n", *mode)
		os.Exit(2)
	}

	opener := func(run string) (*histstore.Store, error) {
		return histstore.Open(*baseDir, run)
	}
	var renderer compose.Renderer
	if *mode == "overlay" {
		renderer = &render.ChartRenderer{LogY: *logy, Annotation: "sPHENIX EMCal QA"}
	} else {
		renderer = &render.SinglePlotter{LogY: *logy}
	}

	comp := compose.New(opener, renderer, runs, *outDir, compose.Options{Normalize: *normalize, Cut: cut})
	for _, hs := range config.Catalog() {
		var err error
		if *mode == "overlay" {
			err = comp.Overlay(hs)
		} else {
			err = comp.PlotEach(hs)
		}
		if err != nil {
			histstore.Errorf("%v", err)
			os.Exit(1)
		}
	}
}

// resolveCut builds the cut configuration for single mode, either from the
// console or from flags. A nil return disables the cut.
func resolveCut(interactive, cutEnable bool, cutValue float64, cutHists string) *compose.CutConfig {
	if interactive {
		p := prompt.New(os.Stdin, os.Stdout)
		if !p.AskYesNo("Would you like to apply a minimum cluster energy cut?") {
			return nil
		}
		names := p.AskSelection("Which histograms would you like to apply the energy cut to?", config.CatalogNames())
		if len(names) == 0 {
			return nil
		}
		value := p.AskFloat("Enter the energy cut value (in GeV, numeric values only)")
		return compose.NewCutConfig(value, names)
	}
	if !cutEnable {
		return nil
	}
	names := config.CatalogNames()
	if strings.TrimSpace(cutHists) != "" {
		names = nil
		for _, n := range strings.Split(cutHists, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return compose.NewCutConfig(cutValue, names)
}
