// qagen writes a synthetic base directory of per-run QA result files so the
// plotting pipeline can be exercised end to end without detector data. Every
// run gets the five catalog histograms filled from seeded reference shapes
// plus the hNClusters event-count histogram; every gzip-nth run is written
// compressed to cover the store's gzip path.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/jusPats753/QACode/src/compose"
	"github.com/jusPats753/QACode/src/config"
	"github.com/jusPats753/QACode/src/histstore"
)

var (
	baseDir   = flag.String("base", "./qaOutput", "Base directory to write per-run result files into")
	runList   = flag.String("runs", "", "Comma-separated run ids (default: built-in run table)")
	seed      = flag.Int64("seed", 1, "Seed for the reference shapes")
	minEvents = flag.Int("min-events", 20000, "Minimum events per run")
	maxEvents = flag.Int("max-events", 60000, "Maximum events per run")
	gzipEvery = flag.Int("gzip-every", 3, "Write every nth run gzip-compressed (0 disables)")
	logLevel  = flag.String("log-level", "info", "Log level (debug|info|warn|error)")
)

func main() {
	flag.Parse()
	histstore.SetLogLevel(*logLevel)

	var runs []string
	if strings.TrimSpace(*runList) != "" {
		for _, r := range strings.Split(*runList, ",") {
			if r = strings.TrimSpace(r); r != "" {
				runs = append(runs, r)
			}
		}
	} else {
		for _, rc := range config.DefaultRuns() {
			runs = append(runs, rc.ID)
		}
	}
	if *maxEvents < *minEvents {
		fmt.Fprintln(os.Stderr, "max-events must be >= min-events")
		os.Exit(2)
	}

	for i, run := range runs {
		compress := *gzipEvery > 0 && (i+1)%*gzipEvery == 0
		if err := writeRun(run, int64(i), compress); err != nil {
			histstore.Errorf("run %s: %v", run, err)
			os.Exit(1)
		}
	}
	histstore.Infof("wrote %d runs under %s", len(runs), *baseDir)
}

func writeRun(run string, offset int64, compress bool) error {
	rng := rand.New(rand.NewSource(*seed + offset))
	nEvents := *minEvents
	if span := *maxEvents - *minEvents; span > 0 {
		nEvents += rng.Intn(span)
	}

	// hNClusters is filled once per event; its entry count is the event count
	// the composer normalizes by.
	aux := histstore.NewHistogram(compose.AuxHistName, 50, 0, 200)
	for e := 0; e < nEvents; e++ {
		aux.Fill(float64(rng.Intn(160)), 1)
	}

	hists := []*histstore.Histogram{
		fillExp(rng, "hClusterChi", 100, 0, 20, 2.5, nEvents),
		fillGauss(rng, "hTotalMBD", 120, 0, 2400, 1100, 260, nEvents),
		fillExp(rng, "hClusterPt", 100, 0, 10, 1.2, nEvents),
		fillGauss(rng, "hTotalCaloE", 100, 0, 400, 180, 45, nEvents),
		fillExp(rng, "hClusterECore", 100, 0, 15, 1.8, nEvents),
		aux,
	}

	w, err := histstore.Create(*baseDir, run, compress)
	if err != nil {
		return err
	}
	w.Generator = "qagen"
	for _, h := range hists {
		if err := w.Append(h); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	histstore.Infof("run %s: %d events, %d histograms (gzip=%v)", run, nEvents, len(hists), compress)
	return nil
}

func fillExp(rng *rand.Rand, name string, nbins int, lo, hi, mean float64, n int) *histstore.Histogram {
	h := histstore.NewHistogram(name, nbins, lo, hi)
	for i := 0; i < n; i++ {
		h.Fill(lo+rng.ExpFloat64()*mean, 1)
	}
	return h
}

func fillGauss(rng *rand.Rand, name string, nbins int, lo, hi, mu, sigma float64, n int) *histstore.Histogram {
	h := histstore.NewHistogram(name, nbins, lo, hi)
	for i := 0; i < n; i++ {
		h.Fill(mu+rng.NormFloat64()*sigma, 1)
	}
	return h
}
