package histstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeRunFile writes a run's result file with the given histograms.
func writeRunFile(t *testing.T, base, run string, compress bool, hists ...*Histogram) {
	t.Helper()
	w, err := Create(base, run, compress)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	for _, h := range hists {
		if err := w.Append(h); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func sampleHist(name string) *Histogram {
	h := NewHistogram(name, 4, 0, 4)
	h.Fill(0.5, 1)
	h.Fill(1.5, 2)
	h.Fill(2.5, 3)
	return h
}

func TestRoundTrip(t *testing.T) {
	base := t.TempDir()
	writeRunFile(t, base, "101", false, sampleHist("hClusterChi"), sampleHist("hNClusters"))
	st, err := Open(base, "101")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h, err := st.Histogram("hClusterChi")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	if h.Entries() != 3 || h.Content(1) != 2 || h.Content(2) != 3 {
		t.Fatalf("roundtrip mismatch: entries=%d contents=%v", h.Entries(), h.Contents)
	}
	names := st.Names()
	if len(names) != 2 || names[0] != "hClusterChi" || names[1] != "hNClusters" {
		t.Fatalf("names: %v", names)
	}
}

func TestRoundTripGzip(t *testing.T) {
	base := t.TempDir()
	writeRunFile(t, base, "102", true, sampleHist("hTotalMBD"), sampleHist("hNClusters"))
	// Plain qa.jsonl is absent; Open must fall back to qa.jsonl.gz.
	if _, err := os.Stat(filepath.Join(base, "102", DefaultFileName)); !os.IsNotExist(err) {
		t.Fatalf("expected plain file to be absent")
	}
	st, err := Open(base, "102")
	if err != nil {
		t.Fatalf("open gz: %v", err)
	}
	h, err := st.Histogram("hTotalMBD")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	if h.Integral() != 6 {
		t.Fatalf("integral: want 6 got %v", h.Integral())
	}
}

func TestOpenMissingRunIsStoreUnavailable(t *testing.T) {
	_, err := Open(t.TempDir(), "999")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable got %v", err)
	}
}

func TestOpenCorruptFileIsStoreUnavailable(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "103")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("{not json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Open(base, "103")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable got %v", err)
	}
}

func TestEmptyFileIsStoreUnavailable(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "104")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Open(base, "104")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable got %v", err)
	}
}

func TestMissingHistogram(t *testing.T) {
	base := t.TempDir()
	writeRunFile(t, base, "105", false, sampleHist("hNClusters"))
	st, err := Open(base, "105")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = st.Histogram("hClusterPt")
	if !errors.Is(err, ErrHistogramMissing) {
		t.Fatalf("want ErrHistogramMissing got %v", err)
	}
}

func TestSchemaVersionGate(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "106")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	old, _ := json.Marshal(&Envelope{Meta: &Meta{SchemaVersion: 99, Run: "106"}, Histogram: sampleHist("hOld")})
	cur, _ := json.Marshal(&Envelope{Meta: &Meta{SchemaVersion: SchemaVersion, Run: "106"}, Histogram: sampleHist("hNew")})
	data := append(append(old, '\n'), append(cur, '\n')...)
	if err := os.WriteFile(filepath.Join(dir, DefaultFileName), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := Open(base, "106")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.Histogram("hNew"); err != nil {
		t.Fatalf("current-version histogram should load: %v", err)
	}
	if _, err := st.Histogram("hOld"); !errors.Is(err, ErrHistogramMissing) {
		t.Fatalf("old-version histogram should be invisible, got %v", err)
	}
}
