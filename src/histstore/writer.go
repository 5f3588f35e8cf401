package histstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Writer appends envelope lines to a per-run result file. With compress set
// the file is written as qa.jsonl.gz.
type Writer struct {
	run string
	// Generator is recorded in each line's meta when non-empty.
	Generator string

	f  *os.File
	zw *gzip.Writer
	bw *bufio.Writer
}

// Create opens (truncating) the result file for run under baseDir, creating
// the run directory as needed.
func Create(baseDir, run string, compress bool) (*Writer, error) {
	dir := filepath.Join(baseDir, run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	name := DefaultFileName
	if compress {
		name += ".gz"
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create result file: %w", err)
	}
	w := &Writer{run: run, f: f}
	if compress {
		w.zw = gzip.NewWriter(f)
		w.bw = bufio.NewWriter(w.zw)
	} else {
		w.bw = bufio.NewWriter(f)
	}
	return w, nil
}

// Append writes one histogram as an envelope line.
func (w *Writer) Append(h *Histogram) error {
	env := &Envelope{
		Meta: &Meta{
			SchemaVersion: SchemaVersion,
			Run:           w.run,
			WrittenUTC:    time.Now().UTC().Format(time.RFC3339Nano),
			Generator:     w.Generator,
		},
		Histogram: h,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if _, err := w.bw.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.f.Close()
			return err
		}
	}
	return w.f.Close()
}
