// Package histstore reads and writes per-run QA result files.
//
// Each run has one result file at <base>/<run>/qa.jsonl (optionally
// gzip-compressed as qa.jsonl.gz). Every line is a typed envelope carrying
// meta (schema version, run id) plus one named histogram. Readers skip lines
// from other schema versions so old and new generators can coexist in the
// same tree.
package histstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/gzip"
)

// SchemaVersion is the compatibility version of the envelope written as one
// JSONL line. Increment on breaking changes to field names/types.
const SchemaVersion = 1

// DefaultFileName is the per-run result file name under <base>/<run>/.
const DefaultFileName = "qa.jsonl"

// MaxLineBytes caps a single envelope line to avoid pathological memory use
// on a corrupt file.
const MaxLineBytes = 64 * 1024 * 1024

// Meta is the typed header of every envelope line.
type Meta struct {
	SchemaVersion int    `json:"schema_version"`
	Run           string `json:"run,omitempty"`
	WrittenUTC    string `json:"written_utc,omitempty"`
	Generator     string `json:"generator,omitempty"`
}

// Envelope is the root object of one JSONL line.
type Envelope struct {
	Meta      *Meta      `json:"meta"`
	Histogram *Histogram `json:"histogram"`
}

// The two recoverable failure kinds. Every per-run failure wraps one of
// these; callers match with errors.Is and skip the run.
var (
	// ErrStoreUnavailable: the run's result file is missing, unreadable or corrupt.
	ErrStoreUnavailable = errors.New("histogram store unavailable")
	// ErrHistogramMissing: the store is valid but has no histogram with that name.
	ErrHistogramMissing = errors.New("histogram missing")
)

// Store holds the histograms of one run, fully read at Open time so no file
// handle stays live while the run is processed.
type Store struct {
	Run   string
	Path  string
	hists map[string]*Histogram
}

// Open reads the result file for run under baseDir. A plain qa.jsonl is
// preferred; qa.jsonl.gz is used as fallback when the plain file is absent.
func Open(baseDir, run string) (*Store, error) {
	path := filepath.Join(baseDir, run, DefaultFileName)
	f, err := os.Open(path)
	if err != nil {
		gzPath := path + ".gz"
		gf, gerr := os.Open(gzPath)
		if gerr != nil {
			return nil, fmt.Errorf("%w: run %s: open %s: %v", ErrStoreUnavailable, run, path, err)
		}
		defer gf.Close()
		zr, zerr := gzip.NewReader(gf)
		if zerr != nil {
			return nil, fmt.Errorf("%w: run %s: gzip %s: %v", ErrStoreUnavailable, run, gzPath, zerr)
		}
		defer zr.Close()
		return readStore(run, gzPath, zr)
	}
	defer f.Close()
	return readStore(run, path, f)
}

func readStore(run, path string, src io.Reader) (*Store, error) {
	st := &Store{Run: run, Path: path, hists: map[string]*Histogram{}}
	reader := bufio.NewReader(src)
	lines := 0
readLoop:
	for {
		// Accumulate one logical line (may span multiple internal buffers).
		var line []byte
		for {
			part, rerr := reader.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > MaxLineBytes {
					return nil, fmt.Errorf("%w: run %s: line too large in %s", ErrStoreUnavailable, run, path)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				break
			}
			if errors.Is(rerr, io.EOF) {
				if len(line) == 0 {
					break readLoop
				}
				break
			}
			if errors.Is(rerr, bufio.ErrBufferFull) {
				continue
			}
			return nil, fmt.Errorf("%w: run %s: read %s: %v", ErrStoreUnavailable, run, path, rerr)
		}
		lines++
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			return nil, fmt.Errorf("%w: run %s: corrupt line %d in %s: %v", ErrStoreUnavailable, run, lines, path, err)
		}
		if env.Meta == nil || env.Histogram == nil {
			continue
		}
		if env.Meta.SchemaVersion != SchemaVersion {
			continue
		}
		if !env.Histogram.valid() {
			Warnf("run %s: dropping malformed histogram %q (line %d of %s)", run, env.Histogram.Name, lines, path)
			continue
		}
		st.hists[env.Histogram.Name] = env.Histogram
	}
	if len(st.hists) == 0 {
		return nil, fmt.Errorf("%w: run %s: no usable histogram lines in %s", ErrStoreUnavailable, run, path)
	}
	return st, nil
}

// Histogram returns the histogram with the given name.
func (s *Store) Histogram(name string) (*Histogram, error) {
	h, ok := s.hists[name]
	if !ok {
		return nil, fmt.Errorf("%w: run %s: %q not in %s", ErrHistogramMissing, s.Run, name, s.Path)
	}
	return h, nil
}

// Names returns the stored histogram names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.hists))
	for n := range s.hists {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
