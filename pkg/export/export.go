// Package export writes simulation output as JSON: indented documents for
// single results, JSON Lines for batches, transparent gzip when the target
// path ends in .gz. It knows nothing about the shapes it writes, so the
// CLI can export results, summaries and reports through one door.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteJSON encodes v as one indented JSON document.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteJSONLines encodes each item as one compact JSON line.
func WriteJSONLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode line %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes v as JSON to path. A .gz suffix gzips the output; "-"
// writes to stdout.
func WriteFile(path string, v any) error {
	return toFile(path, func(w io.Writer) error { return WriteJSON(w, v) })
}

// WriteLinesFile writes items as JSON Lines to path, with the same .gz and
// "-" handling as WriteFile.
func WriteLinesFile[T any](path string, items []T) error {
	return toFile(path, func(w io.Writer) error { return WriteJSONLines(w, items) })
}

func toFile(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("flush gzip %s: %w", path, cerr)
			}
		}()
		w = gz
	}
	return write(w)
}
