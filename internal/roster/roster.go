// Package roster loads matchup fixtures. The engine consumes a complete
// model.Matchup; this package owns getting one from disk or memory and
// nothing else. Validation lives in the service layer, so a source only
// reports missing or undecodable input.
package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// Domain-level errors I prefer to bubble up from source implementations.
var (
	ErrNotFound = errors.New("fixture not found")
	ErrDecode   = errors.New("fixture malformed")
)

// Source yields one complete matchup.
// I keep loading behind an interface so the CLI, tests and any future
// transport share the same entry point.
type Source interface {
	Load(ctx context.Context) (model.Matchup, error)
}

// FileSource reads a JSON fixture from disk. The fixture is the wire form
// of model.Matchup: both rosters and both strategies in one document.
type FileSource struct {
	Path string
}

// NewFileSource points a source at a fixture path.
func NewFileSource(path string) FileSource {
	return FileSource{Path: path}
}

// Load reads and decodes the fixture. Unknown fields are rejected so a
// typoed rating name fails loudly instead of silently defaulting.
func (s FileSource) Load(ctx context.Context) (model.Matchup, error) {
	if err := ctx.Err(); err != nil {
		return model.Matchup{}, err
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Matchup{}, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return model.Matchup{}, fmt.Errorf("read fixture %s: %w", s.Path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var m model.Matchup
	if err := dec.Decode(&m); err != nil {
		return model.Matchup{}, fmt.Errorf("%w: %s: %v", ErrDecode, s.Path, err)
	}
	return m, nil
}

// StaticSource hands back an in-memory matchup, for tests and embedding.
type StaticSource struct {
	Matchup model.Matchup
}

// Load returns the wrapped matchup unchanged.
func (s StaticSource) Load(ctx context.Context) (model.Matchup, error) {
	if err := ctx.Err(); err != nil {
		return model.Matchup{}, err
	}
	return s.Matchup, nil
}
