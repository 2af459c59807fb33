// Package service holds use-case orchestration above the engine: matchup
// validation, single-game runs, deterministic batches and calibration
// checks. Kept intentionally lean: no simulation logic lives here, only
// coordination and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/engine"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures.
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a matchup or request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to
// ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors
// are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// GameOptions tunes one simulation run.
type GameOptions struct {
	Seed int64
	// Pace is simulated seconds per wall-clock second; zero runs instant.
	Pace float64
	// Sink observes each event as the engine emits it.
	Sink engine.EventSink
}

// SimulationService runs one validated game.
type SimulationService interface {
	SimulateGame(ctx context.Context, m model.Matchup, opts GameOptions) (*model.GameResult, error)
}

// BatchService runs n independent games of the same matchup and summarizes
// them. Child seeds derive deterministically from the base seed, so a batch
// is as reproducible as a single game.
type BatchService interface {
	SimulateBatch(ctx context.Context, m model.Matchup, n int, baseSeed int64) (*BatchSummary, error)
}

// CalibrationService compares a batch against the configured statistical
// bands. Violations make a report, never an error: a drifted tuning is a
// finding, not a failure.
type CalibrationService interface {
	Check(sum *BatchSummary, bands config.Calibration) CalibrationReport
}
