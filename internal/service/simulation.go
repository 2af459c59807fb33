package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/engine"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

type simulationService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewSimulationService wires the single-game use case.
func NewSimulationService(cfg *config.Config, logger zerolog.Logger) SimulationService {
	l := logger.With().Str("module", "service").Str("component", "simulation").Logger()
	return &simulationService{cfg: cfg, log: l}
}

func (s *simulationService) SimulateGame(ctx context.Context, m model.Matchup, opts GameOptions) (*model.GameResult, error) {
	if err := validateMatchup(m); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("matchup validation failed")
		return nil, err
	}

	var engineOpts []engine.Option
	if opts.Sink != nil {
		engineOpts = append(engineOpts, engine.WithSink(opts.Sink))
	}
	if opts.Pace > 0 {
		engineOpts = append(engineOpts, engine.WithPace(opts.Pace))
	}

	sim := engine.NewSimulator(s.cfg, s.log, engineOpts...)
	result, err := sim.Simulate(ctx, m, opts.Seed)
	if err != nil {
		s.log.Error().Err(err).Int64("seed", opts.Seed).Msg("simulation failed")
		return nil, err
	}
	return result, nil
}
