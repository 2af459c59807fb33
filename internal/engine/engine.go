// Package engine runs the probabilistic simulation: a 1-second tick loop
// that samples candidate events, resolves them against the game state and
// appends the winners to an immutable stream. All randomness flows through
// one seeded source per run, so a seed fully determines a game.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
	"github.com/icelinehq/hockey-sim-engine/internal/stats"
)

// EventSink observes events as they are sealed into the stream. Sinks run
// on the simulating goroutine and must not block if pacing matters.
type EventSink interface {
	OnEvent(model.GameEvent)
}

// Option tweaks a Simulator without widening its constructor.
type Option func(*Simulator)

// WithSink streams every event to sink as it is emitted.
func WithSink(sink EventSink) Option {
	return func(s *Simulator) { s.sink = sink }
}

// WithPace slows the loop to one simulated second per wall-clock
// second divided by speed. Zero keeps the default instant mode.
func WithPace(speed float64) Option {
	return func(s *Simulator) {
		if speed > 0 {
			s.tickDelay = time.Duration(float64(time.Second) / speed)
		}
	}
}

// Simulator runs games. It holds no per-game state, so one instance is safe
// to share across goroutines; every Simulate call builds its own run.
type Simulator struct {
	weights   config.Engine
	rules     config.Rules
	log       zerolog.Logger
	sink      EventSink
	tickDelay time.Duration
}

// NewSimulator wires a simulator from configuration.
func NewSimulator(cfg *config.Config, log zerolog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		weights: cfg.Engine,
		rules:   cfg.Rules,
		log:     log.With().Str("module", "engine").Str("component", "simulator").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate plays one full game and seals the result. The matchup must have
// passed validation; the seed pins every random draw. Cancelling the
// context aborts between ticks with no partial result.
func (s *Simulator) Simulate(ctx context.Context, m model.Matchup, seed int64) (*model.GameResult, error) {
	r, err := s.newRun(m, seed)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r.log.Info().
		Str("home", m.Home.Roster.TeamName).
		Str("away", m.Away.Roster.TeamName).
		Msg("simulation started")

	if err := r.play(ctx); err != nil {
		r.log.Error().Err(err).Msg("simulation aborted")
		return nil, err
	}

	result, err := r.seal()
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Int("home_goals", result.Score.Home).
		Int("away_goals", result.Score.Away).
		Str("decided_by", string(result.DecidedBy)).
		Int("events", len(result.Events)).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")
	return result, nil
}

// faceoffSpot locates the next draw relative to the side it favors.
type faceoffSpot struct {
	benefit state.Side
	zone    model.Zone
}

var centerIce = faceoffSpot{zone: model.ZoneNeutral}

// run is the per-game working set.
type run struct {
	sim  *Simulator
	log  zerolog.Logger
	rng  *rand.Rand
	game *state.Game
	m    model.Matchup
	seed int64

	events []model.GameEvent
	seq    int

	possession state.Side
	zone       model.Zone // from the possessing side's point of view

	pendingFaceoff bool
	spot           faceoffSpot

	// a fresh rebound boosts the next attempt for this side
	reboundFor  state.Side
	reboundLive bool
	reboundByID int64
}

func (s *Simulator) newRun(m model.Matchup, seed int64) (*run, error) {
	rng := rand.New(rand.NewSource(seed))

	homeGoalie, err := pickStartingGoalie(rng, m.Home)
	if err != nil {
		return nil, fmt.Errorf("home side: %w", err)
	}
	awayGoalie, err := pickStartingGoalie(rng, m.Away)
	if err != nil {
		return nil, fmt.Errorf("away side: %w", err)
	}

	game, err := state.New(state.Params{Rules: s.rules, Fatigue: s.weights.Fatigue}, m, homeGoalie, awayGoalie)
	if err != nil {
		return nil, err
	}

	return &run{
		sim:  s,
		log:  s.log.With().Int64("seed", seed).Logger(),
		rng:  rng,
		game: game,
		m:    m,
		seed: seed,
		spot: centerIce,
	}, nil
}

// pickStartingGoalie resolves the goaltender usage setting. A split tandem
// is a coin flip between the top two on the depth chart; everything else
// starts the most effective goaltender.
func pickStartingGoalie(rng *rand.Rand, team model.Team) (int64, error) {
	goalies := team.Roster.Goalies()
	if len(goalies) == 0 {
		return 0, fmt.Errorf("roster %d has no goaltender", team.Roster.TeamID)
	}
	best, second := goalies[0], goalies[0]
	bestEff := -1.0
	secondEff := -1.0
	for _, g := range goalies {
		eff := ratings.GoalieEffectiveness(*g.Goalie)
		switch {
		case eff > bestEff || (eff == bestEff && g.ID < best.ID):
			second, secondEff = best, bestEff
			best, bestEff = g, eff
		case eff > secondEff || (eff == secondEff && g.ID < second.ID):
			second, secondEff = g, eff
		}
	}
	if team.Strategy.GoalieUsage == model.GoalieSplit && len(goalies) > 1 && rng.Float64() < 0.5 {
		return second.ID, nil
	}
	return best.ID, nil
}

// play drives the whole game: regulation, overtime if needed, shootout if
// still tied.
func (r *run) play(ctx context.Context) error {
	for p := 1; p <= r.sim.rules.Periods; p++ {
		if err := r.playPeriod(ctx, false); err != nil {
			return err
		}
	}

	if r.game.Score().Home == r.game.Score().Away {
		if err := r.playPeriod(ctx, true); err != nil {
			return err
		}
	}

	if r.game.Status() != state.StatusFinal && r.game.Score().Home == r.game.Score().Away {
		if err := r.playShootout(ctx); err != nil {
			return err
		}
	}

	if r.game.Status() != state.StatusFinal {
		if err := r.game.Finish(); err != nil {
			return err
		}
		r.emitGameEnd(model.DecidedInRegulation)
	}
	return nil
}

// playPeriod runs one period to the horn, or to the golden goal in
// overtime. The opening faceoff is at center ice.
func (r *run) playPeriod(ctx context.Context, overtime bool) error {
	if err := r.game.BeginPeriod(); err != nil {
		return err
	}
	r.game.RebuildOnIce(state.Home)
	r.game.RebuildOnIce(state.Away)

	if r.game.Period() == 1 {
		r.emit(model.GameEvent{Type: model.EventGameStart, Period: 1, Clock: r.game.Clock()})
	}
	r.emit(model.GameEvent{Type: model.EventPeriodStart, Period: r.game.Period(), Clock: r.game.Clock()})
	r.pendingFaceoff = true
	r.spot = centerIce

	for r.game.Clock() > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation cancelled: %w", err)
		}
		if r.sim.tickDelay > 0 {
			time.Sleep(r.sim.tickDelay)
		}

		if r.pendingFaceoff {
			if err := r.conductFaceoff(); err != nil {
				return err
			}
			continue
		}

		if err := r.game.Tick(); err != nil {
			return err
		}
		decided, err := r.playTick()
		if err != nil {
			return err
		}
		if decided && overtime {
			// golden goal: the period and the game end on the spot
			r.emit(model.GameEvent{Type: model.EventPeriodEnd, Period: r.game.Period(), Clock: r.game.Clock()})
			if err := r.game.Finish(); err != nil {
				return err
			}
			r.emitGameEnd(model.DecidedInOvertime)
			return nil
		}
	}

	r.emit(model.GameEvent{Type: model.EventPeriodEnd, Period: r.game.Period(), Clock: 0})
	r.log.Debug().
		Int("period", r.game.Period()).
		Int("home", r.game.Score().Home).
		Int("away", r.game.Score().Away).
		Msg("period complete")
	return r.game.EndPeriod()
}

// emit stamps the sequence number and situation snapshot, then appends the
// event and feeds the sink. Events carrying an explicit context keep it.
func (r *run) emit(e model.GameEvent) {
	e.Sequence = r.seq
	r.seq++
	if e.Context.Phase == "" {
		e.Context = model.EventContext{
			Phase:    r.game.Phase(),
			Strength: r.game.Strength(),
			Zone:     e.Context.Zone,
		}
	}
	r.events = append(r.events, e)
	if r.sim.sink != nil {
		r.sim.sink.OnEvent(e)
	}
}

func (r *run) emitGameEnd(decidedBy model.DecidedBy) {
	r.emit(model.GameEvent{
		Type:   model.EventGameEnd,
		Period: r.game.Period(),
		Clock:  r.game.Clock(),
		GameEnd: &model.GameEndDetail{
			WinnerTeamID: r.game.Winner(),
			DecidedBy:    decidedBy,
		},
	})
}

// seal derives the boxscore from the stream and freezes the result.
// The game ID hashes the seed and the team IDs, so identical runs carry
// identical IDs.
func (r *run) seal() (*model.GameResult, error) {
	score := r.game.Score()
	decidedBy := model.DecidedInRegulation
	final := model.FinalState{
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		Strength: r.game.Strength(),
	}
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == model.EventGameEnd {
			decidedBy = r.events[i].GameEnd.DecidedBy
			final.Period = r.events[i].Period
			final.Clock = r.events[i].Clock
			final.Strength = r.events[i].Context.Strength
			break
		}
	}

	box, err := stats.Aggregate(r.events, r.m, stats.Params{Rules: r.sim.rules})
	if err != nil {
		return nil, fmt.Errorf("boxscore aggregation: %w", err)
	}

	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf(
		"hockey-sim:%d:%d:%d", r.seed, r.m.Home.Roster.TeamID, r.m.Away.Roster.TeamID,
	)))

	return &model.GameResult{
		GameID:       id.String(),
		Seed:         r.seed,
		Home:         model.TeamRef{ID: r.m.Home.Roster.TeamID, Name: r.m.Home.Roster.TeamName},
		Away:         model.TeamRef{ID: r.m.Away.Roster.TeamID, Name: r.m.Away.Roster.TeamName},
		Score:        score,
		WinnerTeamID: r.game.Winner(),
		DecidedBy:    decidedBy,
		Final:        final,
		Events:       r.events,
		Boxscore:     *box,
	}, nil
}

// teamID is shorthand for the side's team ID.
func (r *run) teamID(side state.Side) int64 {
	return r.game.Team(side).ID()
}
