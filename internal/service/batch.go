package service

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/engine"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// GameSummary is the slice of one result a batch keeps.
type GameSummary struct {
	GameID       string          `json:"game_id"`
	Seed         int64           `json:"seed"`
	Score        model.Score     `json:"score"`
	WinnerTeamID int64           `json:"winner_team_id"`
	DecidedBy    model.DecidedBy `json:"decided_by"`
}

// BatchSummary aggregates n independent games of the same matchup.
// OvertimeShare counts every game that went past regulation, shootout
// decisions included.
type BatchSummary struct {
	Games          []GameSummary `json:"games"`
	MeanTotalGoals float64       `json:"mean_total_goals"`
	HomeWinRate    float64       `json:"home_win_rate"`
	OvertimeShare  float64       `json:"overtime_share"`
	ShootoutShare  float64       `json:"shootout_share"`
}

type batchService struct {
	cfg     *config.Config
	log     zerolog.Logger
	workers int
}

// NewBatchService wires the batch runner. workers caps concurrent games;
// zero or below falls back to GOMAXPROCS.
func NewBatchService(cfg *config.Config, logger zerolog.Logger, workers int) BatchService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	l := logger.With().Str("module", "service").Str("component", "batch").Logger()
	return &batchService{cfg: cfg, log: l, workers: workers}
}

func (s *batchService) SimulateBatch(ctx context.Context, m model.Matchup, n int, baseSeed int64) (*BatchSummary, error) {
	if n <= 0 {
		return nil, newInvalidInput([]FieldError{{Field: "games", Message: "must be > 0"}})
	}
	if err := validateMatchup(m); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("matchup validation failed")
		return nil, err
	}

	// child seeds are drawn up front so goroutine scheduling cannot
	// reorder them; game i always plays seeds[i]
	seedSrc := rand.New(rand.NewSource(baseSeed))
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = seedSrc.Int63()
	}

	// per-game start/finish chatter stays out of batch logs
	sim := engine.NewSimulator(s.cfg, s.log.Level(zerolog.WarnLevel))
	summaries := make([]GameSummary, n)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			res, err := sim.Simulate(ctx, m, seeds[i])
			if err != nil {
				return fmt.Errorf("game %d of %d (seed %d): %w", i+1, n, seeds[i], err)
			}
			summaries[i] = GameSummary{
				GameID:       res.GameID,
				Seed:         res.Seed,
				Score:        res.Score,
				WinnerTeamID: res.WinnerTeamID,
				DecidedBy:    res.DecidedBy,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := summarize(summaries, m.Home.Roster.TeamID)
	s.log.Info().
		Int("games", n).
		Int64("base_seed", baseSeed).
		Float64("mean_total_goals", sum.MeanTotalGoals).
		Float64("overtime_share", sum.OvertimeShare).
		Float64("home_win_rate", sum.HomeWinRate).
		Dur("elapsed", time.Since(start)).
		Msg("batch finished")
	return sum, nil
}

func summarize(games []GameSummary, homeID int64) *BatchSummary {
	sum := &BatchSummary{Games: games}
	if len(games) == 0 {
		return sum
	}
	var goals, homeWins, extra, shootouts int
	for _, g := range games {
		goals += g.Score.Home + g.Score.Away
		if g.WinnerTeamID == homeID {
			homeWins++
		}
		if g.DecidedBy != model.DecidedInRegulation {
			extra++
		}
		if g.DecidedBy == model.DecidedInShootout {
			shootouts++
		}
	}
	n := float64(len(games))
	sum.MeanTotalGoals = float64(goals) / n
	sum.HomeWinRate = float64(homeWins) / n
	sum.OvertimeShare = float64(extra) / n
	sum.ShootoutShare = float64(shootouts) / n
	return sum
}
