package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/service"
	"github.com/icelinehq/hockey-sim-engine/internal/testkit"
)

func TestBatchIsDeterministic(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 4)

	first, err := svc.SimulateBatch(context.Background(), m, 6, 99)
	require.NoError(t, err)
	second, err := svc.SimulateBatch(context.Background(), m, 6, 99)
	require.NoError(t, err)

	require.Equal(t, first, second, "same base seed, same batch, regardless of scheduling")

	other, err := svc.SimulateBatch(context.Background(), m, 6, 100)
	require.NoError(t, err)
	assert.NotEqual(t, first.Games[0].GameID, other.Games[0].GameID)
}

func TestBatchSummaryMath(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	homeID, awayID := m.Home.Roster.TeamID, m.Away.Roster.TeamID
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 0)

	sum, err := svc.SimulateBatch(context.Background(), m, 8, 7)
	require.NoError(t, err)
	require.Len(t, sum.Games, 8)

	var goals, homeWins, extra, shootouts int
	for i, g := range sum.Games {
		assert.NotEmpty(t, g.GameID, "game %d", i)
		assert.Contains(t, []int64{homeID, awayID}, g.WinnerTeamID, "game %d", i)
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
	assert.InDelta(t, float64(goals)/8, sum.MeanTotalGoals, 1e-9)
	assert.InDelta(t, float64(homeWins)/8, sum.HomeWinRate, 1e-9)
	assert.InDelta(t, float64(extra)/8, sum.OvertimeShare, 1e-9)
	assert.InDelta(t, float64(shootouts)/8, sum.ShootoutShare, 1e-9)
	assert.GreaterOrEqual(t, sum.OvertimeShare, sum.ShootoutShare, "every shootout passed through overtime")
}

func TestBatchSeedsDifferPerGame(t *testing.T) {
	cfg := config.Default()
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 2)

	sum, err := svc.SimulateBatch(context.Background(), testkit.Matchup(), 5, 1)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, g := range sum.Games {
		assert.False(t, seen[g.Seed], "seed %d drawn twice", g.Seed)
		seen[g.Seed] = true
	}
}

func TestBatchRejectsNonPositiveCount(t *testing.T) {
	cfg := config.Default()
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 1)

	for _, n := range []int{0, -3} {
		_, err := svc.SimulateBatch(context.Background(), testkit.Matchup(), n, 1)
		require.ErrorIs(t, err, service.ErrInvalidInput, "n=%d", n)
		fields := service.FieldErrors(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "games", fields[0].Field)
	}
}

func TestBatchRejectsBadMatchup(t *testing.T) {
	cfg := config.Default()
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 1)

	m := testkit.Matchup()
	m.Home.Roster.TeamID = 0
	_, err := svc.SimulateBatch(context.Background(), m, 2, 1)
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestBatchHonoursCancellation(t *testing.T) {
	cfg := config.Default()
	svc := service.NewBatchService(&cfg, zerolog.Nop(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SimulateBatch(ctx, testkit.Matchup(), 4, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
