package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
	"github.com/icelinehq/hockey-sim-engine/internal/testkit"
)

func newGame(t *testing.T) *state.Game {
	t.Helper()
	m := testkit.Matchup()
	cfg := config.Default()
	g, err := state.New(
		state.Params{Rules: cfg.Rules, Fatigue: cfg.Engine.Fatigue},
		m,
		m.Home.Roster.Goalies()[0].ID,
		m.Away.Roster.Goalies()[0].ID,
	)
	require.NoError(t, err)
	return g
}

func startPlay(t *testing.T, g *state.Game) {
	t.Helper()
	require.NoError(t, g.BeginPeriod())
	g.RebuildOnIce(state.Home)
	g.RebuildOnIce(state.Away)
	require.NoError(t, g.CheckInvariants())
}

func tick(t *testing.T, g *state.Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, g.Tick())
	}
}

func drainPeriod(t *testing.T, g *state.Game) {
	t.Helper()
	startPlay(t, g)
	tick(t, g, g.Clock())
	require.NoError(t, g.EndPeriod())
}

func minorOn(t *testing.T, g *state.Game, side state.Side) int64 {
	t.Helper()
	victim := g.Team(side).OnIceIDs()[0]
	require.NoError(t, g.ApplyPenalty(side, state.PenaltyCall{
		PlayerID:    victim,
		Severity:    model.SeverityMinor,
		Releasable:  true,
		CostsSkater: true,
	}))
	return victim
}

func TestNewGameStartsPregame(t *testing.T) {
	g := newGame(t)
	assert.Equal(t, state.StatusPregame, g.Status())
	assert.Equal(t, model.Score{}, g.Score())
	assert.Zero(t, g.Winner())
}

func TestBeginPeriodFieldsFullStrength(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)

	assert.Equal(t, 1, g.Period())
	assert.Equal(t, 1200, g.Clock())
	assert.Equal(t, model.Strength{Home: 5, Away: 5}, g.Strength())
	assert.Equal(t, model.PhaseRegulation, g.Phase())
}

func TestMinorRunsItsFullClock(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	minorOn(t, g, state.Home)

	assert.Equal(t, 4, g.Strength().Home)
	tick(t, g, 119)
	assert.Equal(t, 4, g.Strength().Home, "still a man down one second before expiry")
	tick(t, g, 1)
	assert.Equal(t, 5, g.Strength().Home, "released skater steps straight back on")
	assert.Zero(t, g.Team(state.Home).PenaltyCount())
}

func TestPowerPlayGoalReleasesTheMinor(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	victim := minorOn(t, g, state.Away)
	assert.Equal(t, 4, g.Strength().Away)

	released := g.AddGoal(state.Home)
	assert.Equal(t, victim, released)
	assert.Equal(t, 5, g.Strength().Away)
	assert.Equal(t, model.Score{Home: 1}, g.Score())
}

func TestMajorSitsThroughGoalsAgainst(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	victim := g.Team(state.Away).OnIceIDs()[0]
	require.NoError(t, g.ApplyPenalty(state.Away, state.PenaltyCall{
		PlayerID:    victim,
		Severity:    model.SeverityMajor,
		CostsSkater: true,
	}))

	assert.Zero(t, g.AddGoal(state.Home), "a major never releases early")
	assert.Equal(t, 4, g.Strength().Away)

	tick(t, g, 299)
	assert.Equal(t, 4, g.Strength().Away)
	tick(t, g, 1)
	assert.Equal(t, 5, g.Strength().Away, "restored at the five-minute mark")
}

func TestDoubleMinorReleasesOneSegmentPerGoal(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	victim := g.Team(state.Away).OnIceIDs()[0]
	require.NoError(t, g.ApplyPenalty(state.Away, state.PenaltyCall{
		PlayerID:    victim,
		Severity:    model.SeverityDoubleMinor,
		Releasable:  true,
		CostsSkater: true,
	}))

	assert.Zero(t, g.AddGoal(state.Home), "first goal only closes the running segment")
	assert.Equal(t, 4, g.Strength().Away)

	assert.Equal(t, victim, g.AddGoal(state.Home), "second goal ends the penalty")
	assert.Equal(t, 5, g.Strength().Away)
}

func TestThirdPenaltyQueuesBehindTwoSlots(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	ids := g.Team(state.Away).OnIceIDs()
	for _, id := range ids[:3] {
		require.NoError(t, g.ApplyPenalty(state.Away, state.PenaltyCall{
			PlayerID:    id,
			Severity:    model.SeverityMinor,
			Releasable:  true,
			CostsSkater: true,
		}))
	}
	g.RebuildOnIce(state.Away)

	assert.Equal(t, 3, g.Strength().Away, "two penalties cost skaters, the floor holds")
	assert.Equal(t, 3, g.Team(state.Away).PenaltyCount())

	// the first two expire together; the queued one starts only then
	tick(t, g, 120)
	assert.Equal(t, 4, g.Strength().Away)
	assert.Equal(t, 1, g.Team(state.Away).PenaltyCount())

	tick(t, g, 119)
	assert.Equal(t, 4, g.Strength().Away, "the promoted minor serves its full time")
	tick(t, g, 1)
	assert.Equal(t, 5, g.Strength().Away)
	assert.Zero(t, g.Team(state.Away).PenaltyCount())
}

func TestMisconductCostsThePlayerNotTheTeam(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	victim := g.Team(state.Home).OnIceIDs()[0]
	require.NoError(t, g.ApplyPenalty(state.Home, state.PenaltyCall{
		PlayerID: victim,
		Severity: model.SeverityMisconduct,
	}))
	g.RebuildOnIce(state.Home)

	assert.Equal(t, 5, g.Strength().Home, "a substitute plays on")
	assert.Equal(t, 1, g.Team(state.Home).PenaltyCount())
	assert.NotContains(t, g.Team(state.Home).OnIceIDs(), victim)
}

func TestOffsettingMajorsKeepStrengthEven(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	h := g.Team(state.Home).OnIceIDs()[0]
	a := g.Team(state.Away).OnIceIDs()[0]
	require.NoError(t, g.ApplyPenalty(state.Home, state.PenaltyCall{PlayerID: h, Severity: model.SeverityMajor}))
	require.NoError(t, g.ApplyPenalty(state.Away, state.PenaltyCall{PlayerID: a, Severity: model.SeverityMajor}))
	g.RebuildOnIce(state.Home)
	g.RebuildOnIce(state.Away)

	assert.Equal(t, model.Strength{Home: 5, Away: 5}, g.Strength())
	assert.NotContains(t, g.Team(state.Home).OnIceIDs(), h)
	assert.NotContains(t, g.Team(state.Away).OnIceIDs(), a)
}

func TestPullGoalieAddsTheExtraAttacker(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	starter := g.Team(state.Home).GoalieID()

	g.PullGoalie(state.Home)
	g.RebuildOnIce(state.Home)
	assert.Zero(t, g.Team(state.Home).GoalieID())
	assert.Equal(t, 6, g.Strength().Home)
	require.NoError(t, g.CheckInvariants())

	g.ReturnGoalie(state.Home)
	g.RebuildOnIce(state.Home)
	assert.Equal(t, starter, g.Team(state.Home).GoalieID())
	assert.Equal(t, 5, g.Strength().Home)
}

func TestOvertimeIsThreeOnThree(t *testing.T) {
	g := newGame(t)
	for p := 0; p < 3; p++ {
		drainPeriod(t, g)
	}

	startPlay(t, g)
	assert.Equal(t, 4, g.Period())
	assert.Equal(t, 300, g.Clock())
	assert.True(t, g.InOvertime())
	assert.Equal(t, model.PhaseOvertime, g.Phase())
	assert.Equal(t, model.Strength{Home: 3, Away: 3}, g.Strength())
}

func TestOvertimePenaltyMeansFourOnThree(t *testing.T) {
	g := newGame(t)
	for p := 0; p < 3; p++ {
		drainPeriod(t, g)
	}
	startPlay(t, g)

	minorOn(t, g, state.Away)
	g.RebuildOnIce(state.Home)
	g.RebuildOnIce(state.Away)
	assert.Equal(t, model.Strength{Home: 4, Away: 3}, g.Strength(), "the advantage adds a skater instead of pulling one")
}

func TestShootoutDecidesATiedGame(t *testing.T) {
	g := newGame(t)
	for p := 0; p < 4; p++ {
		drainPeriod(t, g)
	}

	require.NoError(t, g.BeginShootout())
	assert.Equal(t, model.PhaseShootout, g.Phase())
	require.NoError(t, g.DecideShootout(state.Away))

	assert.Equal(t, state.StatusFinal, g.Status())
	assert.Equal(t, g.Team(state.Away).ID(), g.Winner())
	assert.Equal(t, model.Score{Home: 0, Away: 1}, g.Score(), "the deciding goal counts once")
}

func TestFinishRefusesATie(t *testing.T) {
	g := newGame(t)
	drainPeriod(t, g)

	err := g.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, state.ErrInvariant)

	g.AddGoal(state.Home)
	require.NoError(t, g.Finish())
	assert.Equal(t, g.Team(state.Home).ID(), g.Winner())
}

func TestTickOutsideAPeriodViolates(t *testing.T) {
	g := newGame(t)
	err := g.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, state.ErrInvariant)

	var inv *state.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, inv.Snapshot, "status=pregame")
}

func TestInjuredSkaterIsReplacedAtTheStoppage(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	victim := g.Team(state.Home).OnIceIDs()[0]

	require.NoError(t, g.Injure(state.Home, victim))
	g.RebuildOnIce(state.Home)

	assert.Equal(t, 5, g.Strength().Home)
	assert.NotContains(t, g.Team(state.Home).OnIceIDs(), victim)
	assert.True(t, g.Team(state.Home).IsInjured(victim))
}

func TestGoalieInjuryPromotesTheBackup(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	starter := g.Team(state.Home).GoalieID()

	require.NoError(t, g.Injure(state.Home, starter))
	backup := g.Team(state.Home).GoalieID()
	require.NotZero(t, backup)
	assert.NotEqual(t, starter, backup)
	assert.True(t, g.HasHealthyGoalie(state.Home))

	err := g.Injure(state.Home, backup)
	require.Error(t, err)
	assert.ErrorIs(t, err, state.ErrNoGoaltender)
	assert.False(t, g.HasHealthyGoalie(state.Home))
}

func TestTOIBucketsFollowStrength(t *testing.T) {
	g := newGame(t)
	startPlay(t, g)
	h0 := g.Team(state.Home).OnIceIDs()[0]
	goalie := g.Team(state.Home).GoalieID()

	tick(t, g, 30)
	assert.Equal(t, model.StrengthSplit{Even: 30}, g.Team(state.Home).TOI(h0))

	minorOn(t, g, state.Away)
	a0 := g.Team(state.Away).OnIceIDs()[0]
	tick(t, g, 120)

	// the expiry tick credits even strength: release resolves before ice time
	assert.Equal(t, model.StrengthSplit{Even: 31, PowerPlay: 119}, g.Team(state.Home).TOI(h0))
	assert.Equal(t, model.StrengthSplit{Even: 31, ShortHanded: 119}, g.Team(state.Away).TOI(a0))
	assert.Equal(t, 150, g.Team(state.Home).GoalieTOI(goalie))
}
