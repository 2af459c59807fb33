package stats_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/engine"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/stats"
	"github.com/icelinehq/hockey-sim-engine/internal/testkit"
)

// stream numbers events as they are appended so hand-built fixtures stay
// dense without bookkeeping in the test bodies.
type stream struct {
	events []model.GameEvent
}

func (s *stream) add(e model.GameEvent) {
	e.Sequence = len(s.events)
	s.events = append(s.events, e)
}

func (s *stream) periodStart(period, clock int) {
	s.add(model.GameEvent{Period: period, Clock: clock, Type: model.EventPeriodStart})
}

func (s *stream) periodEnd(period, clock int) {
	s.add(model.GameEvent{Period: period, Clock: clock, Type: model.EventPeriodEnd})
}

func ids(players []model.Player, n int) []int64 {
	out := make([]int64, 0, n)
	for _, p := range players[:n] {
		out = append(out, p.ID)
	}
	return out
}

func TestAggregateMatchesEngineBoxscore(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	sim := engine.NewSimulator(&cfg, zerolog.Nop())

	for seed := int64(1); seed <= 5; seed++ {
		res, err := sim.Simulate(context.Background(), m, seed)
		require.NoError(t, err)

		first, err := stats.Aggregate(res.Events, m, stats.Params{Rules: cfg.Rules})
		require.NoError(t, err)
		second, err := stats.Aggregate(res.Events, m, stats.Params{Rules: cfg.Rules})
		require.NoError(t, err)

		assert.Equal(t, first, second, "seed %d: the fold must be pure", seed)
		assert.Equal(t, res.Boxscore, *first, "seed %d: refolding the stream must match the sealed boxscore", seed)
	}
}

func TestPowerPlayGoalClassification(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	hs, as := m.Home.Roster.Skaters(), m.Away.Roster.Skaters()
	homeID, awayID := m.Home.Roster.TeamID, m.Away.Roster.TeamID
	hg, ag := m.Home.Roster.Goalies()[0].ID, m.Away.Roster.Goalies()[0].ID
	scorer, helper, winner := hs[0], hs[1], hs[0]
	loser, penalized := as[0], as[1]

	var st stream
	st.add(model.GameEvent{Period: 1, Clock: cfg.Rules.PeriodSeconds, Type: model.EventGameStart})
	st.periodStart(1, 1200)
	st.add(model.GameEvent{
		Period: 1, Clock: 1200, Type: model.EventFaceoff,
		TeamID: homeID, PlayerID: winner.ID, SecondaryID: loser.ID,
		Faceoff: &model.FaceoffDetail{
			HomeOnIce: ids(hs, 5), AwayOnIce: ids(as, 5),
			HomeGoalie: hg, AwayGoalie: ag,
		},
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1100, Type: model.EventPenalty,
		TeamID: awayID, PlayerID: penalized.ID,
		Penalty: &model.PenaltyDetail{
			Infraction: "tripping", Severity: model.SeverityMinor,
			Minutes: 2, Releasable: true,
		},
	})
	shortSide := append(ids(as, 5)[:1], ids(as, 5)[2:]...)
	st.add(model.GameEvent{
		Period: 1, Clock: 1100, Type: model.EventFaceoff,
		TeamID: homeID, PlayerID: winner.ID, SecondaryID: loser.ID,
		Faceoff: &model.FaceoffDetail{
			HomeOnIce: ids(hs, 5), AwayOnIce: shortSide,
			HomeGoalie: hg, AwayGoalie: ag,
		},
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1050, Type: model.EventGoal,
		TeamID: homeID, PlayerID: scorer.ID, SecondaryID: helper.ID,
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1050, Type: model.EventAssist,
		TeamID: homeID, PlayerID: helper.ID, SecondaryID: scorer.ID,
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1050, Type: model.EventFaceoff,
		TeamID: homeID, PlayerID: winner.ID, SecondaryID: loser.ID,
		Faceoff: &model.FaceoffDetail{
			HomeOnIce: ids(hs, 5), AwayOnIce: ids(as, 5),
			HomeGoalie: hg, AwayGoalie: ag,
		},
	})
	st.periodEnd(1, 1000)

	box, err := stats.Aggregate(st.events, m, stats.Params{Rules: cfg.Rules})
	require.NoError(t, err)

	home, away := box.Home.Team, box.Away.Team
	assert.Equal(t, 1, home.Goals)
	assert.Equal(t, 1, home.PowerPlays)
	assert.Equal(t, 1, home.PowerPlayGoals)
	assert.Equal(t, 100.0, home.PowerPlayPct)
	assert.Equal(t, 100.0, home.ShootingPct)
	assert.Equal(t, 3, home.FaceoffWins)
	assert.Equal(t, 1, away.TimesShortHanded)
	assert.Equal(t, 1, away.PowerPlayGoalsIn)
	assert.Equal(t, 0.0, away.PenaltyKillPct)
	assert.Equal(t, 2, away.PIM)

	scorerRow := box.Home.Skaters[0]
	require.Equal(t, scorer.ID, scorerRow.PlayerID)
	assert.Equal(t, 1, scorerRow.Goals)
	assert.Equal(t, 1, scorerRow.Points)
	assert.Equal(t, 3, scorerRow.FaceoffWins)
	assert.Equal(t, model.StrengthSplit{Even: 150, PowerPlay: 50}, scorerRow.TOI)

	helperRow := box.Home.Skaters[1]
	assert.Equal(t, 1, helperRow.Assists)
	assert.Equal(t, 1, helperRow.Points)

	loserRow := box.Away.Skaters[0]
	assert.Equal(t, 3, loserRow.FaceoffLosses)
	assert.Equal(t, model.StrengthSplit{Even: 150, ShortHanded: 50}, loserRow.TOI)

	boxedRow := box.Away.Skaters[1]
	require.Equal(t, penalized.ID, boxedRow.PlayerID)
	assert.Equal(t, 2, boxedRow.PIM)
	assert.Equal(t, model.StrengthSplit{Even: 150}, boxedRow.TOI, "box time earns no ice time")

	require.Len(t, box.Away.Goalies, 1)
	keeper := box.Away.Goalies[0]
	assert.Equal(t, ag, keeper.PlayerID)
	assert.Equal(t, 1, keeper.ShotsAgainst)
	assert.Equal(t, 1, keeper.GoalsAgainst)
	assert.Equal(t, 0, keeper.Saves)
	assert.Equal(t, 200, keeper.TOISeconds)

	require.Len(t, box.Periods, 3)
	assert.Equal(t, model.PeriodScore{Period: 1, Label: "1", Home: 1}, box.Periods[0])
}

func TestShortHandedGoalClassification(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	hs, as := m.Home.Roster.Skaters(), m.Away.Roster.Skaters()
	homeID := m.Home.Roster.TeamID
	hg, ag := m.Home.Roster.Goalies()[0].ID, m.Away.Roster.Goalies()[0].ID

	var st stream
	st.periodStart(1, 1200)
	st.add(model.GameEvent{
		Period: 1, Clock: 1200, Type: model.EventFaceoff,
		TeamID: homeID, PlayerID: hs[0].ID, SecondaryID: as[0].ID,
		Faceoff: &model.FaceoffDetail{
			HomeOnIce: ids(hs, 5), AwayOnIce: ids(as, 5),
			HomeGoalie: hg, AwayGoalie: ag,
		},
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1150, Type: model.EventPenalty,
		TeamID: homeID, PlayerID: hs[4].ID,
		Penalty: &model.PenaltyDetail{
			Infraction: "hooking", Severity: model.SeverityMinor,
			Minutes: 2, Releasable: true,
		},
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1150, Type: model.EventFaceoff,
		TeamID: homeID, PlayerID: hs[0].ID, SecondaryID: as[0].ID,
		Faceoff: &model.FaceoffDetail{
			HomeOnIce: ids(hs, 4), AwayOnIce: ids(as, 5),
			HomeGoalie: hg, AwayGoalie: ag,
		},
	})
	st.add(model.GameEvent{
		Period: 1, Clock: 1100, Type: model.EventGoal,
		TeamID: homeID, PlayerID: hs[0].ID,
	})
	st.periodEnd(1, 1090)

	box, err := stats.Aggregate(st.events, m, stats.Params{Rules: cfg.Rules})
	require.NoError(t, err)

	home, away := box.Home.Team, box.Away.Team
	assert.Equal(t, 1, home.Goals)
	assert.Equal(t, 1, home.ShortHandedGoals)
	assert.Equal(t, 0, home.PowerPlayGoals)
	assert.Equal(t, 1, home.TimesShortHanded)
	assert.Equal(t, 1, away.PowerPlays)
	assert.Equal(t, 0, away.PowerPlayGoals)
	assert.Equal(t, 100.0, away.PenaltyKillPct, "a short-handed goal against does not dent the kill")
}

func TestShootoutLinescore(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	hs, as := m.Home.Roster.Skaters(), m.Away.Roster.Skaters()
	homeID, awayID := m.Home.Roster.TeamID, m.Away.Roster.TeamID
	ag, hg := m.Away.Roster.Goalies()[0].ID, m.Home.Roster.Goalies()[0].ID

	so := model.EventContext{Phase: model.PhaseShootout, Strength: model.Strength{Home: 3, Away: 3}}

	var st stream
	for p := 1; p <= 3; p++ {
		st.periodStart(p, 1200)
		st.periodEnd(p, 0)
	}
	st.periodStart(4, 300)
	st.periodEnd(4, 0)
	st.add(model.GameEvent{Period: 5, Clock: 0, Type: model.EventPeriodStart, Context: so})
	st.add(model.GameEvent{
		Period: 5, Type: model.EventGoal, TeamID: homeID, PlayerID: hs[0].ID,
		Context: so, Shootout: &model.ShootoutDetail{Round: 1, GoalieID: ag},
	})
	st.add(model.GameEvent{
		Period: 5, Type: model.EventShot, TeamID: awayID, PlayerID: as[0].ID,
		Context: so, Shootout: &model.ShootoutDetail{Round: 1, GoalieID: hg},
	})
	st.add(model.GameEvent{
		Period: 5, Type: model.EventSave, TeamID: homeID, PlayerID: hg, SecondaryID: as[0].ID,
		Context: so, Shootout: &model.ShootoutDetail{Round: 1, GoalieID: hg},
	})
	st.add(model.GameEvent{
		Period: 5, Type: model.EventMissedShot, TeamID: awayID, PlayerID: as[1].ID,
		Context: so, Shootout: &model.ShootoutDetail{Round: 2, GoalieID: hg},
	})
	st.add(model.GameEvent{
		Period: 5, Type: model.EventGameEnd, Context: so,
		GameEnd: &model.GameEndDetail{WinnerTeamID: homeID, DecidedBy: model.DecidedInShootout},
	})

	box, err := stats.Aggregate(st.events, m, stats.Params{Rules: cfg.Rules})
	require.NoError(t, err)

	assert.Equal(t, 1, box.Home.Team.Goals, "the deciding goal counts for the team")
	assert.Equal(t, 0, box.Away.Team.Goals)
	assert.Equal(t, 0, box.Home.Skaters[0].Goals, "shootout conversions stay off skater lines")
	assert.Empty(t, box.Home.Goalies, "shootout saves stay off goaltender lines")

	require.NotNil(t, box.Home.Shootout)
	require.NotNil(t, box.Away.Shootout)
	assert.Equal(t, model.ShootoutLine{Attempts: 1, Goals: 1}, *box.Home.Shootout)
	assert.Equal(t, model.ShootoutLine{Attempts: 2, Goals: 0}, *box.Away.Shootout)

	require.Len(t, box.Periods, 5)
	assert.Equal(t, "OT", box.Periods[3].Label)
	assert.Equal(t, model.PeriodScore{Period: 5, Label: "SO", Home: 1, Away: 0}, box.Periods[4])
}

func TestAggregateRejectsBrokenStreams(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()
	hs, as := m.Home.Roster.Skaters(), m.Away.Roster.Skaters()
	homeID := m.Home.Roster.TeamID
	hg, ag := m.Home.Roster.Goalies()[0].ID, m.Away.Roster.Goalies()[0].ID

	opening := func() stream {
		var st stream
		st.periodStart(1, 1200)
		st.add(model.GameEvent{
			Period: 1, Clock: 1200, Type: model.EventFaceoff,
			TeamID: homeID, PlayerID: hs[0].ID, SecondaryID: as[0].ID,
			Faceoff: &model.FaceoffDetail{
				HomeOnIce: ids(hs, 5), AwayOnIce: ids(as, 5),
				HomeGoalie: hg, AwayGoalie: ag,
			},
		})
		return st
	}

	tests := []struct {
		name    string
		events  func() []model.GameEvent
		wantErr string
	}{
		{
			name: "sequence gap",
			events: func() []model.GameEvent {
				st := opening()
				st.events[1].Sequence = 7
				return st.events
			},
			wantErr: "not dense",
		},
		{
			name: "clock runs backwards",
			events: func() []model.GameEvent {
				st := opening()
				st.add(model.GameEvent{Period: 1, Clock: 1300, Type: model.EventHit, TeamID: homeID, PlayerID: hs[0].ID})
				return st.events
			},
			wantErr: "runs backwards",
		},
		{
			name: "unknown team",
			events: func() []model.GameEvent {
				st := opening()
				st.add(model.GameEvent{Period: 1, Clock: 1100, Type: model.EventHit, TeamID: 777, PlayerID: hs[0].ID})
				return st.events
			},
			wantErr: "unknown team",
		},
		{
			name: "unknown skater",
			events: func() []model.GameEvent {
				st := opening()
				st.add(model.GameEvent{Period: 1, Clock: 1100, Type: model.EventGoal, TeamID: homeID, PlayerID: 424242})
				return st.events
			},
			wantErr: "unknown skater",
		},
		{
			name: "unknown event type",
			events: func() []model.GameEvent {
				st := opening()
				st.add(model.GameEvent{Period: 1, Clock: 1100, Type: model.EventType("zamboni"), TeamID: homeID})
				return st.events
			},
			wantErr: "unknown type",
		},
		{
			name: "faceoff without detail",
			events: func() []model.GameEvent {
				var st stream
				st.periodStart(1, 1200)
				st.add(model.GameEvent{Period: 1, Clock: 1200, Type: model.EventFaceoff, TeamID: homeID, PlayerID: hs[0].ID, SecondaryID: as[0].ID})
				return st.events
			},
			wantErr: "missing its detail",
		},
		{
			name: "penalty without detail",
			events: func() []model.GameEvent {
				st := opening()
				st.add(model.GameEvent{Period: 1, Clock: 1100, Type: model.EventPenalty, TeamID: homeID, PlayerID: hs[0].ID})
				return st.events
			},
			wantErr: "missing its detail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stats.Aggregate(tt.events(), m, stats.Params{Rules: cfg.Rules})
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAggregateRejectsCollidingRosters(t *testing.T) {
	m := testkit.Matchup()
	m.Away.Roster.TeamID = m.Home.Roster.TeamID

	_, err := stats.Aggregate(nil, m, stats.Params{Rules: config.Default().Rules})
	require.Error(t, err)
	assert.ErrorContains(t, err, "both rosters")
}

func TestAggregateEmptyStream(t *testing.T) {
	cfg := config.Default()
	m := testkit.Matchup()

	box, err := stats.Aggregate(nil, m, stats.Params{Rules: cfg.Rules})
	require.NoError(t, err)

	assert.Len(t, box.Home.Skaters, 18)
	assert.Len(t, box.Away.Skaters, 18)
	assert.Empty(t, box.Home.Goalies, "a goaltender who never played gets no row")
	assert.Equal(t, m.Home.Roster.TeamName, box.Home.Team.Name)
	assert.Equal(t, m.Home.Roster.Skaters()[0].ID, box.Home.Skaters[0].PlayerID, "rows keep roster order")
	require.Len(t, box.Periods, 3)
	for i, p := range box.Periods {
		assert.Equal(t, i+1, p.Period)
		assert.Zero(t, p.Home)
		assert.Zero(t, p.Away)
	}
	assert.Nil(t, box.Home.Shootout)
}
