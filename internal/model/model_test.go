package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionValid(t *testing.T) {
	for _, p := range Positions() {
		assert.True(t, p.Valid(), "position %q", p)
	}
	assert.False(t, Position("W").Valid())
	assert.False(t, Position("").Valid())
}

func TestPositionRoles(t *testing.T) {
	tests := []struct {
		pos        Position
		forward    bool
		defense    bool
		goaltender bool
	}{
		{Center, true, false, false},
		{LeftWing, true, false, false},
		{RightWing, true, false, false},
		{LeftDefense, false, true, false},
		{RightDefense, false, true, false},
		{Goaltender, false, false, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.forward, tt.pos.IsForward(), "%s forward", tt.pos)
		assert.Equal(t, tt.defense, tt.pos.IsDefense(), "%s defense", tt.pos)
		assert.Equal(t, tt.goaltender, tt.pos.IsGoaltender(), "%s goaltender", tt.pos)
	}
}

func TestOverallIsTheRoundedMean(t *testing.T) {
	uniform := SkaterRatings{
		Discipline: 70, InjuryResistance: 70, Fatigue: 70, Passing: 70, Shooting: 70,
		Defense: 70, PuckControl: 70, Checking: 70, Fighting: 70, Poise: 70,
	}
	sk := Player{ID: 1, Position: Center, Skater: &uniform}
	assert.Equal(t, 70, sk.Overall())

	// sum 705 means a mean of 70.5, which rounds up
	bumped := uniform
	bumped.Shooting = 75
	sk.Skater = &bumped
	assert.Equal(t, 71, sk.Overall())

	gr := GoalieRatings{
		Discipline: 80, InjuryResistance: 80, Fatigue: 80, Poise: 80, Movement: 80,
		ReboundControl: 80, Vision: 80, Aggressiveness: 80, PuckControl: 80, Flexibility: 80,
	}
	gk := Player{ID: 2, Position: Goaltender, Goalie: &gr}
	assert.Equal(t, 80, gk.Overall())

	assert.Zero(t, Player{ID: 3}.Overall())
}

func TestRatingsValuesCoverEveryAttribute(t *testing.T) {
	assert.Len(t, SkaterRatings{}.Values(), 10)
	assert.Len(t, GoalieRatings{}.Values(), 10)
}

func TestRosterFilters(t *testing.T) {
	sk := SkaterRatings{}
	gr := GoalieRatings{}
	r := Roster{
		TeamID:   7,
		TeamName: "Testers",
		Players: []Player{
			{ID: 1, Position: Center, Skater: &sk},
			{ID: 2, Position: Goaltender, Goalie: &gr},
			{ID: 3, Position: LeftDefense, Skater: &sk},
		},
	}

	require.Len(t, r.Skaters(), 2)
	require.Len(t, r.Goalies(), 1)
	assert.Equal(t, int64(2), r.Goalies()[0].ID)

	p, ok := r.Player(3)
	require.True(t, ok)
	assert.Equal(t, LeftDefense, p.Position)
	_, ok = r.Player(99)
	assert.False(t, ok)
}

func TestStrengthLabel(t *testing.T) {
	assert.Equal(t, "5v4", Strength{Home: 5, Away: 4}.Label())
	assert.Equal(t, "3v3", Strength{Home: 3, Away: 3}.Label())
	assert.True(t, Strength{Home: 4, Away: 4}.Even())
	assert.False(t, Strength{Home: 6, Away: 5}.Even())
}

func TestPenaltySeverityMinutes(t *testing.T) {
	tests := []struct {
		severity PenaltySeverity
		minutes  int
	}{
		{SeverityMinor, 2},
		{SeverityDoubleMinor, 4},
		{SeverityMajor, 5},
		{SeverityMisconduct, 10},
		{PenaltySeverity("match"), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.minutes, tt.severity.BaseMinutes(), "%s", tt.severity)
	}
}

func TestElapsed(t *testing.T) {
	e := GameEvent{Clock: 780}
	assert.Equal(t, 420, e.Elapsed(1200))
}

func TestGameResultWinner(t *testing.T) {
	res := GameResult{
		Home:         TeamRef{ID: 1, Name: "Home"},
		Away:         TeamRef{ID: 2, Name: "Away"},
		WinnerTeamID: 2,
	}
	assert.Equal(t, "Away", res.Winner().Name)
	res.WinnerTeamID = 1
	assert.Equal(t, "Home", res.Winner().Name)
}
