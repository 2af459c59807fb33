package service

import (
	"fmt"
	"strings"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// Roster bounds the validator enforces. Six skaters keeps a full regulation
// unit on the ice with one in hand; 23 dressed players matches a
// professional game sheet.
const (
	minRosterSkaters = 6
	maxRosterPlayers = 23
)

// validateMatchup checks everything the engine assumes about its input:
// identities, roster shape, rating bounds, the role-tagged rating records
// and the strategy enumerations. All failures aggregate into one
// ErrInvalidInput so a caller sees the whole list at once.
func validateMatchup(m model.Matchup) error {
	v := &matchupValidator{seen: make(map[int64]string)}
	v.team("home", m.Home)
	v.team("away", m.Away)
	if m.Home.Roster.TeamID > 0 && m.Home.Roster.TeamID == m.Away.Roster.TeamID {
		v.add("away.team_id", "must differ from home.team_id")
	}
	return newInvalidInput(v.ferrs)
}

type matchupValidator struct {
	ferrs []FieldError
	seen  map[int64]string // player ID to the path that first used it
}

func (v *matchupValidator) add(field, msg string) {
	v.ferrs = append(v.ferrs, FieldError{Field: field, Message: msg})
}

func (v *matchupValidator) team(prefix string, t model.Team) {
	r := t.Roster
	if r.TeamID <= 0 {
		v.add(prefix+".team_id", "must be > 0")
	}
	if strings.TrimSpace(r.TeamName) == "" {
		v.add(prefix+".team_name", "must be set")
	}
	if len(r.Players) > maxRosterPlayers {
		v.add(prefix+".players", fmt.Sprintf("at most %d players may dress, got %d", maxRosterPlayers, len(r.Players)))
	}

	skaters, goalies := 0, 0
	for i, p := range r.Players {
		v.player(fmt.Sprintf("%s.players[%d]", prefix, i), p)
		switch {
		case p.Position.IsGoaltender():
			goalies++
		case p.Position.Valid():
			skaters++
		}
	}
	if skaters < minRosterSkaters {
		v.add(prefix+".players", fmt.Sprintf("needs at least %d skaters, has %d", minRosterSkaters, skaters))
	}
	if goalies < 1 {
		v.add(prefix+".players", "needs at least one goaltender")
	}

	v.strategy(prefix+".strategy", t.Strategy)
}

func (v *matchupValidator) player(path string, p model.Player) {
	if p.ID <= 0 {
		v.add(path+".id", "must be > 0")
	} else if prev, dup := v.seen[p.ID]; dup {
		v.add(path+".id", fmt.Sprintf("duplicates %s", prev))
	} else {
		v.seen[p.ID] = path
	}
	if strings.TrimSpace(p.Name) == "" {
		v.add(path+".name", "must be set")
	}
	if !p.Position.Valid() {
		v.add(path+".position", "must be one of C|LW|RW|LD|RD|G")
		return
	}

	if p.Position.IsGoaltender() {
		if p.Goalie == nil {
			v.add(path+".goalie", "goaltenders carry goalie ratings")
		} else {
			v.ratings(path+".goalie", goalieRatingFields(*p.Goalie))
		}
		if p.Skater != nil {
			v.add(path+".skater", "goaltenders must not carry skater ratings")
		}
		return
	}
	if p.Skater == nil {
		v.add(path+".skater", "skaters carry skater ratings")
	} else {
		v.ratings(path+".skater", skaterRatingFields(*p.Skater))
	}
	if p.Goalie != nil {
		v.add(path+".goalie", "skaters must not carry goalie ratings")
	}
}

func (v *matchupValidator) ratings(path string, fields []ratingField) {
	for _, f := range fields {
		if f.value < model.RatingMin || f.value > model.RatingMax {
			v.add(path+"."+f.name, fmt.Sprintf("must be within [%d, %d], got %d", model.RatingMin, model.RatingMax, f.value))
		}
	}
}

func (v *matchupValidator) strategy(path string, s model.TeamStrategy) {
	if !validOffense(s.Offense) {
		v.add(path+".offense", "must be one of balanced|aggressive|conservative")
	}
	if !validDefense(s.Defense) {
		v.add(path+".defense", "must be one of standard|collapsing|pressure")
	}
	if !validForecheck(s.Forecheck) {
		v.add(path+".forecheck", "must be one of passive|standard|heavy")
	}
	if !validPowerPlay(s.PowerPlay) {
		v.add(path+".power_play", "must be one of umbrella|overload")
	}
	if !validPenaltyKill(s.PenaltyKill) {
		v.add(path+".penalty_kill", "must be one of box|diamond|aggressive")
	}
	if !validGoalieUsage(s.GoalieUsage) {
		v.add(path+".goalie_usage", "must be one of starter|split")
	}
	if !validRisk(s.Risk) {
		v.add(path+".risk", "must be one of low|medium|high")
	}
	if s.CoachRating < model.RatingMin || s.CoachRating > model.RatingMax {
		v.add(path+".coach_rating", fmt.Sprintf("must be within [%d, %d], got %d", model.RatingMin, model.RatingMax, s.CoachRating))
	}
}

type ratingField struct {
	name  string
	value int
}

func skaterRatingFields(r model.SkaterRatings) []ratingField {
	return []ratingField{
		{"discipline", r.Discipline},
		{"injury_resistance", r.InjuryResistance},
		{"fatigue", r.Fatigue},
		{"passing", r.Passing},
		{"shooting", r.Shooting},
		{"defense", r.Defense},
		{"puck_control", r.PuckControl},
		{"checking", r.Checking},
		{"fighting", r.Fighting},
		{"poise", r.Poise},
	}
}

func goalieRatingFields(r model.GoalieRatings) []ratingField {
	return []ratingField{
		{"discipline", r.Discipline},
		{"injury_resistance", r.InjuryResistance},
		{"fatigue", r.Fatigue},
		{"poise", r.Poise},
		{"movement", r.Movement},
		{"rebound_control", r.ReboundControl},
		{"vision", r.Vision},
		{"aggressiveness", r.Aggressiveness},
		{"puck_control", r.PuckControl},
		{"flexibility", r.Flexibility},
	}
}

func validOffense(s model.OffensiveStyle) bool {
	switch s {
	case model.OffenseBalanced, model.OffenseAggressive, model.OffenseConservative:
		return true
	}
	return false
}

func validDefense(s model.DefensiveStyle) bool {
	switch s {
	case model.DefenseStandard, model.DefenseCollapsing, model.DefensePressure:
		return true
	}
	return false
}

func validForecheck(s model.ForecheckIntensity) bool {
	switch s {
	case model.ForecheckPassive, model.ForecheckStandard, model.ForecheckHeavy:
		return true
	}
	return false
}

func validPowerPlay(s model.PowerPlayStyle) bool {
	switch s {
	case model.PowerPlayUmbrella, model.PowerPlayOverload:
		return true
	}
	return false
}

func validPenaltyKill(s model.PenaltyKillStyle) bool {
	switch s {
	case model.PenaltyKillBox, model.PenaltyKillDiamond, model.PenaltyKillAggressive:
		return true
	}
	return false
}

func validGoalieUsage(s model.GoalieUsage) bool {
	switch s {
	case model.GoalieStarter, model.GoalieSplit:
		return true
	}
	return false
}

func validRisk(s model.RiskTolerance) bool {
	switch s {
	case model.RiskLow, model.RiskMedium, model.RiskHigh:
		return true
	}
	return false
}
