// Package testkit builds matchup fixtures for tests. Every builder is
// deterministic: the same arguments always produce the same roster, so
// seed-pinned tests stay reproducible.
package testkit

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

var surnames = []string{
	"Aalto", "Barros", "Cormier", "Dubois", "Eklund", "Fontaine", "Grigorov",
	"Halonen", "Ivarsson", "Jokinen", "Karlsen", "Lindqvist", "Moreau",
	"Novak", "Okafor", "Pelletier", "Quist", "Renberg", "Sorokin", "Tikkanen",
	"Ullmark", "Virtanen", "Wallin",
}

func playerName(i int) string {
	return fmt.Sprintf("%c. %s", 'A'+rune(i%26), surnames[i%len(surnames)])
}

func clampRating(v int) int {
	if v < model.RatingMin {
		return model.RatingMin
	}
	if v > model.RatingMax {
		return model.RatingMax
	}
	return v
}

// Matchup pairs two league-average teams with neutral strategies.
func Matchup() model.Matchup {
	return MatchupRated(72, 70)
}

// MatchupRated pairs two full rosters around the given base ratings.
func MatchupRated(homeBase, awayBase int) model.Matchup {
	return model.Matchup{
		Home: model.Team{Roster: Roster(1, "Polar Bears", homeBase), Strategy: model.DefaultStrategy()},
		Away: model.Team{Roster: Roster(2, "Harbor Wolves", awayBase), Strategy: model.DefaultStrategy()},
	}
}

// Roster dresses a full professional lineup around a base rating: four
// forward lines in descending tiers, three defense pairs, two goaltenders.
// Player IDs are teamID*1000+slot, so two rosters never collide.
func Roster(teamID int64, name string, base int) model.Roster {
	r := model.Roster{TeamID: teamID, TeamName: name}
	id := func(slot int) int64 { return teamID*1000 + int64(slot) }

	lineTiers := []int{8, 3, -2, -6}
	slot := 0
	for line, tier := range lineTiers {
		for _, pos := range []model.Position{model.Center, model.LeftWing, model.RightWing} {
			p := Skater(id(slot), playerName(slot), pos, base+tier)
			if line == 3 {
				// the fourth line plays heavy
				p.Skater.Checking = clampRating(p.Skater.Checking + 8)
				p.Skater.Fighting = clampRating(p.Skater.Fighting + 12)
			}
			r.Players = append(r.Players, p)
			slot++
		}
	}

	pairTiers := []int{6, 0, -5}
	for _, tier := range pairTiers {
		for _, pos := range []model.Position{model.LeftDefense, model.RightDefense} {
			r.Players = append(r.Players, Skater(id(slot), playerName(slot), pos, base+tier))
			slot++
		}
	}

	r.Players = append(r.Players, Goalie(id(slot), playerName(slot), base+5))
	slot++
	r.Players = append(r.Players, Goalie(id(slot), playerName(slot), base-3))
	return r
}

// Skater builds one skater around a base rating, with role-flavored nudges.
func Skater(id int64, name string, pos model.Position, rating int) model.Player {
	b := clampRating(rating)
	s := model.SkaterRatings{
		Discipline:       clampRating(b + 2),
		InjuryResistance: b,
		Fatigue:          b,
		Passing:          b,
		Shooting:         b,
		Defense:          clampRating(b - 4),
		PuckControl:      b,
		Checking:         clampRating(b - 4),
		Fighting:         clampRating(b - 12),
		Poise:            b,
	}
	switch {
	case pos == model.Center:
		s.Passing = clampRating(b + 4)
		s.Poise = clampRating(b + 3)
	case pos.IsForward():
		s.Shooting = clampRating(b + 4)
	case pos.IsDefense():
		s.Defense = clampRating(b + 5)
		s.Checking = clampRating(b + 4)
		s.Shooting = clampRating(b - 6)
	}
	return model.Player{ID: id, Name: name, Position: pos, Skater: &s}
}

// Goalie builds one goaltender around a base rating.
func Goalie(id int64, name string, rating int) model.Player {
	b := clampRating(rating)
	g := model.GoalieRatings{
		Discipline:       clampRating(b + 4),
		InjuryResistance: b,
		Fatigue:          b,
		Poise:            b,
		Movement:         clampRating(b + 2),
		ReboundControl:   b,
		Vision:           b,
		Aggressiveness:   clampRating(b - 5),
		PuckControl:      clampRating(b - 3),
		Flexibility:      b,
	}
	return model.Player{ID: id, Name: name, Position: model.Goaltender, Goalie: &g}
}

// UniformRoster dresses a full lineup where every rating is exactly the
// given value, for probability floor and ceiling properties.
func UniformRoster(teamID int64, name string, rating int) model.Roster {
	r := Roster(teamID, name, rating)
	for i := range r.Players {
		p := &r.Players[i]
		if p.Goalie != nil {
			p.Goalie = &model.GoalieRatings{
				Discipline: rating, InjuryResistance: rating, Fatigue: rating,
				Poise: rating, Movement: rating, ReboundControl: rating,
				Vision: rating, Aggressiveness: rating, PuckControl: rating,
				Flexibility: rating,
			}
			continue
		}
		p.Skater = &model.SkaterRatings{
			Discipline: rating, InjuryResistance: rating, Fatigue: rating,
			Passing: rating, Shooting: rating, Defense: rating,
			PuckControl: rating, Checking: rating, Fighting: rating,
			Poise: rating,
		}
	}
	return r
}
