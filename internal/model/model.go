// Package model contains the domain entities shared across layers: players,
// ratings, rosters, strategies, events and boxscore shapes. I keep behavior
// here limited to small derivations (overall rating, roster filters) so the
// simulation packages own all the interesting logic.
package model

// Position identifies one of the six on-ice roles.
type Position string

const (
	Center       Position = "C"
	LeftWing     Position = "LW"
	RightWing    Position = "RW"
	LeftDefense  Position = "LD"
	RightDefense Position = "RD"
	Goaltender   Position = "G"
)

// Positions lists every valid position code.
func Positions() []Position {
	return []Position{Center, LeftWing, RightWing, LeftDefense, RightDefense, Goaltender}
}

// Valid reports whether p is one of the six known position codes.
func (p Position) Valid() bool {
	switch p {
	case Center, LeftWing, RightWing, LeftDefense, RightDefense, Goaltender:
		return true
	}
	return false
}

// IsGoaltender reports whether the position is the goaltending role.
func (p Position) IsGoaltender() bool { return p == Goaltender }

// IsForward reports whether the position is one of the three forward roles.
func (p Position) IsForward() bool {
	return p == Center || p == LeftWing || p == RightWing
}

// IsDefense reports whether the position is one of the two defense roles.
func (p Position) IsDefense() bool {
	return p == LeftDefense || p == RightDefense
}

// RatingMin and RatingMax bound every attribute value. 100 is deliberately
// unreachable so probability math keeps headroom above the best players.
const (
	RatingMin = 25
	RatingMax = 99
)

// SkaterRatings is the fixed attribute set for non-goaltenders.
// All values live in [RatingMin, RatingMax].
type SkaterRatings struct {
	Discipline       int `json:"discipline"`
	InjuryResistance int `json:"injury_resistance"`
	Fatigue          int `json:"fatigue"` // endurance: higher drains slower
	Passing          int `json:"passing"`
	Shooting         int `json:"shooting"`
	Defense          int `json:"defense"`
	PuckControl      int `json:"puck_control"`
	Checking         int `json:"checking"`
	Fighting         int `json:"fighting"`
	Poise            int `json:"poise"`
}

// Values returns the attributes in declaration order, for bounds checks and
// the overall derivation.
func (r SkaterRatings) Values() []int {
	return []int{
		r.Discipline, r.InjuryResistance, r.Fatigue, r.Passing, r.Shooting,
		r.Defense, r.PuckControl, r.Checking, r.Fighting, r.Poise,
	}
}

// GoalieRatings is the fixed attribute set for goaltenders.
// All values live in [RatingMin, RatingMax].
type GoalieRatings struct {
	Discipline       int `json:"discipline"`
	InjuryResistance int `json:"injury_resistance"`
	Fatigue          int `json:"fatigue"`
	Poise            int `json:"poise"`
	Movement         int `json:"movement"`
	ReboundControl   int `json:"rebound_control"`
	Vision           int `json:"vision"`
	Aggressiveness   int `json:"aggressiveness"`
	PuckControl      int `json:"puck_control"`
	Flexibility      int `json:"flexibility"`
}

// Values returns the attributes in declaration order.
func (r GoalieRatings) Values() []int {
	return []int{
		r.Discipline, r.InjuryResistance, r.Fatigue, r.Poise, r.Movement,
		r.ReboundControl, r.Vision, r.Aggressiveness, r.PuckControl, r.Flexibility,
	}
}

// Player is one roster entry. Exactly one of Skater or Goalie is set,
// matching the position: the two roles rate different things, so the record
// is tagged by role instead of sharing a single attribute bag.
type Player struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Position Position       `json:"position"`
	Skater   *SkaterRatings `json:"skater,omitempty"`
	Goalie   *GoalieRatings `json:"goalie,omitempty"`
}

// Overall derives the headline rating as the arithmetic mean of the
// role-appropriate attribute set, rounded to the nearest integer.
// It is never stored.
func (p Player) Overall() int {
	var vals []int
	switch {
	case p.Goalie != nil:
		vals = p.Goalie.Values()
	case p.Skater != nil:
		vals = p.Skater.Values()
	default:
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return (sum + len(vals)/2) / len(vals)
}

// Roster is a team's player pool for one game.
type Roster struct {
	TeamID   int64    `json:"team_id"`
	TeamName string   `json:"team_name"`
	Players  []Player `json:"players"`
}

// Skaters returns every non-goaltender on the roster.
func (r Roster) Skaters() []Player {
	out := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Position.IsGoaltender() {
			out = append(out, p)
		}
	}
	return out
}

// Goalies returns every goaltender on the roster.
func (r Roster) Goalies() []Player {
	var out []Player
	for _, p := range r.Players {
		if p.Position.IsGoaltender() {
			out = append(out, p)
		}
	}
	return out
}

// Player looks a roster entry up by ID.
func (r Roster) Player(id int64) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Team bundles the roster with the strategy its coach runs.
type Team struct {
	Roster   Roster       `json:"roster"`
	Strategy TeamStrategy `json:"strategy"`
}

// Matchup is the complete input of one simulated game.
type Matchup struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}
