package state

import (
	"fmt"
	"sort"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
)

// teamState is one side's mutable record. All ordering inside is
// deterministic: sorted snapshots are built once at construction and every
// later pick breaks ties by player ID.
type teamState struct {
	team    model.Team
	players map[int64]model.Player

	lines       [][]int64 // forward lines, best first
	pairs       [][]int64 // defense pairs, best first
	currentLine int
	currentPair int

	goalieID     int64 // in the net right now, 0 while pulled
	pulledGoalie int64 // remembered across a pull so the same goalie returns
	benchGoalies []int64

	onIce []int64 // skaters only

	box    []*boxEntry
	queued []*boxEntry

	injured map[int64]bool
	fatigue map[int64]float64

	toi       map[int64]*model.StrengthSplit
	goalieTOI map[int64]int

	// rating-ordered snapshots for deterministic fills
	forwardOrder []int64 // by offense composite
	defenseOrder []int64 // by defense composite
	skaterOrder  []int64 // by overall
	shooterOrder []int64 // by shooting plus poise, for the shootout
}

func newTeamState(team model.Team, startingGoalie int64) (*teamState, error) {
	ts := &teamState{
		team:      team,
		players:   make(map[int64]model.Player, len(team.Roster.Players)),
		injured:   make(map[int64]bool),
		fatigue:   make(map[int64]float64),
		toi:       make(map[int64]*model.StrengthSplit),
		goalieTOI: make(map[int64]int),
	}
	for _, p := range team.Roster.Players {
		ts.players[p.ID] = p
	}

	starter, ok := ts.players[startingGoalie]
	if !ok || !starter.Position.IsGoaltender() {
		return nil, fmt.Errorf("starting goaltender %d is not a goaltender on team %d", startingGoalie, team.Roster.TeamID)
	}
	ts.goalieID = startingGoalie
	for _, gk := range sortPlayers(team.Roster.Goalies(), func(p model.Player) float64 {
		return ratings.GoalieEffectiveness(*p.Goalie)
	}) {
		if gk != startingGoalie {
			ts.benchGoalies = append(ts.benchGoalies, gk)
		}
	}

	skaters := team.Roster.Skaters()
	ts.forwardOrder = sortPlayers(filterPlayers(skaters, model.Position.IsForward), func(p model.Player) float64 {
		return ratings.SkaterOffense(*p.Skater)
	})
	ts.defenseOrder = sortPlayers(filterPlayers(skaters, model.Position.IsDefense), func(p model.Player) float64 {
		return ratings.SkaterDefense(*p.Skater)
	})
	ts.skaterOrder = sortPlayers(skaters, func(p model.Player) float64 {
		return float64(p.Overall())
	})
	ts.shooterOrder = sortPlayers(skaters, func(p model.Player) float64 {
		return ratings.ShootoutComposite(*p.Skater)
	})

	ts.buildUnits()
	return ts, nil
}

// sortPlayers orders by metric descending, player ID ascending on ties.
func sortPlayers(players []model.Player, metric func(model.Player) float64) []int64 {
	type scored struct {
		id    int64
		score float64
	}
	rows := make([]scored, 0, len(players))
	for _, p := range players {
		rows = append(rows, scored{id: p.ID, score: metric(p)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		return rows[i].id < rows[j].id
	})
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func filterPlayers(players []model.Player, keep func(model.Position) bool) []model.Player {
	var out []model.Player
	for _, p := range players {
		if keep(p.Position) {
			out = append(out, p)
		}
	}
	return out
}

// isAvailable reports whether a player can take the ice: on the roster,
// healthy, not sitting in the box and not in the net.
func (ts *teamState) isAvailable(id int64) bool {
	p, ok := ts.players[id]
	if !ok || p.Position.IsGoaltender() {
		return false
	}
	if ts.injured[id] {
		return false
	}
	for _, e := range ts.box {
		if e.playerID == id {
			return false
		}
	}
	for _, e := range ts.queued {
		if e.playerID == id {
			return false
		}
	}
	return true
}

func (ts *teamState) onIceSet() map[int64]bool {
	set := make(map[int64]bool, len(ts.onIce))
	for _, id := range ts.onIce {
		set[id] = true
	}
	return set
}

func (ts *teamState) removeFromIce(id int64) {
	for i, cur := range ts.onIce {
		if cur == id {
			ts.onIce = append(ts.onIce[:i], ts.onIce[i+1:]...)
			return
		}
	}
}

// tickFatigue drains everyone on the ice and recovers everyone off it.
// Goaltenders drain at a fraction of the skater rate; endurance scales both.
func (ts *teamState) tickFatigue(w config.FatigueWeights) {
	const goalieDrainShare = 0.15

	onIce := ts.onIceSet()
	for id, p := range ts.players {
		switch {
		case onIce[id]:
			endurance := ratings.Normalize(p.Skater.Fatigue)
			ts.fatigue[id] += w.DrainPerTick * (w.DrainScaleBase - endurance)
		case id == ts.goalieID:
			endurance := ratings.Normalize(p.Goalie.Fatigue)
			ts.fatigue[id] += goalieDrainShare * w.DrainPerTick * (w.DrainScaleBase - endurance)
		default:
			ts.fatigue[id] -= w.RecoverPerTick
		}
		if ts.fatigue[id] < 0 {
			ts.fatigue[id] = 0
		}
		if ts.fatigue[id] > 100 {
			ts.fatigue[id] = 100
		}
	}
}

// tickTOI credits one second to everyone on the ice, bucketed by situation.
func (ts *teamState) tickTOI(b bucket) {
	for _, id := range ts.onIce {
		split := ts.toi[id]
		if split == nil {
			split = &model.StrengthSplit{}
			ts.toi[id] = split
		}
		switch b {
		case bucketPowerPlay:
			split.PowerPlay++
		case bucketShortHanded:
			split.ShortHanded++
		default:
			split.Even++
		}
	}
	if ts.goalieID != 0 {
		ts.goalieTOI[ts.goalieID]++
	}
}

func (ts *teamState) injuredList() []int64 {
	var out []int64
	for id, hurt := range ts.injured {
		if hurt {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TeamView is the engine's read window into one side. Mutations go through
// Game methods so cross-team bookkeeping stays in one place.
type TeamView struct {
	game *Game
	side Side
	ts   *teamState
}

// ID returns the team ID.
func (v *TeamView) ID() int64 { return v.ts.team.Roster.TeamID }

// Name returns the team name.
func (v *TeamView) Name() string { return v.ts.team.Roster.TeamName }

// Strategy returns the coaching setup.
func (v *TeamView) Strategy() model.TeamStrategy { return v.ts.team.Strategy }

// OnIceIDs returns a copy of the skater IDs currently playing.
func (v *TeamView) OnIceIDs() []int64 {
	out := make([]int64, len(v.ts.onIce))
	copy(out, v.ts.onIce)
	return out
}

// OnIce resolves the current skaters to their roster entries.
func (v *TeamView) OnIce() []model.Player {
	out := make([]model.Player, 0, len(v.ts.onIce))
	for _, id := range v.ts.onIce {
		out = append(out, v.ts.players[id])
	}
	return out
}

// GoalieID returns the goaltender in the net, 0 while pulled.
func (v *TeamView) GoalieID() int64 { return v.ts.goalieID }

// Goalie resolves the goaltender in the net.
func (v *TeamView) Goalie() (model.Player, bool) {
	if v.ts.goalieID == 0 {
		return model.Player{}, false
	}
	return v.ts.players[v.ts.goalieID], true
}

// Player resolves any roster entry by ID.
func (v *TeamView) Player(id int64) (model.Player, bool) {
	p, ok := v.ts.players[id]
	return p, ok
}

// FaceoffMan picks who takes the draw: the best available center on the
// ice, or failing that the best puck handler out there.
func (v *TeamView) FaceoffMan() (model.Player, bool) {
	var best model.Player
	var bestScore float64 = -1
	for _, id := range v.ts.onIce {
		p := v.ts.players[id]
		skill, poise := ratings.FaceoffComposite(*p.Skater)
		score := skill + 0.4*poise
		if p.Position == model.Center {
			score += 10 // centers take the draw whenever one is out there
		}
		if score > bestScore || (score == bestScore && p.ID < best.ID) {
			best, bestScore = p, score
		}
	}
	if bestScore < 0 {
		return model.Player{}, false
	}
	return best, true
}

// Fatigue returns the player's current energy deficit.
func (v *TeamView) Fatigue(id int64) float64 { return v.ts.fatigue[id] }

// IsInjured reports whether the player has left the game hurt.
func (v *TeamView) IsInjured(id int64) bool { return v.ts.injured[id] }

// TOI returns a skater's accumulated ice time by situation.
func (v *TeamView) TOI(id int64) model.StrengthSplit {
	if split := v.ts.toi[id]; split != nil {
		return *split
	}
	return model.StrengthSplit{}
}

// GoalieTOI returns a goaltender's seconds played.
func (v *TeamView) GoalieTOI(id int64) int { return v.ts.goalieTOI[id] }

// ShootoutOrder returns the healthy skaters in shooting order: the best
// blend of shooting and poise first.
func (v *TeamView) ShootoutOrder() []model.Player {
	var out []model.Player
	for _, id := range v.ts.shooterOrder {
		if v.ts.isAvailable(id) {
			out = append(out, v.ts.players[id])
		}
	}
	return out
}

// PenaltyCount returns how many timed penalties the side is serving or
// waiting to serve.
func (v *TeamView) PenaltyCount() int { return len(v.ts.box) + len(v.ts.queued) }

// ShortHanded reports whether the side is playing down a skater.
func (v *TeamView) ShortHanded() bool {
	s := v.game.Strength()
	if v.side == Home {
		return s.Home < s.Away
	}
	return s.Away < s.Home
}
