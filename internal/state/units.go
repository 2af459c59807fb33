package state

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
)

// buildUnits assembles forward lines and defense pairs from the roster,
// best players first. Centers anchor lines when the roster has them;
// shortages fill from the best remaining forwards, then any skater.
func (ts *teamState) buildUnits() {
	used := make(map[int64]bool)

	var centers []int64
	for _, id := range ts.forwardOrder {
		if ts.players[id].Position == model.Center {
			centers = append(centers, id)
		}
	}

	lineCount := len(ts.forwardOrder) / 3
	if lineCount > 4 {
		lineCount = 4
	}
	if lineCount < 1 {
		lineCount = 1
	}
	for i := 0; i < lineCount; i++ {
		var line []int64
		if i < len(centers) {
			line = append(line, centers[i])
			used[centers[i]] = true
		}
		for _, id := range ts.forwardOrder {
			if len(line) == 3 {
				break
			}
			if !used[id] {
				line = append(line, id)
				used[id] = true
			}
		}
		if len(line) > 0 {
			ts.lines = append(ts.lines, line)
		}
	}

	pairCount := len(ts.defenseOrder) / 2
	if pairCount > 3 {
		pairCount = 3
	}
	if pairCount < 1 {
		pairCount = 1
	}
	for i := 0; i < pairCount; i++ {
		var pair []int64
		for _, id := range ts.defenseOrder {
			if len(pair) == 2 {
				break
			}
			if !used[id] {
				pair = append(pair, id)
				used[id] = true
			}
		}
		if len(pair) > 0 {
			ts.pairs = append(ts.pairs, pair)
		}
	}
}

// rotate advances to the best unit to send out next: deployment weight
// times restedness, ties to the lower index. The top line carries the
// biggest weight, so it plays the most while fatigue still forces spells.
func (ts *teamState) rotate(lineWeights, pairWeights []float64) {
	ts.currentLine = ts.pickUnit(ts.lines, lineWeights)
	ts.currentPair = ts.pickUnit(ts.pairs, pairWeights)
}

func (ts *teamState) pickUnit(units [][]int64, weights []float64) int {
	best, bestScore := 0, -1.0
	for i, unit := range units {
		avail := 0
		rested := 0.0
		for _, id := range unit {
			if ts.isAvailable(id) {
				avail++
				rested += 1 - ts.fatigue[id]/100
			}
		}
		if avail == 0 {
			continue
		}
		w := 0.4
		if i < len(weights) {
			w = weights[i]
		}
		score := w * rested / float64(avail)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// unitComposition says how many forwards to dress for a given skater count.
// Defense fills the remainder. Overtime leans forward-heavy.
func unitComposition(skaters int, overtime bool) (forwards int) {
	if overtime {
		switch skaters {
		case 3:
			return 2
		case 4:
			return 3
		default:
			return skaters - 2
		}
	}
	switch skaters {
	case 3:
		return 1
	case 4:
		return 2
	case 5:
		return 3
	default:
		return skaters - 2 // extra attackers are forwards
	}
}

// RebuildOnIce deploys a fresh unit for side. Only the engine calls it, and
// only at stoppages: this is where line changes, special-teams units and
// goalie pulls become visible to the game.
func (g *Game) RebuildOnIce(side Side) {
	ts := g.teams[side]
	ts.rotate(g.params.Fatigue.LineWeights, g.params.Fatigue.PairWeights)

	n := g.entitled(side)
	wantF := unitComposition(n, g.InOvertime())
	wantD := n - wantF

	picked := make([]int64, 0, n)
	used := make(map[int64]bool)
	take := func(id int64) {
		picked = append(picked, id)
		used[id] = true
	}

	if !g.InOvertime() {
		if ts.currentLine < len(ts.lines) {
			for _, id := range ts.lines[ts.currentLine] {
				if len(picked) < wantF && ts.isAvailable(id) {
					take(id)
				}
			}
		}
	}
	for _, id := range ts.forwardOrder {
		if len(picked) >= wantF {
			break
		}
		if !used[id] && ts.isAvailable(id) {
			take(id)
		}
	}

	defStart := len(picked)
	if !g.InOvertime() {
		if ts.currentPair < len(ts.pairs) {
			for _, id := range ts.pairs[ts.currentPair] {
				if len(picked)-defStart < wantD && ts.isAvailable(id) {
					take(id)
				}
			}
		}
	}
	for _, id := range ts.defenseOrder {
		if len(picked)-defStart >= wantD {
			break
		}
		if !used[id] && ts.isAvailable(id) {
			take(id)
		}
	}

	// any remaining shortage takes the best skater regardless of position
	for _, id := range ts.skaterOrder {
		if len(picked) >= n {
			break
		}
		if !used[id] && ts.isAvailable(id) {
			take(id)
		}
	}

	ts.onIce = picked
}

// PullGoalie empties the net for an extra attacker. Stoppages only.
func (g *Game) PullGoalie(side Side) {
	ts := g.teams[side]
	if ts.goalieID == 0 {
		return
	}
	ts.pulledGoalie = ts.goalieID
	ts.goalieID = 0
}

// ReturnGoalie puts the pulled goaltender back in the net. Stoppages only.
func (g *Game) ReturnGoalie(side Side) {
	ts := g.teams[side]
	if ts.goalieID != 0 {
		return
	}
	if ts.pulledGoalie != 0 && !ts.injured[ts.pulledGoalie] {
		ts.goalieID = ts.pulledGoalie
		ts.pulledGoalie = 0
		return
	}
	ts.pulledGoalie = 0
	g.promoteBackupGoalie(side)
}

// Injure removes a player from the game for good. An injured goaltender is
// replaced by the next one on the depth chart; when none is left the game
// cannot continue and the caller gets an error to surface.
func (g *Game) Injure(side Side, playerID int64) error {
	ts := g.teams[side]
	p, ok := ts.players[playerID]
	if !ok {
		return g.violation(fmt.Sprintf("injury to unknown player %d", playerID))
	}
	ts.injured[playerID] = true
	ts.removeFromIce(playerID)

	if p.Position.IsGoaltender() && ts.goalieID == playerID {
		ts.goalieID = 0
		if !g.promoteBackupGoalie(side) {
			return fmt.Errorf("team %d: %w", ts.team.Roster.TeamID, ErrNoGoaltender)
		}
	}
	return nil
}

// HasHealthyGoalie reports whether anyone can still tend the net.
func (g *Game) HasHealthyGoalie(side Side) bool {
	ts := g.teams[side]
	if ts.goalieID != 0 && !ts.injured[ts.goalieID] {
		return true
	}
	for _, id := range ts.benchGoalies {
		if !ts.injured[id] {
			return true
		}
	}
	return ts.pulledGoalie != 0 && !ts.injured[ts.pulledGoalie]
}

func (g *Game) promoteBackupGoalie(side Side) bool {
	ts := g.teams[side]
	for i, id := range ts.benchGoalies {
		if !ts.injured[id] {
			ts.goalieID = id
			ts.benchGoalies = append(ts.benchGoalies[:i], ts.benchGoalies[i+1:]...)
			return true
		}
	}
	return false
}

// CurrentLine returns the active forward line index.
func (v *TeamView) CurrentLine() int { return v.ts.currentLine }

// CurrentPair returns the active defense pair index.
func (v *TeamView) CurrentPair() int { return v.ts.currentPair }

// UnitOffense is the offense composite of the skaters on the ice.
func (v *TeamView) UnitOffense() float64 { return ratings.UnitOffense(v.OnIce()) }

// UnitDefense is the defense composite of the skaters on the ice.
func (v *TeamView) UnitDefense() float64 { return ratings.UnitDefense(v.OnIce()) }
