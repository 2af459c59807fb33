package engine

import (
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
)

// fightDrawShare is the slice of fights the officials score even.
const fightDrawShare = 0.10

// Infraction catalogs by severity, drawn uniformly once the severity lands.
var (
	minorInfractions = []string{
		"tripping", "hooking", "slashing", "interference",
		"holding", "high-sticking", "cross-checking", "delay of game", "roughing",
	}
	doubleMinorInfractions = []string{"high-sticking", "spearing"}
	majorInfractions       = []string{"boarding", "charging", "checking from behind"}
	misconductInfractions  = []string{"misconduct", "abuse of officials"}
)

// resolvePenalty books an infraction against side: a bench minor, a fight,
// or a timed penalty on the skater whose discipline gave out. Play stops
// and the wronged side gets the offensive-zone draw.
func (r *run) resolvePenalty(side state.Side) error {
	w := r.sim.weights.Penalty
	own := r.game.Team(side)

	if chance(r.rng, w.BenchShare) {
		return r.benchMinor(side)
	}

	penalized, ok := pickPlayer(r.rng, own.OnIce(), func(p model.Player) float64 {
		return w.DisciplineBase - w.DisciplineSkill*ratings.Normalize(p.Skater.Discipline)
	})
	if !ok {
		return nil
	}

	severity := r.drawSeverity()
	if severity == model.SeverityMajor && chance(r.rng, w.FightShare) {
		return r.resolveFight(side, penalized)
	}

	drawnBy, _ := pickPlayer(r.rng, r.game.Team(side.Opponent()).OnIce(), func(model.Player) float64 { return 1 })

	call := state.PenaltyCall{
		PlayerID:    penalized.ID,
		Severity:    severity,
		Releasable:  severity == model.SeverityMinor || severity == model.SeverityDoubleMinor,
		CostsSkater: severity != model.SeverityMisconduct,
	}

	r.emit(model.GameEvent{
		Type:        model.EventPenalty,
		Period:      r.game.Period(),
		Clock:       r.game.Clock(),
		TeamID:      own.ID(),
		PlayerID:    penalized.ID,
		SecondaryID: drawnBy.ID,
		Context:     model.EventContext{Zone: r.eventZone(side)},
		Penalty: &model.PenaltyDetail{
			Infraction: r.drawInfraction(severity),
			Severity:   severity,
			Minutes:    severity.BaseMinutes(),
			Releasable: call.Releasable,
		},
	})

	if err := r.game.ApplyPenalty(side, call); err != nil {
		return err
	}
	r.stopPlay(faceoffSpot{benefit: side.Opponent(), zone: model.ZoneOffensive})
	return nil
}

// benchMinor is too many men on the ice, served by the weakest skater out
// there so the top units stay whole.
func (r *run) benchMinor(side state.Side) error {
	own := r.game.Team(side)
	server := lowestOverall(own.OnIce())
	if server.ID == 0 {
		return nil
	}

	call := state.PenaltyCall{
		PlayerID:    server.ID,
		Severity:    model.SeverityMinor,
		Releasable:  true,
		CostsSkater: true,
	}

	r.emit(model.GameEvent{
		Type:     model.EventPenalty,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   own.ID(),
		PlayerID: server.ID,
		Context:  model.EventContext{Zone: r.eventZone(side)},
		Penalty: &model.PenaltyDetail{
			Infraction: "too many men on the ice",
			Severity:   model.SeverityMinor,
			Minutes:    model.SeverityMinor.BaseMinutes(),
			Releasable: true,
			Bench:      true,
		},
	})

	if err := r.game.ApplyPenalty(side, call); err != nil {
		return err
	}
	r.stopPlay(faceoffSpot{benefit: side.Opponent(), zone: model.ZoneOffensive})
	return nil
}

// resolveFight books coincidental majors on both combatants. Neither side
// loses a skater; the loser risks leaving the game hurt.
func (r *run) resolveFight(side state.Side, starter model.Player) error {
	opp := side.Opponent()
	answer, ok := pickPlayer(r.rng, r.game.Team(opp).OnIce(), func(p model.Player) float64 {
		return ratings.Normalize(p.Skater.Fighting)
	})
	if !ok {
		return nil
	}

	starterResult, answerResult := "draw", "draw"
	var loserSide state.Side
	var loser model.Player
	decided := !chance(r.rng, fightDrawShare)
	if decided {
		if chance(r.rng, ratings.FightOdds(*starter.Skater, *answer.Skater)) {
			starterResult, answerResult = "won", "lost"
			loserSide, loser = opp, answer
		} else {
			starterResult, answerResult = "lost", "won"
			loserSide, loser = side, starter
		}
	}
	loserHurt := decided && chance(r.rng, r.sim.weights.Contact.FightLossInjury)

	for _, half := range []struct {
		side    state.Side
		fighter model.Player
		other   model.Player
		result  string
	}{
		{side, starter, answer, starterResult},
		{opp, answer, starter, answerResult},
	} {
		r.emit(model.GameEvent{
			Type:        model.EventPenalty,
			Period:      r.game.Period(),
			Clock:       r.game.Clock(),
			TeamID:      r.teamID(half.side),
			PlayerID:    half.fighter.ID,
			SecondaryID: half.other.ID,
			Context:     model.EventContext{Zone: r.eventZone(half.side)},
			Penalty: &model.PenaltyDetail{
				Infraction: "fighting",
				Severity:   model.SeverityMajor,
				Minutes:    model.SeverityMajor.BaseMinutes(),
				Offsetting: true,
				Fight:      half.result,
			},
		})
		call := state.PenaltyCall{
			PlayerID: half.fighter.ID,
			Severity: model.SeverityMajor,
		}
		if err := r.game.ApplyPenalty(half.side, call); err != nil {
			return err
		}
	}

	if loserHurt {
		if err := r.game.Injure(loserSide, loser.ID); err != nil {
			return err
		}
	}

	r.stopPlay(centerIce)
	return nil
}

func (r *run) drawSeverity() model.PenaltySeverity {
	w := r.sim.weights.Penalty
	order := []model.PenaltySeverity{
		model.SeverityMinor, model.SeverityDoubleMinor,
		model.SeverityMajor, model.SeverityMisconduct,
	}
	i := weightedIndex(r.rng, []float64{w.MinorWeight, w.DoubleWeight, w.MajorWeight, w.MisconductWeight})
	return order[i]
}

func (r *run) drawInfraction(severity model.PenaltySeverity) string {
	var pool []string
	switch severity {
	case model.SeverityDoubleMinor:
		pool = doubleMinorInfractions
	case model.SeverityMajor:
		pool = majorInfractions
	case model.SeverityMisconduct:
		pool = misconductInfractions
	default:
		pool = minorInfractions
	}
	return pool[r.rng.Intn(len(pool))]
}

// eventZone renders the tracked zone from the event team's perspective.
func (r *run) eventZone(side state.Side) model.Zone {
	if side == r.possession {
		return r.zone
	}
	return mirrorZone(r.zone)
}

// lowestOverall returns the weakest of players, zero value when empty.
func lowestOverall(players []model.Player) model.Player {
	var out model.Player
	best := -1
	for _, p := range players {
		o := p.Overall()
		if best < 0 || o < best || (o == best && p.ID < out.ID) {
			out, best = p, o
		}
	}
	return out
}
