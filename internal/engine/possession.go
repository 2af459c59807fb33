package engine

import (
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
)

// Possession transitions follow one rule: the tracked zone is always from
// the possessing side's point of view, so it mirrors whenever the puck
// changes hands. Events record the zone from the event team's perspective
// at the moment they fired.

// resolveHit lands a body check. The puck comes loose to the hitting side;
// the target risks leaving the game, which stops play.
func (r *run) resolveHit(side state.Side) error {
	own := r.game.Team(side)
	opp := r.game.Team(side.Opponent())

	hitter, ok := pickPlayer(r.rng, own.OnIce(), func(p model.Player) float64 {
		return ratings.Normalize(p.Skater.Checking)
	})
	if !ok {
		return nil
	}
	target, ok := pickPlayer(r.rng, opp.OnIce(), func(model.Player) float64 { return 1 })
	if !ok {
		return nil
	}

	w := r.sim.weights.Contact
	pInjury := w.InjuryPerHit * (w.ResistanceBase - w.ResistanceSkill*ratings.Normalize(target.Skater.InjuryResistance))
	injured := chance(r.rng, ratings.Clamp(pInjury))

	r.possession = side
	r.zone = mirrorZone(r.zone)

	e := model.GameEvent{
		Type:        model.EventHit,
		Period:      r.game.Period(),
		Clock:       r.game.Clock(),
		TeamID:      own.ID(),
		PlayerID:    hitter.ID,
		SecondaryID: target.ID,
		Context:     model.EventContext{Zone: r.zone},
	}
	if injured {
		e.Hit = &model.HitDetail{InjuredID: target.ID}
	}
	r.emit(e)

	if injured {
		if err := r.game.Injure(side.Opponent(), target.ID); err != nil {
			return err
		}
		r.stopPlay(centerIce)
	}
	return nil
}

// resolveTakeaway strips the puck from the carrier.
func (r *run) resolveTakeaway(side state.Side) {
	own := r.game.Team(side)
	taker, ok := pickPlayer(r.rng, own.OnIce(), func(p model.Player) float64 {
		return ratings.SkaterDefense(*p.Skater)
	})
	if !ok {
		return
	}

	r.possession = side
	r.zone = mirrorZone(r.zone)

	r.emit(model.GameEvent{
		Type:     model.EventTakeaway,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   own.ID(),
		PlayerID: taker.ID,
		Context:  model.EventContext{Zone: r.zone},
	})
}

// resolveGiveaway coughs the puck up unforced.
func (r *run) resolveGiveaway(side state.Side) {
	own := r.game.Team(side)
	giver, ok := pickPlayer(r.rng, own.OnIce(), func(p model.Player) float64 {
		return 1.05 - ratings.Normalize(p.Skater.PuckControl)
	})
	if !ok {
		return
	}

	eventZone := r.zone
	r.possession = side.Opponent()
	r.zone = mirrorZone(eventZone)

	r.emit(model.GameEvent{
		Type:     model.EventGiveaway,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   own.ID(),
		PlayerID: giver.ID,
		Context:  model.EventContext{Zone: eventZone},
	})
}
