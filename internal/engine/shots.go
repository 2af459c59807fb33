package engine

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
)

// defensemen fire from the point, so they carry a reduced share of attempts
const defenseShotShare = 0.55

// the shooter who forced the rebound is first to the loose puck
const reboundFollowBoost = 2.0

// resolveAttempt runs one attempt through the block, miss, save and goal
// gates. Returns whether it scored.
func (r *run) resolveAttempt(side state.Side, f tickFactors, offRebound bool) (bool, error) {
	own := r.game.Team(side)
	opp := r.game.Team(side.Opponent())

	// an attempt means the attack reached the offensive zone
	r.possession = side
	r.zone = model.ZoneOffensive

	shooter, ok := pickPlayer(r.rng, own.OnIce(), func(p model.Player) float64 {
		w := ratings.Normalize(p.Skater.Shooting)
		if p.Position.IsDefense() {
			w *= defenseShotShare
		}
		if offRebound && p.ID == r.reboundByID {
			w *= reboundFollowBoost
		}
		return w
	})
	if !ok {
		return false, nil
	}

	ow := r.sim.weights.Outcome
	shooting := ratings.Normalize(shooter.Skater.Shooting)

	pBlock := ratings.ClampTo(
		ow.BlockBase+ow.BlockDefense*opp.UnitDefense()-ow.BlockPuckControl*ratings.Normalize(shooter.Skater.PuckControl),
		0.05, 0.40,
	)
	if chance(r.rng, pBlock) {
		r.blockShot(side, shooter)
		return false, nil
	}

	goalie, present := opp.Goalie()

	pMiss := ow.MissBase - ow.MissShooting*shooting
	if present {
		// an aggressive goaltender challenges shots that would drift wide,
		// turning misses into save attempts
		pMiss -= ow.MissChallenge * ratings.Normalize(goalie.Goalie.Aggressiveness)
	}
	if chance(r.rng, ratings.Clamp(pMiss)) {
		r.missShot(side, shooter, false)
		return false, nil
	}

	if !present {
		if chance(r.rng, ow.EmptyNetGoal) {
			return true, r.scoreGoal(side, shooter, offRebound, true)
		}
		// a sliding defender got enough of it to push the shot wide
		r.missShot(side, shooter, true)
		return false, nil
	}

	eff := ratings.GoalieEffectiveness(*goalie.Goalie)
	eff *= ratings.FatigueFactor(opp.Fatigue(goalie.ID), r.sim.weights.Fatigue.EffectMax)
	pGoal := ratings.Clamp(
		ow.GoalBase * (ow.QualityBase + ow.QualitySkill*shooting) * f.quality / (ow.GoalieDivBase + eff),
	)
	if chance(r.rng, pGoal) {
		return true, r.scoreGoal(side, shooter, offRebound, false)
	}

	return false, r.saveShot(side, shooter, goalie, offRebound)
}

func (r *run) blockShot(side state.Side, shooter model.Player) {
	opp := r.game.Team(side.Opponent())
	blocker, ok := pickPlayer(r.rng, opp.OnIce(), func(p model.Player) float64 {
		return ratings.SkaterDefense(*p.Skater)
	})
	if !ok {
		return
	}
	// the attacking side keeps the loose puck at the point
	r.emit(model.GameEvent{
		Type:        model.EventBlockedShot,
		Period:      r.game.Period(),
		Clock:       r.game.Clock(),
		TeamID:      r.teamID(side),
		PlayerID:    shooter.ID,
		SecondaryID: blocker.ID,
		Context:     model.EventContext{Zone: model.ZoneOffensive},
	})
}

func (r *run) missShot(side state.Side, shooter model.Player, emptyNet bool) {
	e := model.GameEvent{
		Type:     model.EventMissedShot,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   r.teamID(side),
		PlayerID: shooter.ID,
		Context:  model.EventContext{Zone: model.ZoneOffensive},
	}
	if emptyNet {
		e.Shot = &model.ShotDetail{EmptyNet: true}
	}
	r.emit(e)

	// the defenders corral the puck behind the net
	r.possession = side.Opponent()
	r.zone = model.ZoneDefensive
}

// scoreGoal credits the goal and its assists, applies the power-play
// release and schedules the center-ice faceoff.
func (r *run) scoreGoal(side state.Side, shooter model.Player, rebound, emptyNet bool) error {
	own := r.game.Team(side)
	r.game.AddGoal(side)

	assists := r.drawAssists(side, shooter)
	goal := model.GameEvent{
		Type:     model.EventGoal,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   own.ID(),
		PlayerID: shooter.ID,
		Context:  model.EventContext{Zone: model.ZoneOffensive},
		Shot:     &model.ShotDetail{Rebound: rebound, EmptyNet: emptyNet},
	}
	if len(assists) > 0 {
		goal.SecondaryID = assists[0].ID
	}
	if len(assists) > 1 {
		goal.TertiaryID = assists[1].ID
	}
	r.emit(goal)

	for _, a := range assists {
		r.emit(model.GameEvent{
			Type:        model.EventAssist,
			Period:      r.game.Period(),
			Clock:       r.game.Clock(),
			TeamID:      own.ID(),
			PlayerID:    a.ID,
			SecondaryID: shooter.ID,
			Context:     model.EventContext{Zone: model.ZoneOffensive},
		})
	}

	r.stopPlay(centerIce)
	return nil
}

// drawAssists picks zero, one or two helpers, best passers most often.
func (r *run) drawAssists(side state.Side, shooter model.Player) []model.Player {
	aw := r.sim.weights.Assist
	count := weightedIndex(r.rng, []float64{aw.ZeroProb, aw.OneProb, 1 - aw.ZeroProb - aw.OneProb})

	var assists []model.Player
	candidates := make([]model.Player, 0, 5)
	for _, p := range r.game.Team(side).OnIce() {
		if p.ID != shooter.ID {
			candidates = append(candidates, p)
		}
	}
	for len(assists) < count && len(candidates) > 0 {
		pick, ok := pickPlayer(r.rng, candidates, func(p model.Player) float64 {
			return ratings.Normalize(p.Skater.Passing)
		})
		if !ok {
			break
		}
		assists = append(assists, pick)
		for i, p := range candidates {
			if p.ID == pick.ID {
				candidates = append(candidates[:i], candidates[i+1:]...)
				break
			}
		}
	}
	return assists
}

// saveShot records the shot and the stop, then settles what the goaltender
// did with the puck: kicked a rebound out, froze it, or played it to his
// defense. A goaltender hurt on the shot leaves the game and play stops.
func (r *run) saveShot(side state.Side, shooter, goalie model.Player, offRebound bool) error {
	opp := side.Opponent()
	gw := r.sim.weights.Outcome

	goalieHurt := chance(r.rng, r.sim.weights.Contact.GoalieInjuryShot)

	rebound := false
	frozen := false
	if !goalieHurt {
		g := goalie.Goalie
		pRebound := gw.ReboundBase +
			gw.ReboundAggro*ratings.Normalize(g.Aggressiveness) -
			gw.ReboundControl*ratings.Normalize(g.ReboundControl) -
			gw.ReboundHands*ratings.Normalize(g.PuckControl)
		rebound = chance(r.rng, ratings.Clamp(pRebound))
		if !rebound {
			frozen = chance(r.rng, ratings.Clamp(gw.FreezeBase+gw.FreezeControl*ratings.Normalize(g.ReboundControl)))
		}
	}

	shot := model.GameEvent{
		Type:     model.EventShot,
		Period:   r.game.Period(),
		Clock:    r.game.Clock(),
		TeamID:   r.teamID(side),
		PlayerID: shooter.ID,
		Context:  model.EventContext{Zone: model.ZoneOffensive},
	}
	if offRebound {
		shot.Shot = &model.ShotDetail{Rebound: true}
	}
	r.emit(shot)

	save := model.GameEvent{
		Type:        model.EventSave,
		Period:      r.game.Period(),
		Clock:       r.game.Clock(),
		TeamID:      r.teamID(opp),
		PlayerID:    goalie.ID,
		SecondaryID: shooter.ID,
		Context:     model.EventContext{Zone: model.ZoneDefensive},
	}
	if frozen {
		save.Shot = &model.ShotDetail{Frozen: true}
	}
	r.emit(save)

	switch {
	case goalieHurt:
		if err := r.game.Injure(opp, goalie.ID); err != nil {
			return fmt.Errorf("goaltender injured on the shot: %w", err)
		}
		r.stopPlay(centerIce)
	case rebound:
		r.reboundLive = true
		r.reboundFor = side
		r.reboundByID = shooter.ID
	case frozen:
		r.stopPlay(faceoffSpot{benefit: side, zone: model.ZoneOffensive})
	default:
		// played to the defense, breakout the other way
		r.possession = opp
		r.zone = model.ZoneDefensive
	}
	return nil
}
