package engine

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
	"github.com/icelinehq/hockey-sim-engine/internal/strategy"
)

// candidate categories in priority order: when several fire on the same
// tick, a penalty beats a scoring chance beats everything else, and exactly
// one survives.
type category int

const (
	catPenalty category = iota
	catAttempt
	catHit
	catTakeaway
	catGiveaway
	catStoppage
)

// tickFactors is one side's resolved multipliers for the current tick.
type tickFactors struct {
	attempt float64
	quality float64
	penalty float64
	hit     float64
	take    float64
	give    float64
}

// playTick samples every candidate event for one second of play and
// resolves the single winner. Returns whether a goal was scored, which in
// overtime ends the game.
func (r *run) playTick() (goal bool, err error) {
	home := r.factorsFor(state.Home)
	away := r.factorsFor(state.Away)

	// fixed draw order keeps the stream reproducible
	var fired [2][6]bool
	fired[state.Home][catPenalty] = chance(r.rng, r.penaltyProb(state.Home, home))
	fired[state.Away][catPenalty] = chance(r.rng, r.penaltyProb(state.Away, away))
	fired[state.Home][catAttempt] = chance(r.rng, r.attemptProb(state.Home, home))
	fired[state.Away][catAttempt] = chance(r.rng, r.attemptProb(state.Away, away))
	fired[state.Home][catHit] = r.possession != state.Home && chance(r.rng, r.hitProb(state.Home, home))
	fired[state.Away][catHit] = r.possession != state.Away && chance(r.rng, r.hitProb(state.Away, away))
	fired[state.Home][catTakeaway] = r.possession != state.Home && chance(r.rng, r.takeawayProb(state.Home, home))
	fired[state.Away][catTakeaway] = r.possession != state.Away && chance(r.rng, r.takeawayProb(state.Away, away))
	fired[state.Home][catGiveaway] = r.possession == state.Home && chance(r.rng, r.giveawayProb(state.Home, home))
	fired[state.Away][catGiveaway] = r.possession == state.Away && chance(r.rng, r.giveawayProb(state.Away, away))
	stoppage := chance(r.rng, r.sim.weights.Attempt.StoppagePerTick)

	reboundWasLive := r.reboundLive
	r.reboundLive = false

	for cat := catPenalty; cat <= catGiveaway; cat++ {
		h, a := fired[state.Home][cat], fired[state.Away][cat]
		if !h && !a {
			continue
		}
		side := state.Home
		if h && a {
			if r.rng.Intn(2) == 1 {
				side = state.Away
			}
		} else if a {
			side = state.Away
		}
		switch cat {
		case catPenalty:
			return false, r.resolvePenalty(side)
		case catAttempt:
			factors := home
			if side == state.Away {
				factors = away
			}
			return r.resolveAttempt(side, factors, reboundWasLive && r.reboundFor == side)
		case catHit:
			return false, r.resolveHit(side)
		case catTakeaway:
			r.resolveTakeaway(side)
			return false, nil
		case catGiveaway:
			r.resolveGiveaway(side)
			return false, nil
		}
	}

	if stoppage {
		r.stopPlay(centerIce)
	}
	return false, nil
}

// factorsFor folds strategy, special situations and fatigue into one
// multiplier set for the side.
func (r *run) factorsFor(side state.Side) tickFactors {
	own := r.game.Team(side)
	opp := r.game.Team(side.Opponent())

	ownMods := strategy.Resolve(own.Strategy(), r.situation(side))
	oppMods := strategy.Resolve(opp.Strategy(), r.situation(side.Opponent()))

	f := tickFactors{
		attempt: ownMods.OwnAttempt * oppMods.OppAttempt,
		quality: ownMods.OwnQuality * oppMods.OppQuality,
		penalty: ownMods.PenaltyRate,
		hit:     ownMods.HitRate,
		take:    ownMods.Takeaway,
		give:    ownMods.Giveaway,
	}

	r.applyStrength(side, &f, ownMods, oppMods)

	fatigue := ratings.FatigueFactor(r.unitFatigue(side), r.sim.weights.Fatigue.EffectMax)
	f.attempt *= fatigue
	f.quality *= fatigue
	return f
}

// applyStrength layers the special-situation table onto the factors.
func (r *run) applyStrength(side state.Side, f *tickFactors, ownMods, oppMods strategy.Modifiers) {
	sw := r.sim.weights.Situation
	s := r.game.Strength()
	own, opp := s.Home, s.Away
	if side == state.Away {
		own, opp = opp, own
	}

	if r.game.InOvertime() {
		// a minor in overtime hands the other side an extra skater; the
		// power-play and kill tables stay out of it
		f.attempt *= sw.ThreeOnThreeAttempt
		f.quality *= sw.ThreeOnThreeQuality
		return
	}

	switch {
	case own > opp:
		// power play; a strong opposing kill claws part of it back
		f.attempt *= sw.PowerPlayAttempt * ownMods.PowerPlay * (2 - oppMods.PenaltyKill)
		f.quality *= sw.PowerPlayQuality
	case own < opp:
		f.attempt *= sw.PenaltyKillAttempt
		f.quality *= sw.PenaltyKillQuality
	case own == 4:
		f.attempt *= sw.FourOnFourAttempt
	case own == 3:
		f.attempt *= sw.ThreeOnThreeAttempt
		f.quality *= sw.ThreeOnThreeQuality
	}
}

func (r *run) situation(side state.Side) strategy.Situation {
	return strategy.Situation{
		GoalDiff:    r.game.Lead(side),
		Phase:       r.game.Phase(),
		SecondsLeft: r.game.Clock(),
		PeriodLen:   r.sim.rules.PeriodSeconds,
		FinalPeriod: r.game.Period() == r.sim.rules.Periods,
	}
}

func (r *run) unitFatigue(side state.Side) float64 {
	ids := r.game.Team(side).OnIceIDs()
	if len(ids) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range ids {
		sum += r.game.FatigueFor(side, id)
	}
	return sum / float64(len(ids))
}

func (r *run) attemptProb(side state.Side, f tickFactors) float64 {
	w := r.sim.weights.Attempt
	own := r.game.Team(side)
	opp := r.game.Team(side.Opponent())

	p := w.BasePerTick
	p *= w.AttackBase + w.AttackSkill*own.UnitOffense()
	p *= w.SuppressBase - w.SuppressSkill*opp.UnitDefense()
	p *= f.attempt
	if r.possession == side {
		p *= w.PossessionBoost
	} else {
		p *= 2 - w.PossessionBoost
	}
	if r.reboundLive && r.reboundFor == side {
		p *= r.sim.weights.Outcome.ReboundShotBoost
	}
	return ratings.Clamp(p)
}

func (r *run) penaltyProb(side state.Side, f tickFactors) float64 {
	w := r.sim.weights.Penalty
	unit := r.game.Team(side).OnIce()
	p := w.BasePerTick
	p *= w.DisciplineBase - w.DisciplineSkill*ratings.UnitDiscipline(unit)
	p *= f.penalty
	return ratings.Clamp(p)
}

func (r *run) hitProb(side state.Side, f tickFactors) float64 {
	w := r.sim.weights.Contact
	unit := r.game.Team(side).OnIce()
	p := w.HitPerTick
	p *= w.CheckingBase + w.CheckingSkill*ratings.UnitChecking(unit)
	p *= f.hit
	return ratings.Clamp(p)
}

func (r *run) takeawayProb(side state.Side, f tickFactors) float64 {
	w := r.sim.weights.Turnover
	unit := r.game.Team(side).OnIce()
	p := w.TakeawayPerTick
	p *= w.TakeawayBase + w.TakeawayPressure*ratings.UnitDefense(unit)
	p *= f.take
	return ratings.Clamp(p)
}

func (r *run) giveawayProb(side state.Side, f tickFactors) float64 {
	w := r.sim.weights.Turnover
	unit := r.game.Team(side).OnIce()
	p := w.GiveawayPerTick
	p *= w.GiveawayBase - w.GiveawayControl*ratings.UnitPuckControl(unit)
	p *= f.give
	return ratings.Clamp(p)
}

// stopPlay whistles play dead; the next loop iteration conducts the draw.
func (r *run) stopPlay(spot faceoffSpot) {
	r.pendingFaceoff = true
	r.spot = spot
	r.reboundLive = false
}

// conductFaceoff rotates fresh units onto the ice, settles goaltender pulls
// and resolves the draw. This is the only place line changes happen, so the
// event records the full on-ice picture for both sides.
func (r *run) conductFaceoff() error {
	r.evaluateGoaliePull(state.Home)
	r.evaluateGoaliePull(state.Away)
	r.game.RebuildOnIce(state.Home)
	r.game.RebuildOnIce(state.Away)
	if err := r.game.CheckInvariants(); err != nil {
		return err
	}

	home := r.game.Team(state.Home)
	away := r.game.Team(state.Away)
	hc, hok := home.FaceoffMan()
	ac, aok := away.FaceoffMan()
	if !hok || !aok {
		return fmt.Errorf("no skater available to take the faceoff")
	}

	w := r.sim.weights.Faceoff
	hSkill, hPoise := ratings.FaceoffComposite(*hc.Skater)
	aSkill, aPoise := ratings.FaceoffComposite(*ac.Skater)
	pHome := ratings.ClampTo(
		0.5+w.SkillWeight*(hSkill-aSkill)+w.PoiseWeight*(hPoise-aPoise),
		w.ClampMin, w.ClampMax,
	)

	winner := state.Home
	winC, loseC := hc, ac
	if !chance(r.rng, pHome) {
		winner = state.Away
		winC, loseC = ac, hc
	}

	r.possession = winner
	if r.spot.zone == model.ZoneNeutral {
		r.zone = model.ZoneNeutral
	} else if r.spot.benefit == winner {
		r.zone = r.spot.zone
	} else {
		r.zone = mirrorZone(r.spot.zone)
	}

	r.emit(model.GameEvent{
		Type:        model.EventFaceoff,
		Period:      r.game.Period(),
		Clock:       r.game.Clock(),
		TeamID:      r.teamID(winner),
		PlayerID:    winC.ID,
		SecondaryID: loseC.ID,
		Context: model.EventContext{
			Phase:    r.game.Phase(),
			Strength: r.game.Strength(),
			Zone:     r.zone,
		},
		Faceoff: &model.FaceoffDetail{
			HomeOnIce:  home.OnIceIDs(),
			AwayOnIce:  away.OnIceIDs(),
			HomeGoalie: home.GoalieID(),
			AwayGoalie: away.GoalieID(),
		},
	})

	r.pendingFaceoff = false
	return nil
}

func mirrorZone(z model.Zone) model.Zone {
	switch z {
	case model.ZoneOffensive:
		return model.ZoneDefensive
	case model.ZoneDefensive:
		return model.ZoneOffensive
	}
	return model.ZoneNeutral
}

// evaluateGoaliePull empties or restores the net between plays. Trailing
// close and late pulls the goaltender, with the risk tolerance setting the
// clock threshold; any other situation puts the goaltender back.
func (r *run) evaluateGoaliePull(side state.Side) {
	team := r.game.Team(side)
	rules := r.sim.rules

	deficit := -r.game.Lead(side)
	late := r.game.Period() == rules.Periods && r.game.Phase() == model.PhaseRegulation
	threshold := rules.GoaliePull.Medium
	switch team.Strategy().Risk {
	case model.RiskLow:
		threshold = rules.GoaliePull.Low
	case model.RiskHigh:
		threshold = rules.GoaliePull.High
	}

	shouldPull := late &&
		deficit > 0 && deficit <= rules.GoaliePullMaxDeficit &&
		r.game.Clock() <= threshold

	if shouldPull {
		r.game.PullGoalie(side)
	} else if team.GoalieID() == 0 {
		r.game.ReturnGoalie(side)
	}
}
