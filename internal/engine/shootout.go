package engine

import (
	"context"
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/ratings"
	"github.com/icelinehq/hockey-sim-engine/internal/state"
)

// shootoutBaseline centers the shooter and goaltender composites so an
// average matchup converts at the configured base rate.
const shootoutBaseline = 0.62

// shootoutMissShare is the slice of failed attempts that go wide instead
// of being stopped.
const shootoutMissShare = 0.30

// playShootout settles a game still tied after overtime: alternating
// attempts, away side first, the minimum rounds then sudden death. An
// attempt that cannot change the outcome is never taken.
func (r *run) playShootout(ctx context.Context) error {
	if err := r.game.BeginShootout(); err != nil {
		return err
	}
	soPeriod := r.sim.rules.Periods + 2
	soContext := func(zone model.Zone) model.EventContext {
		return model.EventContext{
			Phase:    model.PhaseShootout,
			Strength: r.game.Strength(),
			Zone:     zone,
		}
	}

	r.emit(model.GameEvent{Type: model.EventPeriodStart, Period: soPeriod, Clock: 0, Context: soContext("")})

	minRounds := r.sim.rules.ShootoutMinRounds
	if len(r.game.Team(state.Home).ShootoutOrder()) == 0 || len(r.game.Team(state.Away).ShootoutOrder()) == 0 {
		return fmt.Errorf("no healthy skater left to take the shootout")
	}

	var goals, shots [2]int
	decided := func() (state.Side, bool) {
		hs, as := shots[state.Home], shots[state.Away]
		hg, ag := goals[state.Home], goals[state.Away]
		if hs < minRounds || as < minRounds {
			// clinched when the lead beats everything the trailer has left
			if hg > ag+(minRounds-as) {
				return state.Home, true
			}
			if ag > hg+(minRounds-hs) {
				return state.Away, true
			}
			return state.Home, false
		}
		if hs == as && hg != ag {
			if ag > hg {
				return state.Away, true
			}
			return state.Home, true
		}
		return state.Home, false
	}

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation cancelled: %w", err)
		}
		for _, side := range []state.Side{state.Away, state.Home} {
			if _, over := decided(); over {
				break
			}
			if r.shootoutAttempt(side, round, soContext) {
				goals[side]++
			}
			shots[side]++
		}
		if winner, over := decided(); over {
			r.emit(model.GameEvent{Type: model.EventPeriodEnd, Period: soPeriod, Clock: 0, Context: soContext("")})
			if err := r.game.DecideShootout(winner); err != nil {
				return err
			}
			r.emit(model.GameEvent{
				Type:    model.EventGameEnd,
				Period:  soPeriod,
				Clock:   0,
				Context: soContext(""),
				GameEnd: &model.GameEndDetail{WinnerTeamID: r.game.Winner(), DecidedBy: model.DecidedInShootout},
			})
			return nil
		}
	}
}

// shootoutAttempt runs one shooter in from center ice and reports whether
// he scored. Shooters cycle through the prepared order as rounds pile up.
func (r *run) shootoutAttempt(side state.Side, round int, soContext func(model.Zone) model.EventContext) bool {
	order := r.game.Team(side).ShootoutOrder()
	shooter := order[(round-1)%len(order)]
	defense := r.game.Team(side.Opponent())
	soPeriod := r.sim.rules.Periods + 2

	w := r.sim.weights.Shootout
	goalie, present := defense.Goalie()
	scored := true // an empty net from center ice is a formality
	if present {
		comp := ratings.ShootoutComposite(*shooter.Skater)
		eff := ratings.GoalieEffectiveness(*goalie.Goalie)
		p := ratings.ClampTo(
			w.GoalBase+w.ShooterWeight*(comp-shootoutBaseline)-w.GoalieWeight*(eff-shootoutBaseline),
			w.ClampMin, w.ClampMax,
		)
		scored = chance(r.rng, p)
	}

	detail := func() *model.ShootoutDetail {
		return &model.ShootoutDetail{Round: round, GoalieID: defense.GoalieID()}
	}

	if scored {
		r.emit(model.GameEvent{
			Type:     model.EventGoal,
			Period:   soPeriod,
			Clock:    0,
			TeamID:   r.teamID(side),
			PlayerID: shooter.ID,
			Context:  soContext(model.ZoneOffensive),
			Shootout: detail(),
		})
		return true
	}

	if chance(r.rng, shootoutMissShare) {
		r.emit(model.GameEvent{
			Type:     model.EventMissedShot,
			Period:   soPeriod,
			Clock:    0,
			TeamID:   r.teamID(side),
			PlayerID: shooter.ID,
			Context:  soContext(model.ZoneOffensive),
			Shootout: detail(),
		})
		return false
	}

	r.emit(model.GameEvent{
		Type:     model.EventShot,
		Period:   soPeriod,
		Clock:    0,
		TeamID:   r.teamID(side),
		PlayerID: shooter.ID,
		Context:  soContext(model.ZoneOffensive),
		Shootout: detail(),
	})
	r.emit(model.GameEvent{
		Type:        model.EventSave,
		Period:      soPeriod,
		Clock:       0,
		TeamID:      defense.ID(),
		PlayerID:    goalie.ID,
		SecondaryID: shooter.ID,
		Context:     soContext(model.ZoneDefensive),
		Shootout:    detail(),
	})
	return false
}
