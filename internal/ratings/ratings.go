// Package ratings translates player attributes into the probability space
// the engine samples from. Everything here is a pure function of its inputs:
// no randomness, no state, no configuration beyond the weights passed in.
package ratings

import (
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// ProbFloor and ProbCeiling bound every event probability after all
// modifiers. Nothing in a game is ever impossible or certain.
const (
	ProbFloor   = 0.02
	ProbCeiling = 0.95
)

// Goaltender effectiveness mixes four attributes. Movement dominates
// because it covers the most net; flexibility matters least but rescues
// cross-crease chances.
const (
	goalieMovementWeight    = 0.35
	goalieReboundWeight     = 0.25
	goalieVisionWeight      = 0.25
	goalieFlexibilityWeight = 0.15
)

// Normalize maps a rating in [25, 99] to its probability-space weight.
// The divisor is 100, not 99, so even a perfect rating keeps headroom.
func Normalize(r int) float64 {
	return float64(r) / 100.0
}

// Clamp bounds p to the global floor and ceiling.
func Clamp(p float64) float64 {
	return ClampTo(p, ProbFloor, ProbCeiling)
}

// ClampTo bounds p to an explicit window.
func ClampTo(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

// SkaterOffense is the composite that drives chance creation: shooting,
// passing and puck control in equal parts.
func SkaterOffense(r model.SkaterRatings) float64 {
	return (Normalize(r.Shooting) + Normalize(r.Passing) + Normalize(r.PuckControl)) / 3
}

// SkaterDefense is the composite that suppresses chances against: positional
// defense and checking in equal parts.
func SkaterDefense(r model.SkaterRatings) float64 {
	return (Normalize(r.Defense) + Normalize(r.Checking)) / 2
}

// ShooterQuality is the composite a shot's conversion chance builds on.
func ShooterQuality(r model.SkaterRatings) float64 {
	return Normalize(r.Shooting)
}

// ShootoutComposite blends shooting and poise for the one-on-one format.
func ShootoutComposite(r model.SkaterRatings) float64 {
	return (Normalize(r.Shooting) + Normalize(r.Poise)) / 2
}

// FaceoffComposite is what a center brings to the dot.
func FaceoffComposite(r model.SkaterRatings) (skill, poise float64) {
	return Normalize(r.PuckControl), Normalize(r.Poise)
}

// GoalieEffectiveness folds the save-relevant attributes into one number
// in roughly the same [0.25, 0.99] range the inputs normalize to.
func GoalieEffectiveness(g model.GoalieRatings) float64 {
	return goalieMovementWeight*Normalize(g.Movement) +
		goalieReboundWeight*Normalize(g.ReboundControl) +
		goalieVisionWeight*Normalize(g.Vision) +
		goalieFlexibilityWeight*Normalize(g.Flexibility)
}

// UnitOffense averages SkaterOffense over a unit, ignoring goaltenders.
func UnitOffense(players []model.Player) float64 {
	return unitMean(players, SkaterOffense)
}

// UnitDefense averages SkaterDefense over a unit, ignoring goaltenders.
func UnitDefense(players []model.Player) float64 {
	return unitMean(players, SkaterDefense)
}

// UnitDiscipline averages normalized discipline over a unit. Higher means
// fewer penalties taken.
func UnitDiscipline(players []model.Player) float64 {
	return unitMean(players, func(r model.SkaterRatings) float64 {
		return Normalize(r.Discipline)
	})
}

// UnitChecking averages normalized checking over a unit.
func UnitChecking(players []model.Player) float64 {
	return unitMean(players, func(r model.SkaterRatings) float64 {
		return Normalize(r.Checking)
	})
}

// UnitPuckControl averages normalized puck control over a unit.
func UnitPuckControl(players []model.Player) float64 {
	return unitMean(players, func(r model.SkaterRatings) float64 {
		return Normalize(r.PuckControl)
	})
}

func unitMean(players []model.Player, f func(model.SkaterRatings) float64) float64 {
	sum, n := 0.0, 0
	for _, p := range players {
		if p.Skater == nil {
			continue
		}
		sum += f(*p.Skater)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// FatigueFactor converts an energy deficit in [0, 100] into a multiplicative
// handicap in [1-effectMax, 1].
func FatigueFactor(level, effectMax float64) float64 {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return 1 - effectMax*level/100
}

// FightOdds gives the first fighter's chance of winning a bout from the two
// fighting ratings, kept inside [0.15, 0.85] so upsets stay on the table.
func FightOdds(a, b model.SkaterRatings) float64 {
	diff := Normalize(a.Fighting) - Normalize(b.Fighting)
	return ClampTo(0.5+0.9*diff, 0.15, 0.85)
}
