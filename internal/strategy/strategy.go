// Package strategy resolves coaching decisions into bounded multiplicative
// factors. The engine multiplies these into its base probabilities; nothing
// here rolls dice or mutates state.
package strategy

import (
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// FactorMin and FactorMax bound every resolved factor. Strategy tilts games,
// it never dominates them.
const (
	FactorMin = 0.5
	FactorMax = 1.5
)

// Modifiers is the full set of factors one team contributes to a tick.
// Own* apply to the team's chances, Opp* to the opponent's while this
// team defends. All values stay inside [FactorMin, FactorMax].
type Modifiers struct {
	OwnAttempt  float64
	OwnQuality  float64
	OppAttempt  float64
	OppQuality  float64
	PenaltyRate float64
	HitRate     float64
	Takeaway    float64
	Giveaway    float64
	PowerPlay   float64
	PenaltyKill float64
}

// Neutral returns the identity modifier set.
func Neutral() Modifiers {
	return Modifiers{
		OwnAttempt:  1,
		OwnQuality:  1,
		OppAttempt:  1,
		OppQuality:  1,
		PenaltyRate: 1,
		HitRate:     1,
		Takeaway:    1,
		Giveaway:    1,
		PowerPlay:   1,
		PenaltyKill: 1,
	}
}

// Situation is the game context the resolver reacts to: positive GoalDiff
// means this team leads. SecondsLeft counts down the current period;
// FinalPeriod marks the last regulation period, where score effects kick in.
type Situation struct {
	GoalDiff    int
	Phase       model.Phase
	SecondsLeft int
	PeriodLen   int
	FinalPeriod bool
}

// Resolve translates a strategy and the current situation into factors.
// Nominal adjustments scale by coach rating before clamping: a weak bench
// realizes only part of the scheme it calls.
func Resolve(st model.TeamStrategy, sit Situation) Modifiers {
	m := Neutral()

	switch st.Offense {
	case model.OffenseAggressive:
		m.OwnAttempt *= 1.15
		m.OwnQuality *= 0.95
		m.Giveaway *= 1.10
	case model.OffenseConservative:
		m.OwnAttempt *= 0.88
		m.OwnQuality *= 1.08
		m.Giveaway *= 0.92
	}

	switch st.Defense {
	case model.DefenseCollapsing:
		m.OppAttempt *= 1.05
		m.OppQuality *= 0.90
	case model.DefensePressure:
		m.OppAttempt *= 0.90
		m.OppQuality *= 1.06
		m.Takeaway *= 1.10
		m.PenaltyRate *= 1.08
	}

	switch st.Forecheck {
	case model.ForecheckHeavy:
		m.HitRate *= 1.25
		m.Takeaway *= 1.12
		m.PenaltyRate *= 1.15
		m.OppAttempt *= 0.97
	case model.ForecheckPassive:
		m.HitRate *= 0.80
		m.Takeaway *= 0.92
		m.PenaltyRate *= 0.90
		m.OppAttempt *= 1.04
	}

	switch st.PowerPlay {
	case model.PowerPlayOverload:
		m.PowerPlay *= 1.05
	case model.PowerPlayUmbrella:
		m.PowerPlay *= 1.02
	}

	switch st.PenaltyKill {
	case model.PenaltyKillDiamond:
		m.PenaltyKill *= 1.03
	case model.PenaltyKillAggressive:
		m.PenaltyKill *= 1.06
		m.PenaltyRate *= 1.10
	}

	switch st.Risk {
	case model.RiskHigh:
		m.Giveaway *= 1.08
		m.Takeaway *= 1.04
	case model.RiskLow:
		m.Giveaway *= 0.94
	}

	applyScore(&m, st, sit)

	coach := float64(st.CoachRating) / 100
	m.scale(coach)
	m.clamp()
	return m
}

// applyScore opens or closes the game based on the scoreboard. Only the
// final regulation period matters: earlier deficits are not yet desperate.
func applyScore(m *Modifiers, st model.TeamStrategy, sit Situation) {
	if !sit.FinalPeriod || sit.Phase != model.PhaseRegulation || sit.PeriodLen <= 0 {
		return
	}
	lateness := 1 - float64(sit.SecondsLeft)/float64(sit.PeriodLen)
	if lateness < 0 {
		lateness = 0
	}

	switch {
	case sit.GoalDiff < 0 && sit.GoalDiff >= -3:
		// trailing: trade defense for offense, harder the later it gets
		push := 0.10
		switch st.Risk {
		case model.RiskHigh:
			push = 0.20
		case model.RiskLow:
			push = 0.06
		}
		m.OwnAttempt *= 1 + push*lateness
		m.OppAttempt *= 1 + 0.5*push*lateness
		m.OppQuality *= 1 + 0.3*push*lateness
	case sit.GoalDiff > 0:
		// leading: shell up, concede perimeter attempts
		shell := 0.08
		if st.Offense == model.OffenseConservative || st.Risk == model.RiskLow {
			shell = 0.12
		}
		m.OwnAttempt *= 1 - 0.5*shell*lateness
		m.OppAttempt *= 1 + 0.5*shell*lateness
		m.OppQuality *= 1 - shell*lateness
	}
}

// scale moves every factor toward neutral by the coach effect.
func (m *Modifiers) scale(coach float64) {
	for _, f := range m.fields() {
		*f = 1 + (*f-1)*coach
	}
}

// clamp bounds every factor to [FactorMin, FactorMax].
func (m *Modifiers) clamp() {
	for _, f := range m.fields() {
		if *f < FactorMin {
			*f = FactorMin
		}
		if *f > FactorMax {
			*f = FactorMax
		}
	}
}

func (m *Modifiers) fields() []*float64 {
	return []*float64{
		&m.OwnAttempt, &m.OwnQuality, &m.OppAttempt, &m.OppQuality,
		&m.PenaltyRate, &m.HitRate, &m.Takeaway, &m.Giveaway,
		&m.PowerPlay, &m.PenaltyKill,
	}
}
