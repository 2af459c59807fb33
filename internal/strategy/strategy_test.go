package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

func neutralSituation() Situation {
	return Situation{Phase: model.PhaseRegulation, SecondsLeft: 1200, PeriodLen: 1200}
}

func TestNeutralIsIdentity(t *testing.T) {
	m := Neutral()
	for _, f := range m.fields() {
		assert.Equal(t, 1.0, *f)
	}
}

func TestResolveDefaultStrategyStaysNearNeutral(t *testing.T) {
	m := Resolve(model.DefaultStrategy(), neutralSituation())

	// balanced/standard settings move nothing; umbrella nudges the power play
	assert.InDelta(t, 1.0, m.OwnAttempt, 1e-9)
	assert.InDelta(t, 1.0, m.OwnQuality, 1e-9)
	assert.InDelta(t, 1.0, m.PenaltyRate, 1e-9)
	assert.InDelta(t, 1.0+0.02*0.70, m.PowerPlay, 1e-9)
}

func TestResolveAlwaysWithinBounds(t *testing.T) {
	offenses := []model.OffensiveStyle{model.OffenseBalanced, model.OffenseAggressive, model.OffenseConservative}
	defenses := []model.DefensiveStyle{model.DefenseStandard, model.DefenseCollapsing, model.DefensePressure}
	forechecks := []model.ForecheckIntensity{model.ForecheckPassive, model.ForecheckStandard, model.ForecheckHeavy}
	risks := []model.RiskTolerance{model.RiskLow, model.RiskMedium, model.RiskHigh}
	situations := []Situation{
		neutralSituation(),
		{GoalDiff: -2, Phase: model.PhaseRegulation, SecondsLeft: 30, PeriodLen: 1200, FinalPeriod: true},
		{GoalDiff: 3, Phase: model.PhaseRegulation, SecondsLeft: 0, PeriodLen: 1200, FinalPeriod: true},
		{GoalDiff: 0, Phase: model.PhaseOvertime, SecondsLeft: 300, PeriodLen: 300},
	}

	for _, off := range offenses {
		for _, def := range defenses {
			for _, fc := range forechecks {
				for _, risk := range risks {
					st := model.TeamStrategy{
						Offense: off, Defense: def, Forecheck: fc,
						PowerPlay: model.PowerPlayOverload, PenaltyKill: model.PenaltyKillAggressive,
						Risk: risk, CoachRating: 99,
					}
					for i, sit := range situations {
						m := Resolve(st, sit)
						for _, f := range m.fields() {
							if *f < FactorMin || *f > FactorMax {
								t.Fatalf("factor %v out of bounds for %s/%s/%s/%s situation %d", *f, off, def, fc, risk, i)
							}
						}
					}
				}
			}
		}
	}
}

func TestCoachRatingScalesAdjustment(t *testing.T) {
	st := model.DefaultStrategy()
	st.Offense = model.OffenseAggressive

	st.CoachRating = 25
	weak := Resolve(st, neutralSituation())
	st.CoachRating = 99
	strong := Resolve(st, neutralSituation())

	assert.Greater(t, strong.OwnAttempt, weak.OwnAttempt)
	assert.Greater(t, weak.OwnAttempt, 1.0)
}

func TestTrailingTeamPushesLate(t *testing.T) {
	st := model.DefaultStrategy()
	sit := Situation{GoalDiff: -1, Phase: model.PhaseRegulation, SecondsLeft: 120, PeriodLen: 1200, FinalPeriod: true}

	m := Resolve(st, sit)
	base := Resolve(st, neutralSituation())

	// offense opens up and the trade shows on the other side of the ice
	assert.Greater(t, m.OwnAttempt, base.OwnAttempt)
	assert.Greater(t, m.OppAttempt, base.OppAttempt)
}

func TestLeadingTeamShellsLate(t *testing.T) {
	st := model.DefaultStrategy()
	st.Risk = model.RiskLow
	sit := Situation{GoalDiff: 2, Phase: model.PhaseRegulation, SecondsLeft: 60, PeriodLen: 1200, FinalPeriod: true}

	m := Resolve(st, sit)
	assert.Less(t, m.OwnAttempt, 1.0)
	assert.Greater(t, m.OppAttempt, 1.0)
	assert.Less(t, m.OppQuality, 1.0)
}

func TestScoreEffectsNeedTheFinalPeriod(t *testing.T) {
	st := model.DefaultStrategy()
	tests := []struct {
		name string
		sit  Situation
	}{
		{"second period", Situation{GoalDiff: -2, Phase: model.PhaseRegulation, SecondsLeft: 100, PeriodLen: 1200}},
		{"overtime", Situation{GoalDiff: -2, Phase: model.PhaseOvertime, SecondsLeft: 100, PeriodLen: 300, FinalPeriod: true}},
		{"blowout deficit", Situation{GoalDiff: -5, Phase: model.PhaseRegulation, SecondsLeft: 100, PeriodLen: 1200, FinalPeriod: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Resolve(st, tt.sit)
			assert.InDelta(t, 1.0, m.OwnAttempt, 1e-9, "no push expected")
		})
	}
}

func TestRiskToleranceSizesThePush(t *testing.T) {
	sit := Situation{GoalDiff: -1, Phase: model.PhaseRegulation, SecondsLeft: 60, PeriodLen: 1200, FinalPeriod: true}

	var attempts []float64
	for _, risk := range []model.RiskTolerance{model.RiskLow, model.RiskMedium, model.RiskHigh} {
		st := model.DefaultStrategy()
		st.Risk = risk
		attempts = append(attempts, Resolve(st, sit).OwnAttempt)
	}
	if !(attempts[0] < attempts[1] && attempts[1] < attempts[2]) {
		t.Fatalf("push should grow with risk tolerance, got %v", attempts)
	}
}

func ExampleResolve() {
	st := model.DefaultStrategy()
	st.Forecheck = model.ForecheckHeavy
	m := Resolve(st, Situation{Phase: model.PhaseRegulation, SecondsLeft: 900, PeriodLen: 1200})
	fmt.Printf("hit rate %.3f penalty exposure %.3f\n", m.HitRate, m.PenaltyRate)
	// Output: hit rate 1.175 penalty exposure 1.105
}
