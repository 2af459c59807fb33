// Package config holds every tunable the simulation reads: game rules,
// probability weights and calibration bands, next to the logger settings.
// Nothing in the engine packages carries a magic number; it all routes
// through here so a tuning pass never touches simulation code.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/icelinehq/hockey-sim-engine/internal/logger"
)

// Config is the root of everything loadable from file and environment.
// Logger is excluded from the top-level validation pass: logger.New fills
// its defaults first and validates it itself.
type Config struct {
	Logger      logger.Config `mapstructure:"logger" validate:"-"`
	Rules       Rules         `mapstructure:"rules"`
	Engine      Engine        `mapstructure:"engine"`
	Calibration Calibration   `mapstructure:"calibration"`
}

// Rules fixes the structure of a game: lengths, skater counts and the
// thresholds the bench works with. Changing these changes what sport this is.
type Rules struct {
	Periods           int `mapstructure:"periods" validate:"gte=1,lte=9"`
	PeriodSeconds     int `mapstructure:"period_seconds" validate:"gte=60"`
	OvertimeSeconds   int `mapstructure:"overtime_seconds" validate:"gte=0"`
	RegulationSkaters int `mapstructure:"regulation_skaters" validate:"gte=3,lte=6"`
	OvertimeSkaters   int `mapstructure:"overtime_skaters" validate:"gte=3,lte=6"`
	MinSkaters        int `mapstructure:"min_skaters" validate:"gte=3"`
	MaxSkaters        int `mapstructure:"max_skaters" validate:"lte=6"`
	ShootoutMinRounds int `mapstructure:"shootout_min_rounds" validate:"gte=1"`
	// ConcurrentPenalties is how many timed penalties per team run at once;
	// extra ones queue and start when a slot frees.
	ConcurrentPenalties int `mapstructure:"concurrent_penalties" validate:"gte=1,lte=2"`
	// GoaliePull gives the seconds remaining in regulation below which a
	// trailing team pulls its goaltender, by risk tolerance.
	GoaliePull GoaliePull `mapstructure:"goalie_pull"`
	// GoaliePullMaxDeficit is the largest deficit still worth pulling for.
	GoaliePullMaxDeficit int `mapstructure:"goalie_pull_max_deficit" validate:"gte=1"`
}

// GoaliePull maps risk tolerance onto the pull threshold.
type GoaliePull struct {
	Low    int `mapstructure:"low" validate:"gte=0"`
	Medium int `mapstructure:"medium" validate:"gte=0"`
	High   int `mapstructure:"high" validate:"gte=0"`
}

// Engine groups the probability weights by concern. Every value is per
// 1-second tick unless named otherwise, and the defaults are calibrated so
// a large batch of league-average games lands inside the calibration bands.
type Engine struct {
	Attempt   AttemptWeights   `mapstructure:"attempt"`
	Outcome   OutcomeWeights   `mapstructure:"outcome"`
	Penalty   PenaltyWeights   `mapstructure:"penalty"`
	Contact   ContactWeights   `mapstructure:"contact"`
	Turnover  TurnoverWeights  `mapstructure:"turnover"`
	Faceoff   FaceoffWeights   `mapstructure:"faceoff"`
	Assist    AssistWeights    `mapstructure:"assist"`
	Fatigue   FatigueWeights   `mapstructure:"fatigue"`
	Situation SituationWeights `mapstructure:"situation"`
	Shootout  ShootoutWeights  `mapstructure:"shootout"`
}

// AttemptWeights drives how often a team generates a shot attempt and how
// often play stops for reasons of its own (icings, offsides, pucks out).
type AttemptWeights struct {
	BasePerTick     float64 `mapstructure:"base_per_tick" validate:"gte=0,lte=1"`
	AttackBase      float64 `mapstructure:"attack_base" validate:"gte=0"`
	AttackSkill     float64 `mapstructure:"attack_skill" validate:"gte=0"`
	SuppressBase    float64 `mapstructure:"suppress_base" validate:"gte=0"`
	SuppressSkill   float64 `mapstructure:"suppress_skill" validate:"gte=0"`
	PossessionBoost float64 `mapstructure:"possession_boost" validate:"gte=1,lte=2"`
	StoppagePerTick float64 `mapstructure:"stoppage_per_tick" validate:"gte=0,lte=1"`
}

// OutcomeWeights resolves one attempt into blocked, missed, saved or in.
type OutcomeWeights struct {
	BlockBase        float64 `mapstructure:"block_base" validate:"gte=0,lte=1"`
	BlockDefense     float64 `mapstructure:"block_defense" validate:"gte=0"`
	BlockPuckControl float64 `mapstructure:"block_puck_control" validate:"gte=0"`
	MissBase         float64 `mapstructure:"miss_base" validate:"gte=0,lte=1"`
	MissShooting     float64 `mapstructure:"miss_shooting" validate:"gte=0"`
	MissChallenge    float64 `mapstructure:"miss_challenge" validate:"gte=0"`
	GoalBase         float64 `mapstructure:"goal_base" validate:"gte=0,lte=1"`
	QualityBase      float64 `mapstructure:"quality_base" validate:"gte=0"`
	QualitySkill     float64 `mapstructure:"quality_skill" validate:"gte=0"`
	GoalieDivBase    float64 `mapstructure:"goalie_div_base" validate:"gt=0"`
	ReboundBase      float64 `mapstructure:"rebound_base" validate:"gte=0,lte=1"`
	ReboundAggro     float64 `mapstructure:"rebound_aggro" validate:"gte=0"`
	ReboundControl   float64 `mapstructure:"rebound_control" validate:"gte=0"`
	ReboundHands     float64 `mapstructure:"rebound_hands" validate:"gte=0"`
	FreezeBase       float64 `mapstructure:"freeze_base" validate:"gte=0,lte=1"`
	FreezeControl    float64 `mapstructure:"freeze_control" validate:"gte=0"`
	ReboundShotBoost float64 `mapstructure:"rebound_shot_boost" validate:"gte=1"`
	EmptyNetGoal     float64 `mapstructure:"empty_net_goal" validate:"gte=0,lte=1"`
}

// PenaltyWeights drives infraction frequency and the severity mix.
// The four severity weights are relative and normalized at draw time.
type PenaltyWeights struct {
	BasePerTick      float64 `mapstructure:"base_per_tick" validate:"gte=0,lte=1"`
	DisciplineBase   float64 `mapstructure:"discipline_base" validate:"gte=0"`
	DisciplineSkill  float64 `mapstructure:"discipline_skill" validate:"gte=0"`
	MinorWeight      float64 `mapstructure:"minor_weight" validate:"gte=0"`
	DoubleWeight     float64 `mapstructure:"double_weight" validate:"gte=0"`
	MajorWeight      float64 `mapstructure:"major_weight" validate:"gte=0"`
	MisconductWeight float64 `mapstructure:"misconduct_weight" validate:"gte=0"`
	FightShare       float64 `mapstructure:"fight_share" validate:"gte=0,lte=1"`
	BenchShare       float64 `mapstructure:"bench_share" validate:"gte=0,lte=1"`
}

// ContactWeights drives hits and the injuries they occasionally cause.
type ContactWeights struct {
	HitPerTick       float64 `mapstructure:"hit_per_tick" validate:"gte=0,lte=1"`
	CheckingBase     float64 `mapstructure:"checking_base" validate:"gte=0"`
	CheckingSkill    float64 `mapstructure:"checking_skill" validate:"gte=0"`
	InjuryPerHit     float64 `mapstructure:"injury_per_hit" validate:"gte=0,lte=1"`
	ResistanceBase   float64 `mapstructure:"resistance_base" validate:"gte=0"`
	ResistanceSkill  float64 `mapstructure:"resistance_skill" validate:"gte=0"`
	FightLossInjury  float64 `mapstructure:"fight_loss_injury" validate:"gte=0,lte=1"`
	GoalieInjuryShot float64 `mapstructure:"goalie_injury_per_shot" validate:"gte=0,lte=1"`
}

// TurnoverWeights drives giveaways and takeaways.
type TurnoverWeights struct {
	GiveawayPerTick  float64 `mapstructure:"giveaway_per_tick" validate:"gte=0,lte=1"`
	GiveawayBase     float64 `mapstructure:"giveaway_base" validate:"gte=0"`
	GiveawayControl  float64 `mapstructure:"giveaway_control" validate:"gte=0"`
	TakeawayPerTick  float64 `mapstructure:"takeaway_per_tick" validate:"gte=0,lte=1"`
	TakeawayBase     float64 `mapstructure:"takeaway_base" validate:"gte=0"`
	TakeawayPressure float64 `mapstructure:"takeaway_pressure" validate:"gte=0"`
}

// FaceoffWeights turns the two centers' ratings into a win probability.
type FaceoffWeights struct {
	SkillWeight float64 `mapstructure:"skill_weight" validate:"gte=0"`
	PoiseWeight float64 `mapstructure:"poise_weight" validate:"gte=0"`
	ClampMin    float64 `mapstructure:"clamp_min" validate:"gte=0,lte=1"`
	ClampMax    float64 `mapstructure:"clamp_max" validate:"gte=0,lte=1"`
}

// AssistWeights fixes the distribution of assist counts on a goal.
// Probabilities for zero and one assist; two takes the remainder.
type AssistWeights struct {
	ZeroProb float64 `mapstructure:"zero_prob" validate:"gte=0,lte=1"`
	OneProb  float64 `mapstructure:"one_prob" validate:"gte=0,lte=1"`
}

// FatigueWeights drives in-game energy drain and its effect on play.
// Drain scales with the inverse of the endurance rating; Effect is the
// largest multiplicative handicap a fully gassed line can carry.
type FatigueWeights struct {
	DrainPerTick   float64   `mapstructure:"drain_per_tick" validate:"gte=0"`
	DrainScaleBase float64   `mapstructure:"drain_scale_base" validate:"gte=0"`
	RecoverPerTick float64   `mapstructure:"recover_per_tick" validate:"gte=0"`
	EffectMax      float64   `mapstructure:"effect_max" validate:"gte=0,lte=1"`
	LineWeights    []float64 `mapstructure:"line_weights" validate:"min=1"`
	PairWeights    []float64 `mapstructure:"pair_weights" validate:"min=1"`
}

// SituationWeights multiplies attempt and quality rates per strength state.
type SituationWeights struct {
	PowerPlayAttempt    float64 `mapstructure:"power_play_attempt" validate:"gte=0"`
	PowerPlayQuality    float64 `mapstructure:"power_play_quality" validate:"gte=0"`
	PenaltyKillAttempt  float64 `mapstructure:"penalty_kill_attempt" validate:"gte=0"`
	PenaltyKillQuality  float64 `mapstructure:"penalty_kill_quality" validate:"gte=0"`
	FourOnFourAttempt   float64 `mapstructure:"four_on_four_attempt" validate:"gte=0"`
	ThreeOnThreeAttempt float64 `mapstructure:"three_on_three_attempt" validate:"gte=0"`
	ThreeOnThreeQuality float64 `mapstructure:"three_on_three_quality" validate:"gte=0"`
}

// ShootoutWeights drives per-attempt conversion in the shootout.
type ShootoutWeights struct {
	GoalBase      float64 `mapstructure:"goal_base" validate:"gte=0,lte=1"`
	ShooterWeight float64 `mapstructure:"shooter_weight" validate:"gte=0"`
	GoalieWeight  float64 `mapstructure:"goalie_weight" validate:"gte=0"`
	ClampMin      float64 `mapstructure:"clamp_min" validate:"gte=0,lte=1"`
	ClampMax      float64 `mapstructure:"clamp_max" validate:"gte=0,lte=1"`
}

// Calibration is the contract a large batch of league-average games must
// satisfy. Violations are reported, never fatal for a single game.
type Calibration struct {
	Games           int     `mapstructure:"games" validate:"gte=100"`
	GoalsPerGameMin float64 `mapstructure:"goals_per_game_min" validate:"gte=0"`
	GoalsPerGameMax float64 `mapstructure:"goals_per_game_max" validate:"gte=0"`
	OvertimeMin     float64 `mapstructure:"overtime_min" validate:"gte=0,lte=1"`
	OvertimeMax     float64 `mapstructure:"overtime_max" validate:"gte=0,lte=1"`
}

// Validate runs the struct tags plus the handful of cross-field rules the
// tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Rules.MinSkaters > c.Rules.RegulationSkaters {
		return fmt.Errorf("config validation: min_skaters %d above regulation_skaters %d", c.Rules.MinSkaters, c.Rules.RegulationSkaters)
	}
	if c.Rules.MaxSkaters < c.Rules.RegulationSkaters {
		return fmt.Errorf("config validation: max_skaters %d below regulation_skaters %d", c.Rules.MaxSkaters, c.Rules.RegulationSkaters)
	}
	if c.Engine.Assist.ZeroProb+c.Engine.Assist.OneProb > 1 {
		return fmt.Errorf("config validation: assist probabilities exceed 1")
	}
	if c.Engine.Faceoff.ClampMin >= c.Engine.Faceoff.ClampMax {
		return fmt.Errorf("config validation: faceoff clamp window is empty")
	}
	if c.Engine.Shootout.ClampMin >= c.Engine.Shootout.ClampMax {
		return fmt.Errorf("config validation: shootout clamp window is empty")
	}
	if c.Calibration.GoalsPerGameMin > c.Calibration.GoalsPerGameMax {
		return fmt.Errorf("config validation: goals per game band is inverted")
	}
	if c.Calibration.OvertimeMin > c.Calibration.OvertimeMax {
		return fmt.Errorf("config validation: overtime band is inverted")
	}
	return nil
}

// Default returns the compiled-in configuration. File and environment
// values overlay it in Load.
func Default() Config {
	return Config{
		Rules: Rules{
			Periods:              3,
			PeriodSeconds:        1200,
			OvertimeSeconds:      300,
			RegulationSkaters:    5,
			OvertimeSkaters:      3,
			MinSkaters:           3,
			MaxSkaters:           6,
			ShootoutMinRounds:    3,
			ConcurrentPenalties:  2,
			GoaliePull:           GoaliePull{Low: 50, Medium: 85, High: 135},
			GoaliePullMaxDeficit: 2,
		},
		Engine: Engine{
			Attempt: AttemptWeights{
				BasePerTick:     0.0153,
				AttackBase:      0.55,
				AttackSkill:     0.75,
				SuppressBase:    1.15,
				SuppressSkill:   0.30,
				PossessionBoost: 1.25,
				StoppagePerTick: 0.0040,
			},
			Outcome: OutcomeWeights{
				BlockBase:        0.18,
				BlockDefense:     0.18,
				BlockPuckControl: 0.06,
				MissBase:         0.42,
				MissShooting:     0.22,
				MissChallenge:    0.05,
				GoalBase:         0.095,
				QualityBase:      0.55,
				QualitySkill:     0.75,
				GoalieDivBase:    0.40,
				ReboundBase:      0.11,
				ReboundAggro:     0.12,
				ReboundControl:   0.10,
				ReboundHands:     0.05,
				FreezeBase:       0.50,
				FreezeControl:    0.25,
				ReboundShotBoost: 1.60,
				EmptyNetGoal:     0.85,
			},
			Penalty: PenaltyWeights{
				BasePerTick:      0.0010,
				DisciplineBase:   1.50,
				DisciplineSkill:  0.80,
				MinorWeight:      0.87,
				DoubleWeight:     0.05,
				MajorWeight:      0.05,
				MisconductWeight: 0.03,
				FightShare:       0.40,
				BenchShare:       0.05,
			},
			Contact: ContactWeights{
				HitPerTick:       0.0061,
				CheckingBase:     0.55,
				CheckingSkill:    0.60,
				InjuryPerHit:     0.0040,
				ResistanceBase:   1.60,
				ResistanceSkill:  0.90,
				FightLossInjury:  0.012,
				GoalieInjuryShot: 0.0006,
			},
			Turnover: TurnoverWeights{
				GiveawayPerTick:  0.0022,
				GiveawayBase:     1.35,
				GiveawayControl:  0.50,
				TakeawayPerTick:  0.0019,
				TakeawayBase:     0.62,
				TakeawayPressure: 0.55,
			},
			Faceoff: FaceoffWeights{
				SkillWeight: 0.50,
				PoiseWeight: 0.20,
				ClampMin:    0.25,
				ClampMax:    0.75,
			},
			Assist: AssistWeights{
				ZeroProb: 0.15,
				OneProb:  0.35,
			},
			Fatigue: FatigueWeights{
				DrainPerTick:   1.00,
				DrainScaleBase: 1.50,
				RecoverPerTick: 0.60,
				EffectMax:      0.25,
				LineWeights:    []float64{1.00, 0.85, 0.70, 0.50},
				PairWeights:    []float64{1.00, 0.80, 0.60},
			},
			Situation: SituationWeights{
				PowerPlayAttempt:    1.70,
				PowerPlayQuality:    1.25,
				PenaltyKillAttempt:  0.40,
				PenaltyKillQuality:  0.90,
				FourOnFourAttempt:   1.15,
				ThreeOnThreeAttempt: 1.90,
				ThreeOnThreeQuality: 1.30,
			},
			Shootout: ShootoutWeights{
				GoalBase:      0.32,
				ShooterWeight: 0.45,
				GoalieWeight:  0.40,
				ClampMin:      0.10,
				ClampMax:      0.60,
			},
		},
		Calibration: Calibration{
			Games:           1000,
			GoalsPerGameMin: 5.0,
			GoalsPerGameMax: 7.5,
			OvertimeMin:     0.15,
			OvertimeMax:     0.35,
		},
	}
}
