package model

// Strategy settings are enumerated, not free-form: each knob names a scheme
// the modifier resolver knows how to translate into bounded factors.

// OffensiveStyle shapes how often and how selectively a team shoots.
type OffensiveStyle string

const (
	OffenseBalanced     OffensiveStyle = "balanced"
	OffenseAggressive   OffensiveStyle = "aggressive"
	OffenseConservative OffensiveStyle = "conservative"
)

// DefensiveStyle shapes how hard a team is to generate chances against.
type DefensiveStyle string

const (
	DefenseStandard   DefensiveStyle = "standard"
	DefenseCollapsing DefensiveStyle = "collapsing"
	DefensePressure   DefensiveStyle = "pressure"
)

// ForecheckIntensity trades hits and takeaways against penalty exposure.
type ForecheckIntensity string

const (
	ForecheckPassive  ForecheckIntensity = "passive"
	ForecheckStandard ForecheckIntensity = "standard"
	ForecheckHeavy    ForecheckIntensity = "heavy"
)

// PowerPlayStyle picks the scheme used with the man advantage.
type PowerPlayStyle string

const (
	PowerPlayUmbrella PowerPlayStyle = "umbrella"
	PowerPlayOverload PowerPlayStyle = "overload"
)

// PenaltyKillStyle picks the scheme used while short-handed.
type PenaltyKillStyle string

const (
	PenaltyKillBox        PenaltyKillStyle = "box"
	PenaltyKillDiamond    PenaltyKillStyle = "diamond"
	PenaltyKillAggressive PenaltyKillStyle = "aggressive"
)

// GoalieUsage decides which goaltender starts.
type GoalieUsage string

const (
	GoalieStarter GoalieUsage = "starter"
	GoalieSplit   GoalieUsage = "split"
)

// RiskTolerance governs late-game gambles such as pulling the goaltender.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// TeamStrategy is the full set of coaching decisions for one game.
// CoachRating scales how much of each nominal adjustment the team actually
// realizes on the ice.
type TeamStrategy struct {
	Offense     OffensiveStyle     `json:"offense"`
	Defense     DefensiveStyle     `json:"defense"`
	Forecheck   ForecheckIntensity `json:"forecheck"`
	PowerPlay   PowerPlayStyle     `json:"power_play"`
	PenaltyKill PenaltyKillStyle   `json:"penalty_kill"`
	GoalieUsage GoalieUsage        `json:"goalie_usage"`
	Risk        RiskTolerance      `json:"risk"`
	CoachRating int                `json:"coach_rating"`
}

// DefaultStrategy returns the neutral scheme set with a league-average coach.
func DefaultStrategy() TeamStrategy {
	return TeamStrategy{
		Offense:     OffenseBalanced,
		Defense:     DefenseStandard,
		Forecheck:   ForecheckStandard,
		PowerPlay:   PowerPlayUmbrella,
		PenaltyKill: PenaltyKillBox,
		GoalieUsage: GoalieStarter,
		Risk:        RiskMedium,
		CoachRating: 70,
	}
}
