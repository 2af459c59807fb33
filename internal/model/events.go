package model

// EventType enumerates everything the engine can append to the game log.
// The string values are the wire format and must stay stable.
type EventType string

const (
	EventGoal        EventType = "goal"
	EventAssist      EventType = "assist"
	EventShot        EventType = "shot" // on goal, saved
	EventMissedShot  EventType = "missed_shot"
	EventBlockedShot EventType = "blocked_shot"
	EventSave        EventType = "save"
	EventPenalty     EventType = "penalty"
	EventFaceoff     EventType = "faceoff"
	EventHit         EventType = "hit"
	EventGiveaway    EventType = "giveaway"
	EventTakeaway    EventType = "takeaway"
	EventPeriodStart EventType = "period_start"
	EventPeriodEnd   EventType = "period_end"
	EventGameStart   EventType = "game_start"
	EventGameEnd     EventType = "game_end"
)

// Phase tags which part of the game an event belongs to.
type Phase string

const (
	PhaseRegulation Phase = "regulation"
	PhaseOvertime   Phase = "overtime"
	PhaseShootout   Phase = "shootout"
)

// Zone is the position of play in the attacking team's frame of reference.
type Zone string

const (
	ZoneOffensive Zone = "offensive"
	ZoneNeutral   Zone = "neutral"
	ZoneDefensive Zone = "defensive"
)

// Strength is the skater count per side, goaltenders excluded. Both values
// stay within [3, 6]: 3 is the short-handed floor, 6 means the net is empty
// for an extra attacker.
type Strength struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Even reports whether both sides have the same number of skaters.
func (s Strength) Even() bool { return s.Home == s.Away }

// Label renders the conventional notation, home side first, e.g. "5v4".
func (s Strength) Label() string {
	digits := "0123456"
	return string(digits[s.Home]) + "v" + string(digits[s.Away])
}

// EventContext snapshots the game situation at the moment an event fired.
// Every event carries one, so the stream replays without external state.
type EventContext struct {
	Phase    Phase    `json:"phase"`
	Strength Strength `json:"strength"`
	Zone     Zone     `json:"zone,omitempty"`
}

// PenaltySeverity classifies an infraction.
type PenaltySeverity string

const (
	SeverityMinor       PenaltySeverity = "minor"
	SeverityDoubleMinor PenaltySeverity = "double_minor"
	SeverityMajor       PenaltySeverity = "major"
	SeverityMisconduct  PenaltySeverity = "misconduct"
)

// BaseMinutes returns the box time the severity carries.
func (s PenaltySeverity) BaseMinutes() int {
	switch s {
	case SeverityMinor:
		return 2
	case SeverityDoubleMinor:
		return 4
	case SeverityMajor:
		return 5
	case SeverityMisconduct:
		return 10
	}
	return 0
}

// PenaltyDetail is attached to penalty events. The penalized player is the
// event's primary reference, the player who drew the call the secondary.
// Releasable penalties end early on a power-play goal against; offsetting
// ones are coincidental and change no strength; bench minors are served by a
// designated skater. Fight carries won, lost or draw when the call came from
// a fight.
type PenaltyDetail struct {
	Infraction string          `json:"infraction"`
	Severity   PenaltySeverity `json:"severity"`
	Minutes    int             `json:"minutes"`
	Releasable bool            `json:"releasable"`
	Offsetting bool            `json:"offsetting"`
	Bench      bool            `json:"bench"`
	Fight      string          `json:"fight,omitempty"`
}

// ShotDetail rides on shot, save, missed_shot, blocked_shot and goal events.
// For blocked shots the shooter is primary and the blocker secondary; for
// goals the secondary and tertiary references are the credited assists.
type ShotDetail struct {
	Rebound  bool `json:"rebound,omitempty"`   // attempt came off a fresh rebound
	Frozen   bool `json:"frozen,omitempty"`    // goaltender froze play, faceoff follows
	EmptyNet bool `json:"empty_net,omitempty"` // no goaltender in the net
}

// FaceoffDetail rides on faceoff events. Line changes happen only at
// stoppages, so the full on-ice picture is part of the stoppage record and
// ice-time splits can be replayed from the stream alone. Goalie ID 0 means
// the net is empty. The winning center is the event's primary reference,
// the losing center the secondary.
type FaceoffDetail struct {
	HomeOnIce  []int64 `json:"home_on_ice"`
	AwayOnIce  []int64 `json:"away_on_ice"`
	HomeGoalie int64   `json:"home_goalie"`
	AwayGoalie int64   `json:"away_goalie"`
}

// HitDetail rides on hit events: hitter primary, target secondary.
// InjuredID is set when the contact knocked a player out of the game.
type HitDetail struct {
	InjuredID int64 `json:"injured_id,omitempty"`
}

// ShootoutDetail rides on shootout-phase shot, save, missed_shot and goal
// events. Shooter is the primary reference; the goaltender faced is recorded
// here because the secondary slot belongs to assists on goal events.
type ShootoutDetail struct {
	Round    int   `json:"round"`
	GoalieID int64 `json:"goalie_id"`
}

// GameEndDetail rides on the single game_end event.
type GameEndDetail struct {
	WinnerTeamID int64     `json:"winner_team_id"`
	DecidedBy    DecidedBy `json:"decided_by"`
}

// GameEvent is one entry of the append-only game log. Sequence numbers are
// dense and strictly increasing; Clock counts seconds remaining in the
// period. Exactly one detail pointer matching the type may be set.
type GameEvent struct {
	Sequence    int          `json:"sequence"`
	Period      int          `json:"period"` // 1..3 regulation, 4 overtime, 5 shootout
	Clock       int          `json:"clock"`
	Type        EventType    `json:"type"`
	TeamID      int64        `json:"team_id,omitempty"`
	PlayerID    int64        `json:"player_id,omitempty"`
	SecondaryID int64        `json:"secondary_id,omitempty"`
	TertiaryID  int64        `json:"tertiary_id,omitempty"`
	Context     EventContext `json:"context"`

	Penalty  *PenaltyDetail  `json:"penalty,omitempty"`
	Shot     *ShotDetail     `json:"shot,omitempty"`
	Faceoff  *FaceoffDetail  `json:"faceoff,omitempty"`
	Hit      *HitDetail      `json:"hit,omitempty"`
	Shootout *ShootoutDetail `json:"shootout,omitempty"`
	GameEnd  *GameEndDetail  `json:"game_end,omitempty"`
}

// Elapsed returns seconds of game time since the period began.
func (e GameEvent) Elapsed(periodLength int) int {
	return periodLength - e.Clock
}
