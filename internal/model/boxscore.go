package model

// StrengthSplit buckets seconds of ice time by game situation.
type StrengthSplit struct {
	Even        int `json:"even"`
	PowerPlay   int `json:"power_play"`
	ShortHanded int `json:"short_handed"`
}

// Total returns the summed seconds across all buckets.
func (s StrengthSplit) Total() int { return s.Even + s.PowerPlay + s.ShortHanded }

// SkaterLine is one skater's row in the boxscore.
type SkaterLine struct {
	PlayerID      int64         `json:"player_id"`
	Name          string        `json:"name"`
	Position      Position      `json:"position"`
	Goals         int           `json:"goals"`
	Assists       int           `json:"assists"`
	Points        int           `json:"points"`
	Shots         int           `json:"shots"`
	Attempts      int           `json:"attempts"`
	Blocks        int           `json:"blocks"`
	Hits          int           `json:"hits"`
	Giveaways     int           `json:"giveaways"`
	Takeaways     int           `json:"takeaways"`
	FaceoffWins   int           `json:"faceoff_wins"`
	FaceoffLosses int           `json:"faceoff_losses"`
	PIM           int           `json:"pim"`
	TOI           StrengthSplit `json:"toi"`
}

// GoalieLine is one goaltender's row in the boxscore.
type GoalieLine struct {
	PlayerID     int64   `json:"player_id"`
	Name         string  `json:"name"`
	ShotsAgainst int     `json:"shots_against"`
	Saves        int     `json:"saves"`
	GoalsAgainst int     `json:"goals_against"`
	SavePct      float64 `json:"save_pct"`
	TOISeconds   int     `json:"toi_seconds"`
}

// TeamLine aggregates one team's totals and special-teams records.
type TeamLine struct {
	TeamID           int64   `json:"team_id"`
	Name             string  `json:"name"`
	Goals            int     `json:"goals"`
	Shots            int     `json:"shots"`
	Attempts         int     `json:"attempts"`
	Blocks           int     `json:"blocks"`
	Hits             int     `json:"hits"`
	Giveaways        int     `json:"giveaways"`
	Takeaways        int     `json:"takeaways"`
	PIM              int     `json:"pim"`
	PowerPlays       int     `json:"power_plays"`
	PowerPlayGoals   int     `json:"power_play_goals"`
	PowerPlayPct     float64 `json:"power_play_pct"`
	TimesShortHanded int     `json:"times_short_handed"`
	PowerPlayGoalsIn int     `json:"power_play_goals_against"`
	PenaltyKillPct   float64 `json:"penalty_kill_pct"`
	FaceoffWins      int     `json:"faceoff_wins"`
	FaceoffLosses    int     `json:"faceoff_losses"`
	FaceoffPct       float64 `json:"faceoff_pct"`
	ShootingPct      float64 `json:"shooting_pct"`
	ShortHandedGoals int     `json:"short_handed_goals"`
}

// PeriodScore is one row of the line score. Label is "1", "2", "3", "OT"
// or "SO"; shootout rows carry the deciding goal only.
type PeriodScore struct {
	Period int    `json:"period"`
	Label  string `json:"label"`
	Home   int    `json:"home"`
	Away   int    `json:"away"`
}

// ShootoutLine is one team's shootout record.
type ShootoutLine struct {
	Attempts int `json:"attempts"`
	Goals    int `json:"goals"`
}

// TeamBox groups everything the boxscore reports for one side.
type TeamBox struct {
	Team     TeamLine      `json:"team"`
	Skaters  []SkaterLine  `json:"skaters"`
	Goalies  []GoalieLine  `json:"goalies"`
	Shootout *ShootoutLine `json:"shootout,omitempty"`
}

// Boxscore is the complete statistical record of one game, derived entirely
// from the event stream.
type Boxscore struct {
	Home    TeamBox       `json:"home"`
	Away    TeamBox       `json:"away"`
	Periods []PeriodScore `json:"periods"`
}
