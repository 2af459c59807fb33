package model

// DecidedBy tells how the game was settled.
type DecidedBy string

const (
	DecidedInRegulation DecidedBy = "regulation"
	DecidedInOvertime   DecidedBy = "overtime"
	DecidedInShootout   DecidedBy = "shootout"
)

// Score is the running or final goal count.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// TeamRef is the identity block repeated in results so a consumer never
// needs the rosters to label output.
type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FinalState is the closing snapshot of the state machine: the period and
// clock the game ended at and the strength in force. It mirrors the last
// event on the stream so a consumer never replays it for the ending.
type FinalState struct {
	Period   int      `json:"period"`
	Clock    int      `json:"clock"`
	Strength Strength `json:"strength"`
}

// GameResult is the self-contained outcome of one simulated game: the full
// chronological event stream plus everything derived from it. It is sealed
// when the simulation finishes and never mutated afterwards. The same
// matchup and seed always produce a byte-identical result, GameID included.
type GameResult struct {
	GameID       string      `json:"game_id"`
	Seed         int64       `json:"seed"`
	Home         TeamRef     `json:"home"`
	Away         TeamRef     `json:"away"`
	Score        Score       `json:"score"`
	WinnerTeamID int64       `json:"winner_team_id"`
	DecidedBy    DecidedBy   `json:"decided_by"`
	Final        FinalState  `json:"final_state"`
	Events       []GameEvent `json:"events"`
	Boxscore     Boxscore    `json:"boxscore"`
}

// Winner returns the winning side's identity block.
func (g GameResult) Winner() TeamRef {
	if g.WinnerTeamID == g.Away.ID {
		return g.Away
	}
	return g.Home
}
