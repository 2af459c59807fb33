// Package state owns the mutable record of one game in progress: clock,
// score, on-ice units, the penalty box, fatigue and ice-time accounting.
// The engine drives every transition; nothing here rolls dice, so identical
// call sequences always reproduce identical states.
package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// ErrInvariant marks a state that broke the rules of the simulation.
// It always aborts the game; the engine never patches over it.
var ErrInvariant = errors.New("game state invariant violated")

// ErrNoGoaltender reports a roster with nobody left to tend the net. The
// game cannot continue past it.
var ErrNoGoaltender = errors.New("no healthy goaltender left")

// InvariantError wraps ErrInvariant with the reason and a full snapshot of
// the state at the moment of the violation.
type InvariantError struct {
	Reason   string
	Snapshot string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("game state invariant violated: %s\n%s", e.Reason, e.Snapshot)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// Side indexes the two teams.
type Side int

const (
	Home Side = iota
	Away
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Status is the lifecycle of a game.
type Status string

const (
	StatusPregame      Status = "pregame"
	StatusInPeriod     Status = "in_period"
	StatusIntermission Status = "intermission"
	StatusShootout     Status = "shootout"
	StatusFinal        Status = "final"
)

// Params carries the slices of configuration the state machine needs.
type Params struct {
	Rules   config.Rules
	Fatigue config.FatigueWeights
}

// Game is the complete in-progress record. One goroutine owns it for the
// duration of a simulation; it is never shared.
type Game struct {
	params Params

	status Status
	period int
	clock  int // seconds remaining in the current period
	score  [2]int
	winner int64

	teams [2]*teamState
}

// New builds the pregame state: lines and pairs assigned, starting
// goaltenders in net, clocks untouched. The starting goalie IDs come from
// the engine because picking between a split tandem is a random decision.
func New(p Params, m model.Matchup, homeGoalie, awayGoalie int64) (*Game, error) {
	g := &Game{
		params: p,
		status: StatusPregame,
	}
	var err error
	if g.teams[Home], err = newTeamState(m.Home, homeGoalie); err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}
	if g.teams[Away], err = newTeamState(m.Away, awayGoalie); err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}
	return g, nil
}

// Status returns the lifecycle stage.
func (g *Game) Status() Status { return g.status }

// Period returns the current period, counting overtime as Periods+1.
func (g *Game) Period() int { return g.period }

// Clock returns seconds remaining in the current period.
func (g *Game) Clock() int { return g.clock }

// Score returns the current goal count.
func (g *Game) Score() model.Score {
	return model.Score{Home: g.score[Home], Away: g.score[Away]}
}

// Lead returns side's goals minus the opponent's.
func (g *Game) Lead(side Side) int {
	return g.score[side] - g.score[side.Opponent()]
}

// Winner returns the winning team ID once Finish has run, 0 before.
func (g *Game) Winner() int64 { return g.winner }

// Phase maps the current period onto the event phase tag.
func (g *Game) Phase() model.Phase {
	switch {
	case g.status == StatusShootout:
		return model.PhaseShootout
	case g.period > g.params.Rules.Periods:
		return model.PhaseOvertime
	default:
		return model.PhaseRegulation
	}
}

// InOvertime reports whether the current period is the extra one.
func (g *Game) InOvertime() bool {
	return g.period > g.params.Rules.Periods && g.status != StatusShootout
}

// Team exposes the per-side accessors.
func (g *Game) Team(side Side) *TeamView {
	return &TeamView{game: g, side: side, ts: g.teams[side]}
}

// BeginPeriod starts the next period: regulation length for periods one
// through Periods, overtime length after. Penalty clocks carry over
// untouched; on-ice units are rebuilt at the opening faceoff, not here.
func (g *Game) BeginPeriod() error {
	if g.status != StatusPregame && g.status != StatusIntermission {
		return g.violation(fmt.Sprintf("cannot begin a period from status %q", g.status))
	}
	g.period++
	if g.period > g.params.Rules.Periods {
		g.clock = g.params.Rules.OvertimeSeconds
	} else {
		g.clock = g.params.Rules.PeriodSeconds
	}
	g.status = StatusInPeriod
	return nil
}

// EndPeriod closes the current period at zero on the clock.
func (g *Game) EndPeriod() error {
	if g.status != StatusInPeriod {
		return g.violation(fmt.Sprintf("cannot end a period from status %q", g.status))
	}
	if g.clock != 0 {
		return g.violation(fmt.Sprintf("period ended with %d seconds left", g.clock))
	}
	g.status = StatusIntermission
	return nil
}

// BeginShootout moves past overtime without a decision.
func (g *Game) BeginShootout() error {
	if g.status != StatusIntermission {
		return g.violation(fmt.Sprintf("cannot begin the shootout from status %q", g.status))
	}
	if g.score[Home] != g.score[Away] {
		return g.violation("shootout reached with the game decided")
	}
	g.status = StatusShootout
	return nil
}

// AddGoal credits a goal and releases the opponent's earliest releasable
// penalty when the goal came on a power play. The advantage test counts
// penalties, not skaters: an empty net is not a power play. Scores only
// move up.
func (g *Game) AddGoal(side Side) (released int64) {
	g.score[side]++
	opp := g.teams[side.Opponent()]
	if opp.activeCosting() > g.teams[side].activeCosting() {
		released = opp.releaseOnGoalAgainst()
		opp.promoteQueued(g.params.Rules.ConcurrentPenalties)
		if released != 0 {
			g.stepOnIce(side.Opponent(), released)
		}
	}
	return released
}

// DecideShootout adds the deciding goal and finishes the game.
func (g *Game) DecideShootout(winner Side) error {
	if g.status != StatusShootout {
		return g.violation(fmt.Sprintf("cannot decide a shootout from status %q", g.status))
	}
	g.score[winner]++
	g.status = StatusFinal
	g.winner = g.teams[winner].team.Roster.TeamID
	return nil
}

// Finish seals the game with the leader as winner.
func (g *Game) Finish() error {
	if g.status != StatusInPeriod && g.status != StatusIntermission {
		return g.violation(fmt.Sprintf("cannot finish from status %q", g.status))
	}
	if g.score[Home] == g.score[Away] {
		return g.violation("finish called with the score tied")
	}
	winner := Home
	if g.score[Away] > g.score[Home] {
		winner = Away
	}
	g.status = StatusFinal
	g.winner = g.teams[winner].team.Roster.TeamID
	return nil
}

// Tick advances one second of play: game clock, penalty clocks with expiry
// releases, fatigue drain on the ice and recovery on the bench, ice-time
// accounting. Released players step straight back into play.
func (g *Game) Tick() error {
	if g.status != StatusInPeriod {
		return g.violation(fmt.Sprintf("tick outside a running period, status %q", g.status))
	}
	if g.clock <= 0 {
		return g.violation("tick with no time left in the period")
	}
	g.clock--

	for side := Home; side <= Away; side++ {
		for _, released := range g.teams[side].tickPenalties(g.params.Rules.ConcurrentPenalties) {
			g.stepOnIce(side, released)
		}
	}

	// ice time counts at the strength in force once releases resolved
	strength := g.Strength()
	for side := Home; side <= Away; side++ {
		ts := g.teams[side]
		ts.tickFatigue(g.params.Fatigue)
		ts.tickTOI(strengthBucket(side, strength))
	}
	return g.CheckInvariants()
}

// Strength returns the skater count per side.
func (g *Game) Strength() model.Strength {
	return model.Strength{
		Home: len(g.teams[Home].onIce),
		Away: len(g.teams[Away].onIce),
	}
}

// entitled computes how many skaters a side may have on the ice right now.
// Regulation subtracts active box time from the base; overtime instead
// grants the non-offending side an extra skater so nobody drops below
// three. A pulled goaltender adds one, capped at the maximum.
func (g *Game) entitled(side Side) int {
	r := g.params.Rules
	own := g.teams[side].activeCosting()
	opp := g.teams[side.Opponent()].activeCosting()

	var n int
	if g.InOvertime() {
		n = r.OvertimeSkaters
		if opp > own {
			n += opp - own
		}
	} else {
		n = r.RegulationSkaters - own
	}
	if n < r.MinSkaters {
		n = r.MinSkaters
	}
	if g.teams[side].goalieID == 0 {
		n++
	}
	if n > r.MaxSkaters {
		n = r.MaxSkaters
	}
	return n
}

// stepOnIce puts a released player back into play immediately, provided the
// side is still below its entitlement.
func (g *Game) stepOnIce(side Side, playerID int64) {
	ts := g.teams[side]
	if ts.isAvailable(playerID) && len(ts.onIce) < g.entitled(side) {
		ts.onIce = append(ts.onIce, playerID)
	}
}

// CheckInvariants verifies the structural rules of the state. A violation
// is permanent: the caller must abort the game.
func (g *Game) CheckInvariants() error {
	s := g.Strength()
	r := g.params.Rules
	if g.status == StatusInPeriod {
		if s.Home < r.MinSkaters || s.Home > r.MaxSkaters {
			return g.violation(fmt.Sprintf("home skater count %d outside [%d, %d]", s.Home, r.MinSkaters, r.MaxSkaters))
		}
		if s.Away < r.MinSkaters || s.Away > r.MaxSkaters {
			return g.violation(fmt.Sprintf("away skater count %d outside [%d, %d]", s.Away, r.MinSkaters, r.MaxSkaters))
		}
	}
	if g.clock < 0 {
		return g.violation("clock below zero")
	}
	for side := Home; side <= Away; side++ {
		ts := g.teams[side]
		seen := make(map[int64]bool, len(ts.onIce))
		for _, id := range ts.onIce {
			if seen[id] {
				return g.violation(fmt.Sprintf("%s player %d on the ice twice", side, id))
			}
			seen[id] = true
			if !ts.isAvailable(id) {
				return g.violation(fmt.Sprintf("%s player %d on the ice while boxed or injured", side, id))
			}
		}
	}
	return nil
}

func (g *Game) violation(reason string) error {
	return &InvariantError{Reason: reason, Snapshot: g.SnapshotString()}
}

// SnapshotString renders the full state for invariant reports and debug logs.
func (g *Game) SnapshotString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status=%s period=%d clock=%d score=%d-%d strength=%s\n",
		g.status, g.period, g.clock, g.score[Home], g.score[Away], g.Strength().Label())
	for side := Home; side <= Away; side++ {
		ts := g.teams[side]
		fmt.Fprintf(&b, "%s team=%d goalie=%d on_ice=%v box=%v queued=%v injured=%v\n",
			side, ts.team.Roster.TeamID, ts.goalieID, ts.onIce, ts.boxSummary(), ts.queueSummary(), ts.injuredList())
	}
	return b.String()
}

// strengthBucket classifies a side's situation for ice-time accounting.
func strengthBucket(side Side, s model.Strength) bucket {
	own, opp := s.Home, s.Away
	if side == Away {
		own, opp = opp, own
	}
	switch {
	case own > opp:
		return bucketPowerPlay
	case own < opp:
		return bucketShortHanded
	default:
		return bucketEven
	}
}

type bucket int

const (
	bucketEven bucket = iota
	bucketPowerPlay
	bucketShortHanded
)

// FatigueFor returns a player's current energy deficit in [0, 100].
func (g *Game) FatigueFor(side Side, playerID int64) float64 {
	return g.teams[side].fatigue[playerID]
}
