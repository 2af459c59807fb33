// Package narrative renders the event stream into play-by-play prose. It
// reads the stream and the rosters, nothing else, so it can run over a live
// sink or a finished result and produce the same lines either way.
package narrative

import (
	"fmt"
	"strings"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// Renderer turns events into clock-stamped sentences.
type Renderer struct {
	periods int
	names   map[int64]string
	teams   map[int64]string
	score   map[int64]int
	home    model.TeamRef
	away    model.TeamRef
}

// NewRenderer indexes both rosters for name resolution.
func NewRenderer(m model.Matchup, rules config.Rules) *Renderer {
	r := &Renderer{
		periods: rules.Periods,
		names:   make(map[int64]string),
		teams:   make(map[int64]string, 2),
		score:   make(map[int64]int, 2),
		home:    model.TeamRef{ID: m.Home.Roster.TeamID, Name: m.Home.Roster.TeamName},
		away:    model.TeamRef{ID: m.Away.Roster.TeamID, Name: m.Away.Roster.TeamName},
	}
	for _, team := range []model.Roster{m.Home.Roster, m.Away.Roster} {
		r.teams[team.TeamID] = team.TeamName
		for _, p := range team.Players {
			r.names[p.ID] = p.Name
		}
	}
	return r
}

// Render produces one line per renderable event, in stream order. The
// running score in goal and final lines restarts with each call.
func (r *Renderer) Render(events []model.GameEvent) []string {
	r.score = make(map[int64]int, 2)
	out := make([]string, 0, len(events))
	for _, e := range events {
		if line := r.Line(e); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Line renders a single event, or "" when the event carries no story
// (a shootout shot is told by its save).
func (r *Renderer) Line(e model.GameEvent) string {
	text := r.describe(e)
	if text == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", r.stamp(e), text)
}

func (r *Renderer) stamp(e model.GameEvent) string {
	switch {
	case e.Context.Phase == model.PhaseShootout:
		return "SO"
	case e.Period > r.periods:
		return fmt.Sprintf("OT %02d:%02d", e.Clock/60, e.Clock%60)
	default:
		return fmt.Sprintf("P%d %02d:%02d", e.Period, e.Clock/60, e.Clock%60)
	}
}

func (r *Renderer) describe(e model.GameEvent) string {
	switch e.Type {
	case model.EventGameStart:
		return fmt.Sprintf("%s visit %s, and we are underway", r.away.Name, r.home.Name)
	case model.EventPeriodStart:
		return r.periodName(e, "begins")
	case model.EventPeriodEnd:
		return r.periodName(e, "ends")
	case model.EventFaceoff:
		return fmt.Sprintf("%s wins the draw against %s", r.name(e.PlayerID), r.name(e.SecondaryID))
	case model.EventGoal:
		return r.goalLine(e)
	case model.EventAssist:
		return ""
	case model.EventShot:
		if e.Context.Phase == model.PhaseShootout {
			return ""
		}
		return fmt.Sprintf("%s puts one on net", r.name(e.PlayerID))
	case model.EventSave:
		return r.saveLine(e)
	case model.EventMissedShot:
		return r.missLine(e)
	case model.EventBlockedShot:
		return fmt.Sprintf("%s has a shot blocked by %s", r.name(e.PlayerID), r.name(e.SecondaryID))
	case model.EventHit:
		line := fmt.Sprintf("%s levels %s", r.name(e.PlayerID), r.name(e.SecondaryID))
		if e.Hit != nil && e.Hit.InjuredID != 0 {
			line += fmt.Sprintf(", and %s is helped off the ice", r.name(e.Hit.InjuredID))
		}
		return line
	case model.EventTakeaway:
		return fmt.Sprintf("%s strips the puck loose", r.name(e.PlayerID))
	case model.EventGiveaway:
		return fmt.Sprintf("%s coughs the puck up", r.name(e.PlayerID))
	case model.EventPenalty:
		return r.penaltyLine(e)
	case model.EventGameEnd:
		return r.finalLine(e)
	}
	return ""
}

func (r *Renderer) periodName(e model.GameEvent, verb string) string {
	switch {
	case e.Context.Phase == model.PhaseShootout:
		return "the shootout " + verb
	case e.Period > r.periods:
		return "overtime " + verb
	default:
		return fmt.Sprintf("period %d %s", e.Period, verb)
	}
}

func (r *Renderer) goalLine(e model.GameEvent) string {
	if e.Context.Phase == model.PhaseShootout {
		round := 0
		if e.Shootout != nil {
			round = e.Shootout.Round
		}
		return fmt.Sprintf("round %d: %s scores for %s", round, r.name(e.PlayerID), r.team(e.TeamID))
	}

	r.score[e.TeamID]++
	var b strings.Builder
	fmt.Fprintf(&b, "GOAL %s, %s", r.team(e.TeamID), r.name(e.PlayerID))
	if e.Shot != nil && e.Shot.EmptyNet {
		b.WriteString(" into the empty net")
	}
	if e.Shot != nil && e.Shot.Rebound {
		b.WriteString(" on the rebound")
	}
	switch {
	case e.TertiaryID != 0:
		fmt.Fprintf(&b, " (from %s and %s)", r.name(e.SecondaryID), r.name(e.TertiaryID))
	case e.SecondaryID != 0:
		fmt.Fprintf(&b, " (from %s)", r.name(e.SecondaryID))
	default:
		b.WriteString(" (unassisted)")
	}
	fmt.Fprintf(&b, ". %s %d, %s %d", r.home.Name, r.score[r.home.ID], r.away.Name, r.score[r.away.ID])
	return b.String()
}

func (r *Renderer) saveLine(e model.GameEvent) string {
	if e.Context.Phase == model.PhaseShootout {
		round := 0
		if e.Shootout != nil {
			round = e.Shootout.Round
		}
		return fmt.Sprintf("round %d: %s is denied by %s", round, r.name(e.SecondaryID), r.name(e.PlayerID))
	}
	line := fmt.Sprintf("%s turns aside the shot from %s", r.name(e.PlayerID), r.name(e.SecondaryID))
	if e.Shot != nil && e.Shot.Frozen {
		line += " and freezes the puck"
	}
	return line
}

func (r *Renderer) missLine(e model.GameEvent) string {
	if e.Context.Phase == model.PhaseShootout {
		round := 0
		if e.Shootout != nil {
			round = e.Shootout.Round
		}
		return fmt.Sprintf("round %d: %s misses the net", round, r.name(e.PlayerID))
	}
	if e.Shot != nil && e.Shot.EmptyNet {
		return fmt.Sprintf("%s shoots at the empty net and misses", r.name(e.PlayerID))
	}
	return fmt.Sprintf("%s sends the attempt wide", r.name(e.PlayerID))
}

func (r *Renderer) penaltyLine(e model.GameEvent) string {
	d := e.Penalty
	if d == nil {
		return fmt.Sprintf("penalty on %s", r.name(e.PlayerID))
	}
	if d.Fight != "" {
		return fmt.Sprintf("%s and %s drop the gloves, five apiece for fighting", r.name(e.PlayerID), r.name(e.SecondaryID))
	}
	if d.Bench {
		return fmt.Sprintf("bench minor on %s, %s, served by %s", r.team(e.TeamID), d.Infraction, r.name(e.PlayerID))
	}
	return fmt.Sprintf("%s takes %d for %s", r.name(e.PlayerID), d.Minutes, d.Infraction)
}

func (r *Renderer) finalLine(e model.GameEvent) string {
	if e.GameEnd != nil && e.GameEnd.DecidedBy == model.DecidedInShootout {
		r.score[e.GameEnd.WinnerTeamID]++
	}
	how := ""
	if e.GameEnd != nil {
		switch e.GameEnd.DecidedBy {
		case model.DecidedInOvertime:
			how = " in overtime"
		case model.DecidedInShootout:
			how = " in the shootout"
		}
	}
	return fmt.Sprintf("final%s: %s %d, %s %d", how, r.home.Name, r.score[r.home.ID], r.away.Name, r.score[r.away.ID])
}

func (r *Renderer) name(id int64) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return fmt.Sprintf("player %d", id)
}

func (r *Renderer) team(id int64) string {
	if n, ok := r.teams[id]; ok {
		return n
	}
	return fmt.Sprintf("team %d", id)
}
