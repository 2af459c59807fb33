// Package stats folds an event stream into the boxscore. The fold is pure:
// the stream plus the rules it was generated under fully determine the
// output, so aggregating the same game twice always produces identical
// numbers. Ice time and special-teams context come from a second-by-second
// replay of the stream rather than from engine internals.
package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// Params carries the configuration the fold needs. Rules must match what
// the stream was generated under or the ice-time replay drifts.
type Params struct {
	Rules config.Rules
}

// Aggregate folds events into a boxscore for the given matchup. Every
// player referenced by the stream must appear on one of the rosters.
func Aggregate(events []model.GameEvent, m model.Matchup, p Params) (*model.Boxscore, error) {
	a, err := newAggregator(m, p.Rules)
	if err != nil {
		return nil, err
	}
	for i, e := range events {
		if e.Sequence != i {
			return nil, fmt.Errorf("event stream not dense: sequence %d at index %d", e.Sequence, i)
		}
		if err := a.apply(e); err != nil {
			return nil, err
		}
	}
	return a.boxscore(), nil
}

type goalieMeta struct {
	name string
	side int
	idx  int
}

type aggregator struct {
	rules config.Rules
	rep   *replay

	teamSide map[int64]int
	skaters  map[int64]*model.SkaterLine
	order    [2][]int64
	goalies  map[int64]*model.GoalieLine
	goalieIn map[int64]goalieMeta

	teams   [2]model.TeamLine
	periods map[int]*model.PeriodScore

	so       [2]model.ShootoutLine
	soPlayed bool
	soWinner int
}

func newAggregator(m model.Matchup, rules config.Rules) (*aggregator, error) {
	a := &aggregator{
		rules:    rules,
		rep:      newReplay(rules),
		teamSide: make(map[int64]int, 2),
		skaters:  make(map[int64]*model.SkaterLine),
		goalies:  make(map[int64]*model.GoalieLine),
		goalieIn: make(map[int64]goalieMeta),
		periods:  make(map[int]*model.PeriodScore),
		soWinner: -1,
	}
	for i, team := range []model.Team{m.Home, m.Away} {
		r := team.Roster
		if _, dup := a.teamSide[r.TeamID]; dup {
			return nil, fmt.Errorf("both rosters carry team id %d", r.TeamID)
		}
		a.teamSide[r.TeamID] = i
		a.teams[i] = model.TeamLine{TeamID: r.TeamID, Name: r.TeamName}
		for idx, pl := range r.Players {
			if _, dup := a.skaters[pl.ID]; dup {
				return nil, fmt.Errorf("duplicate player id %d in matchup", pl.ID)
			}
			if _, dup := a.goalieIn[pl.ID]; dup {
				return nil, fmt.Errorf("duplicate player id %d in matchup", pl.ID)
			}
			if pl.Position.IsGoaltender() {
				a.goalieIn[pl.ID] = goalieMeta{name: pl.Name, side: i, idx: idx}
				continue
			}
			a.skaters[pl.ID] = &model.SkaterLine{
				PlayerID: pl.ID,
				Name:     pl.Name,
				Position: pl.Position,
			}
			a.order[i] = append(a.order[i], pl.ID)
		}
	}
	return a, nil
}

func (a *aggregator) side(teamID int64) (int, error) {
	i, ok := a.teamSide[teamID]
	if !ok {
		return 0, fmt.Errorf("event references unknown team %d", teamID)
	}
	return i, nil
}

func (a *aggregator) skaterRow(id int64) (*model.SkaterLine, error) {
	row, ok := a.skaters[id]
	if !ok {
		return nil, fmt.Errorf("event references unknown skater %d", id)
	}
	return row, nil
}

func (a *aggregator) goalieRow(id int64) (*model.GoalieLine, error) {
	if row, ok := a.goalies[id]; ok {
		return row, nil
	}
	meta, ok := a.goalieIn[id]
	if !ok {
		return nil, fmt.Errorf("event references unknown goaltender %d", id)
	}
	row := &model.GoalieLine{PlayerID: id, Name: meta.name}
	a.goalies[id] = row
	return row, nil
}

func (a *aggregator) periodRow(period int) *model.PeriodScore {
	row, ok := a.periods[period]
	if !ok {
		row = &model.PeriodScore{Period: period, Label: a.periodLabel(period)}
		a.periods[period] = row
	}
	return row
}

func (a *aggregator) periodLabel(period int) string {
	switch {
	case period <= a.rules.Periods:
		return strconv.Itoa(period)
	case period == a.rules.Periods+1:
		return "OT"
	default:
		return "SO"
	}
}

func (a *aggregator) apply(e model.GameEvent) error {
	if e.Context.Phase == model.PhaseShootout {
		return a.applyShootout(e)
	}
	switch e.Type {
	case model.EventGameStart, model.EventGameEnd:
		return nil
	case model.EventPeriodStart:
		a.rep.beginPeriod(e.Period)
		a.periodRow(e.Period)
		return nil
	}
	if a.rep.inPlay {
		if err := a.rep.advanceTo(e.Clock); err != nil {
			return err
		}
	}

	switch e.Type {
	case model.EventPeriodEnd:
		a.rep.inPlay = false
		return nil
	case model.EventFaceoff:
		return a.applyFaceoff(e)
	case model.EventGoal:
		return a.applyGoal(e)
	case model.EventAssist:
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Assists++
		row.Points++
		return nil
	case model.EventShot:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Shots++
		row.Attempts++
		a.teams[side].Shots++
		a.teams[side].Attempts++
		return nil
	case model.EventSave:
		row, err := a.goalieRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Saves++
		row.ShotsAgainst++
		return nil
	case model.EventMissedShot:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Attempts++
		a.teams[side].Attempts++
		return nil
	case model.EventBlockedShot:
		return a.applyBlock(e)
	case model.EventHit:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Hits++
		a.teams[side].Hits++
		return nil
	case model.EventGiveaway:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Giveaways++
		a.teams[side].Giveaways++
		return nil
	case model.EventTakeaway:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		row, err := a.skaterRow(e.PlayerID)
		if err != nil {
			return err
		}
		row.Takeaways++
		a.teams[side].Takeaways++
		return nil
	case model.EventPenalty:
		return a.applyPenalty(e)
	}
	return fmt.Errorf("event %d has unknown type %q", e.Sequence, e.Type)
}

func (a *aggregator) applyFaceoff(e model.GameEvent) error {
	if e.Faceoff == nil {
		return fmt.Errorf("faceoff event %d missing its detail", e.Sequence)
	}
	a.rep.setOnIce(e.Faceoff)

	side, err := a.side(e.TeamID)
	if err != nil {
		return err
	}
	win, err := a.skaterRow(e.PlayerID)
	if err != nil {
		return err
	}
	lose, err := a.skaterRow(e.SecondaryID)
	if err != nil {
		return err
	}
	win.FaceoffWins++
	lose.FaceoffLosses++
	a.teams[side].FaceoffWins++
	a.teams[1-side].FaceoffLosses++
	return nil
}

// applyGoal credits the scorer and works out the special-teams context from
// the replayed penalty box. Box counts decide power play versus short-handed
// because the on-ice strength in the event already reflects the release the
// goal triggered, and a pulled goaltender must not read as a power play.
func (a *aggregator) applyGoal(e model.GameEvent) error {
	side, err := a.side(e.TeamID)
	if err != nil {
		return err
	}
	row, err := a.skaterRow(e.PlayerID)
	if err != nil {
		return err
	}
	row.Goals++
	row.Points++
	row.Shots++
	row.Attempts++
	a.teams[side].Goals++
	a.teams[side].Shots++
	a.teams[side].Attempts++

	att, def := a.rep.sides[side], a.rep.sides[1-side]
	switch {
	case def.activeCosting() > att.activeCosting():
		a.teams[side].PowerPlayGoals++
		a.teams[1-side].PowerPlayGoalsIn++
		def.releaseOnGoal(a.rules.ConcurrentPenalties)
	case att.activeCosting() > def.activeCosting():
		a.teams[side].ShortHandedGoals++
	}

	if gid := def.goalie; gid != 0 {
		g, err := a.goalieRow(gid)
		if err != nil {
			return err
		}
		g.ShotsAgainst++
		g.GoalsAgainst++
	}

	pr := a.periodRow(e.Period)
	if side == 0 {
		pr.Home++
	} else {
		pr.Away++
	}
	return nil
}

func (a *aggregator) applyBlock(e model.GameEvent) error {
	side, err := a.side(e.TeamID)
	if err != nil {
		return err
	}
	shooter, err := a.skaterRow(e.PlayerID)
	if err != nil {
		return err
	}
	blocker, err := a.skaterRow(e.SecondaryID)
	if err != nil {
		return err
	}
	shooter.Attempts++
	a.teams[side].Attempts++
	blocker.Blocks++
	a.teams[1-side].Blocks++
	return nil
}

func (a *aggregator) applyPenalty(e model.GameEvent) error {
	if e.Penalty == nil {
		return fmt.Errorf("penalty event %d missing its detail", e.Sequence)
	}
	side, err := a.side(e.TeamID)
	if err != nil {
		return err
	}
	row, err := a.skaterRow(e.PlayerID)
	if err != nil {
		return err
	}
	row.PIM += e.Penalty.Minutes
	a.teams[side].PIM += e.Penalty.Minutes

	a.rep.sides[side].applyPenalty(e.PlayerID, *e.Penalty, a.rules.ConcurrentPenalties)
	if !e.Penalty.Offsetting && e.Penalty.Severity != model.SeverityMisconduct {
		a.teams[1-side].PowerPlays++
		a.teams[side].TimesShortHanded++
	}
	return nil
}

func (a *aggregator) applyShootout(e model.GameEvent) error {
	switch e.Type {
	case model.EventPeriodStart:
		a.soPlayed = true
		return nil
	case model.EventPeriodEnd, model.EventSave:
		return nil
	case model.EventGameEnd:
		if e.GameEnd == nil {
			return fmt.Errorf("game_end event %d missing its detail", e.Sequence)
		}
		side, err := a.side(e.GameEnd.WinnerTeamID)
		if err != nil {
			return err
		}
		a.soWinner = side
		return nil
	case model.EventGoal:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		a.so[side].Attempts++
		a.so[side].Goals++
		return nil
	case model.EventShot, model.EventMissedShot:
		side, err := a.side(e.TeamID)
		if err != nil {
			return err
		}
		a.so[side].Attempts++
		return nil
	}
	return fmt.Errorf("event %d has type %q outside the shootout repertoire", e.Sequence, e.Type)
}

func (a *aggregator) boxscore() *model.Boxscore {
	box := &model.Boxscore{}
	sides := []*model.TeamBox{&box.Home, &box.Away}

	for i, tb := range sides {
		tb.Skaters = make([]model.SkaterLine, 0, len(a.order[i]))
		for _, id := range a.order[i] {
			row := a.skaters[id]
			if split := a.rep.skaterTOI[id]; split != nil {
				row.TOI = *split
			}
			tb.Skaters = append(tb.Skaters, *row)
		}
		tb.Goalies = a.goalieLines(i)

		t := a.teams[i]
		t.ShootingPct = pct(t.Goals, t.Shots)
		t.PowerPlayPct = pct(t.PowerPlayGoals, t.PowerPlays)
		t.PenaltyKillPct = pct(t.TimesShortHanded-t.PowerPlayGoalsIn, t.TimesShortHanded)
		t.FaceoffPct = pct(t.FaceoffWins, t.FaceoffWins+t.FaceoffLosses)
		if a.soWinner == i {
			t.Goals++
		}
		tb.Team = t

		if a.soPlayed {
			line := a.so[i]
			tb.Shootout = &line
		}
	}

	box.Periods = a.periodScores()
	return box
}

// goalieLines lists every goaltender who saw the ice, most seconds first.
func (a *aggregator) goalieLines(side int) []model.GoalieLine {
	var out []model.GoalieLine
	for id, meta := range a.goalieIn {
		if meta.side != side {
			continue
		}
		toi := a.rep.goalieTOI[id]
		row := a.goalies[id]
		if toi == 0 && row == nil {
			continue
		}
		if row == nil {
			row = &model.GoalieLine{PlayerID: id, Name: meta.name}
		}
		row.TOISeconds = toi
		if row.ShotsAgainst > 0 {
			row.SavePct = float64(row.Saves) / float64(row.ShotsAgainst)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TOISeconds != out[j].TOISeconds {
			return out[i].TOISeconds > out[j].TOISeconds
		}
		return a.goalieIn[out[i].PlayerID].idx < a.goalieIn[out[j].PlayerID].idx
	})
	return out
}

// periodScores renders the line score: every regulation period, overtime
// and shootout rows only when reached. The shootout row shows the deciding
// goal, not conversion counts.
func (a *aggregator) periodScores() []model.PeriodScore {
	for p := 1; p <= a.rules.Periods; p++ {
		a.periodRow(p)
	}
	if a.soWinner >= 0 {
		row := a.periodRow(a.rules.Periods + 2)
		if a.soWinner == 0 {
			row.Home++
		} else {
			row.Away++
		}
	}
	out := make([]model.PeriodScore, 0, len(a.periods))
	for _, row := range a.periods {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func pct(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}
