package stats

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// replay reconstructs who was on the ice for every second of play using
// only what the stream carries: faceoff events supply full on-ice pictures,
// penalty events start box clocks, goals apply the power-play release. The
// second-by-second walk matches the engine's own accounting, so ice time
// folds out of the stream exactly.
type replay struct {
	rules config.Rules

	period int
	clock  int
	inPlay bool

	sides [2]*sideState

	skaterTOI map[int64]*model.StrengthSplit
	goalieTOI map[int64]int
}

type sideState struct {
	onIce  []int64
	goalie int64
	box    []*boxClock
	queued []*boxClock
}

// boxClock is one penalty being served, rebuilt from its event.
type boxClock struct {
	playerID    int64
	severity    model.PenaltySeverity
	remaining   int
	segments    int
	releasable  bool
	costsSkater bool
}

func newReplay(rules config.Rules) *replay {
	return &replay{
		rules:     rules,
		sides:     [2]*sideState{{}, {}},
		skaterTOI: make(map[int64]*model.StrengthSplit),
		goalieTOI: make(map[int64]int),
	}
}

func segSeconds(s model.PenaltySeverity) int {
	if s == model.SeverityDoubleMinor {
		return 120
	}
	return s.BaseMinutes() * 60
}

func (r *replay) beginPeriod(period int) {
	r.period = period
	if period > r.rules.Periods {
		r.clock = r.rules.OvertimeSeconds
	} else {
		r.clock = r.rules.PeriodSeconds
	}
	r.inPlay = true
}

func (r *replay) overtime() bool { return r.period > r.rules.Periods }

// advanceTo walks the clock down to target one second at a time, crediting
// ice time and running the box clocks along the way.
func (r *replay) advanceTo(target int) error {
	if target > r.clock {
		return fmt.Errorf("stream runs backwards: clock %d after %d in period %d", target, r.clock, r.period)
	}
	for r.clock > target {
		r.tickSecond()
	}
	return nil
}

// tickSecond mirrors one engine tick: box clocks first with expiry releases
// stepping straight onto the ice, then ice time at the resulting strength.
func (r *replay) tickSecond() {
	r.clock--
	for i := 0; i < 2; i++ {
		for _, released := range r.sides[i].tickBox(r.rules.ConcurrentPenalties) {
			r.stepOnIce(i, released)
		}
	}

	home, away := len(r.sides[0].onIce), len(r.sides[1].onIce)
	for i := 0; i < 2; i++ {
		own, opp := home, away
		if i == 1 {
			own, opp = away, home
		}
		for _, id := range r.sides[i].onIce {
			split := r.skaterTOI[id]
			if split == nil {
				split = &model.StrengthSplit{}
				r.skaterTOI[id] = split
			}
			switch {
			case own > opp:
				split.PowerPlay++
			case own < opp:
				split.ShortHanded++
			default:
				split.Even++
			}
		}
		if g := r.sides[i].goalie; g != 0 {
			r.goalieTOI[g]++
		}
	}
}

// setOnIce replaces a side's on-ice picture from a faceoff record.
func (r *replay) setOnIce(d *model.FaceoffDetail) {
	r.sides[0].onIce = append(r.sides[0].onIce[:0], d.HomeOnIce...)
	r.sides[0].goalie = d.HomeGoalie
	r.sides[1].onIce = append(r.sides[1].onIce[:0], d.AwayOnIce...)
	r.sides[1].goalie = d.AwayGoalie
}

// entitled mirrors the skater entitlement the engine enforces.
func (r *replay) entitled(i int) int {
	ru := r.rules
	own := r.sides[i].activeCosting()
	opp := r.sides[1-i].activeCosting()

	var n int
	if r.overtime() {
		n = ru.OvertimeSkaters
		if opp > own {
			n += opp - own
		}
	} else {
		n = ru.RegulationSkaters - own
	}
	if n < ru.MinSkaters {
		n = ru.MinSkaters
	}
	if r.sides[i].goalie == 0 {
		n++
	}
	if n > ru.MaxSkaters {
		n = ru.MaxSkaters
	}
	return n
}

func (r *replay) stepOnIce(i int, playerID int64) {
	s := r.sides[i]
	if len(s.onIce) >= r.entitled(i) {
		return
	}
	for _, id := range s.onIce {
		if id == playerID {
			return
		}
	}
	s.onIce = append(s.onIce, playerID)
}

// applyPenalty books a reconstructed box entry, mirroring the engine:
// non-offsetting, non-misconduct penalties cost a skater, and a full set of
// concurrent slots queues the newcomer.
func (s *sideState) applyPenalty(playerID int64, d model.PenaltyDetail, slots int) {
	costs := !d.Offsetting && d.Severity != model.SeverityMisconduct
	e := &boxClock{
		playerID:    playerID,
		severity:    d.Severity,
		remaining:   segSeconds(d.Severity),
		segments:    1,
		releasable:  d.Releasable,
		costsSkater: costs,
	}
	if d.Severity == model.SeverityDoubleMinor {
		e.segments = 2
	}

	for i, id := range s.onIce {
		if id == playerID {
			s.onIce = append(s.onIce[:i], s.onIce[i+1:]...)
			break
		}
	}
	if costs && s.activeCosting() >= slots {
		s.queued = append(s.queued, e)
	} else {
		s.box = append(s.box, e)
	}
}

func (s *sideState) activeCosting() int {
	n := 0
	for _, e := range s.box {
		if e.costsSkater {
			n++
		}
	}
	return n
}

func (s *sideState) tickBox(slots int) (released []int64) {
	kept := s.box[:0]
	for _, e := range s.box {
		e.remaining--
		if e.remaining > 0 {
			kept = append(kept, e)
			continue
		}
		if e.segments > 1 {
			e.segments--
			e.remaining = segSeconds(e.severity)
			kept = append(kept, e)
			continue
		}
		if e.costsSkater {
			released = append(released, e.playerID)
		}
	}
	s.box = kept
	s.promote(slots)
	return released
}

// releaseOnGoal ends the earliest releasable penalty after a power-play
// goal against; a double minor only closes its running segment.
func (s *sideState) releaseOnGoal(slots int) {
	for i, e := range s.box {
		if !e.releasable || !e.costsSkater {
			continue
		}
		if e.segments > 1 {
			e.segments--
			e.remaining = segSeconds(e.severity)
		} else {
			s.box = append(s.box[:i], s.box[i+1:]...)
		}
		break
	}
	s.promote(slots)
}

func (s *sideState) promote(slots int) {
	for len(s.queued) > 0 && s.activeCosting() < slots {
		s.box = append(s.box, s.queued[0])
		s.queued = s.queued[1:]
	}
}
