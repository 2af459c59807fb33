package state

import (
	"fmt"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// boxEntry is one penalty being served. Double minors count two segments;
// remaining always tracks the current segment only. Entries that cost a
// skater occupy one of the concurrent slots; misconducts and coincidental
// majors sit without one because a substitute plays on.
type boxEntry struct {
	playerID    int64
	severity    model.PenaltySeverity
	remaining   int
	segments    int
	releasable  bool
	costsSkater bool
}

// segmentSeconds is how long one stretch of the severity runs.
func segmentSeconds(s model.PenaltySeverity) int {
	switch s {
	case model.SeverityDoubleMinor:
		return 120
	default:
		return s.BaseMinutes() * 60
	}
}

// PenaltyCall is the engine's instruction to the box.
type PenaltyCall struct {
	PlayerID    int64
	Severity    model.PenaltySeverity
	Releasable  bool
	CostsSkater bool
}

// ApplyPenalty books a penalty: the player leaves the ice and starts
// serving, or queues behind the concurrent-slot limit. The caller stops
// play right after, so the shorthanded unit appears at the next faceoff.
func (g *Game) ApplyPenalty(side Side, call PenaltyCall) error {
	ts := g.teams[side]
	if _, ok := ts.players[call.PlayerID]; !ok {
		return g.violation(fmt.Sprintf("penalty on unknown player %d", call.PlayerID))
	}

	entry := &boxEntry{
		playerID:    call.PlayerID,
		severity:    call.Severity,
		remaining:   segmentSeconds(call.Severity),
		segments:    1,
		releasable:  call.Releasable,
		costsSkater: call.CostsSkater,
	}
	if call.Severity == model.SeverityDoubleMinor {
		entry.segments = 2
	}

	ts.removeFromIce(call.PlayerID)
	if entry.costsSkater && ts.activeCosting() >= g.params.Rules.ConcurrentPenalties {
		ts.queued = append(ts.queued, entry)
	} else {
		ts.box = append(ts.box, entry)
	}
	return nil
}

// activeCosting counts the running penalties that hold a skater off the ice.
func (ts *teamState) activeCosting() int {
	n := 0
	for _, e := range ts.box {
		if e.costsSkater {
			n++
		}
	}
	return n
}

// tickPenalties advances every running clock one second and returns the
// players whose release restores a skater. Queued penalties start the
// moment a slot frees; their players keep sitting until their own time runs.
func (ts *teamState) tickPenalties(slots int) (released []int64) {
	kept := ts.box[:0]
	for _, e := range ts.box {
		e.remaining--
		if e.remaining > 0 {
			kept = append(kept, e)
			continue
		}
		if e.segments > 1 {
			e.segments--
			e.remaining = segmentSeconds(e.severity)
			kept = append(kept, e)
			continue
		}
		if e.costsSkater {
			released = append(released, e.playerID)
		}
	}
	ts.box = kept
	ts.promoteQueued(slots)
	return released
}

// releaseOnGoalAgainst ends the earliest releasable penalty after a
// power-play goal. A double minor only closes its current segment; the
// returned ID is non-zero only when a player actually comes back.
func (ts *teamState) releaseOnGoalAgainst() int64 {
	for i, e := range ts.box {
		if !e.releasable || !e.costsSkater {
			continue
		}
		if e.segments > 1 {
			e.segments--
			e.remaining = segmentSeconds(e.severity)
			return 0
		}
		ts.box = append(ts.box[:i], ts.box[i+1:]...)
		return e.playerID
	}
	return 0
}

func (ts *teamState) promoteQueued(slots int) {
	for len(ts.queued) > 0 && ts.activeCosting() < slots {
		ts.box = append(ts.box, ts.queued[0])
		ts.queued = ts.queued[1:]
	}
}

func (ts *teamState) boxSummary() []string {
	out := make([]string, 0, len(ts.box))
	for _, e := range ts.box {
		out = append(out, fmt.Sprintf("%d:%s:%ds", e.playerID, e.severity, e.remaining))
	}
	return out
}

func (ts *teamState) queueSummary() []string {
	out := make([]string, 0, len(ts.queued))
	for _, e := range ts.queued {
		out = append(out, fmt.Sprintf("%d:%s", e.playerID, e.severity))
	}
	return out
}
