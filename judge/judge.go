// Package judge scores player input against pending entries and
// retires them. Entries move Pending -> Judged exactly once.
package judge

import (
	"fmt"
	"math"

	"github.com/jazzify/chordplay/chord"
	"github.com/jazzify/chordplay/constants"
	"github.com/jazzify/chordplay/emitter"
	"github.com/jazzify/chordplay/model"
	"github.com/sirupsen/logrus"
)

type Engine struct {
	window  model.JudgmentWindow
	pending []*model.ScheduledEntry
	results *emitter.Emitter[model.JudgmentResult]
	combo   int
	score   int

	// entries born since the last sweep; a newborn is never missed
	// on the tick that created it, however late that tick runs
	fresh map[string]bool
}

func New(window model.JudgmentWindow) (*Engine, error) {
	if window.PerfectMs <= 0 || window.GoodMs <= 0 {
		return nil, fmt.Errorf("judgment windows must be positive, got %+v", window)
	}
	if window.GoodMs < window.PerfectMs {
		return nil, fmt.Errorf("good window must contain perfect window, got %+v", window)
	}
	return &Engine{
		window:  window,
		results: emitter.New[model.JudgmentResult](),
		fresh:   make(map[string]bool),
	}, nil
}

func (e *Engine) Add(entry *model.ScheduledEntry) {
	if e.LaneOccupied(entry.Lane) {
		panic(fmt.Sprintf("lane %d already holds an unjudged entry", entry.Lane))
	}
	e.pending = append(e.pending, entry)
	e.fresh[entry.ID] = true
}

func (e *Engine) LaneOccupied(lane int) bool {
	for _, p := range e.pending {
		if p.Lane == lane {
			return true
		}
	}
	return false
}

// Pending returns copies; callers never see the live entries.
func (e *Engine) Pending() []model.ScheduledEntry {
	res := make([]model.ScheduledEntry, 0, len(e.pending))
	for _, p := range e.pending {
		res = append(res, *p)
	}
	return res
}

// Submit scores one input against the nearest pending entry whose
// pitch-class key matches. Inputs farther from every match than the
// good window are dropped without any judgment; a drop is not a miss.
func (e *Engine) Submit(key string, atMs float64) bool {
	var best *model.ScheduledEntry
	bestDist := math.Inf(1)
	for _, p := range e.pending {
		if chord.Key(p.Chord) != key {
			continue
		}
		dist := math.Abs(atMs - p.HitTimeMs)
		if dist < bestDist {
			best = p
			bestDist = dist
		}
	}
	if best == nil {
		logrus.Debugf("input %v at %.0fms matched no pending chord", key, atMs)
		return false
	}
	if bestDist > e.window.GoodMs {
		logrus.Debugf("input for %v at %.0fms outside good window (%.0fms away)", best.Chord.Name, atMs, bestDist)
		return false
	}
	outcome := model.OutcomeGood
	if bestDist <= e.window.PerfectMs {
		outcome = model.OutcomePerfect
	}
	e.judge(best, outcome, atMs-best.HitTimeMs)
	return true
}

// Sweep auto-misses every entry whose due time has receded more than
// the good window into the past.
func (e *Engine) Sweep(nowMs float64) {
	// snapshot: judging mutates e.pending
	overdue := make([]*model.ScheduledEntry, 0)
	for _, p := range e.pending {
		if e.fresh[p.ID] {
			delete(e.fresh, p.ID)
			continue
		}
		if nowMs-p.HitTimeMs > e.window.GoodMs {
			overdue = append(overdue, p)
		}
	}
	for _, p := range overdue {
		e.judge(p, model.OutcomeMiss, nowMs-p.HitTimeMs)
	}
}

func (e *Engine) judge(entry *model.ScheduledEntry, outcome model.Outcome, deltaMs float64) {
	if entry.Judged {
		panic("entry " + entry.ID + " judged twice")
	}
	entry.Judged = true
	entry.Outcome = outcome

	for i, p := range e.pending {
		if p == entry {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			break
		}
	}
	delete(e.fresh, entry.ID)

	switch outcome {
	case model.OutcomeMiss:
		e.combo = 0
	case model.OutcomePerfect:
		e.combo++
		e.score += constants.ScorePerfect
	case model.OutcomeGood:
		e.combo++
		e.score += constants.ScoreGood
	}

	e.results.Emit(model.JudgmentResult{
		EntryID:       entry.ID,
		Chord:         entry.Chord,
		Lane:          entry.Lane,
		Outcome:       outcome,
		TimingDeltaMs: deltaMs,
		Combo:         e.combo,
		Score:         e.score,
	})
}

// Clear drops all pending entries without judging them. An aborted
// session emits no trailing misses.
func (e *Engine) Clear() {
	e.pending = nil
	e.fresh = make(map[string]bool)
}

func (e *Engine) Combo() int {
	return e.combo
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) OnResult(fn func(model.JudgmentResult)) func() {
	return e.results.Subscribe(fn)
}
