// Package schedule decides which chord is asked in which lane. Two
// policies exist: random draw (one chord per bar, single lane) and a
// fixed progression cycled round-robin across lanes with a rotating
// per-loop lane offset.
package schedule

import (
	"errors"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jazzify/chordplay/model"
)

type Scheduler struct {
	mode        model.Mode
	allowed     []model.ChordSpec
	progression []model.ChordSpec
	laneCount   int
	beatsPerBar int
	rng         *rand.Rand

	// globalIndex counts every emitted entry, initial fill included.
	// It only ever grows; no index is reused.
	globalIndex int
	lastRandom  string
}

func New(cfg model.Config, allowed, progression []model.ChordSpec, rng *rand.Rand) (*Scheduler, error) {
	lanes := cfg.LaneCount
	if lanes == 0 {
		lanes = cfg.TimeSignature
	}
	s := &Scheduler{
		mode:        cfg.Mode,
		allowed:     allowed,
		progression: progression,
		laneCount:   lanes,
		beatsPerBar: cfg.TimeSignature,
		rng:         rng,
	}
	switch cfg.Mode {
	case model.ModeRandom, model.ModeTimingRandom:
		if len(allowed) == 0 {
			return nil, errors.New("random mode needs at least one allowed chord")
		}
	case model.ModeProgression:
		if len(progression) == 0 {
			return nil, errors.New("progression mode needs a non-empty progression")
		}
		if lanes <= 0 {
			return nil, errors.New("progression mode needs at least one lane")
		}
	default:
		return nil, errors.New("unknown mode: " + string(cfg.Mode))
	}
	return s, nil
}

func (s *Scheduler) LaneCount() int {
	return s.laneCount
}

func (s *Scheduler) GlobalIndex() int {
	return s.globalIndex
}

// NextBar draws the chord for the bar starting at barStartBeat. The
// draw never repeats the previous chord unless only one chord is
// allowed. In timing_random mode the due beat lands anywhere in the
// bar rather than on the downbeat.
func (s *Scheduler) NextBar(barStartBeat float64) *model.ScheduledEntry {
	pick := s.allowed[s.rng.Intn(len(s.allowed))]
	for len(s.allowed) > 1 && pick.ID == s.lastRandom {
		pick = s.allowed[s.rng.Intn(len(s.allowed))]
	}
	s.lastRandom = pick.ID

	hitBeat := barStartBeat
	if s.mode == model.ModeTimingRandom {
		hitBeat += float64(s.rng.Intn(s.beatsPerBar))
	}

	s.globalIndex++
	return &model.ScheduledEntry{
		ID:               uuid.New().String(),
		Chord:            pick,
		Lane:             0,
		ProgressionIndex: -1,
		HitBeat:          hitBeat,
	}
}

// laneFor derives where consumption i lands. The requested lane is
// advisory: it only places entries while the board first fills;
// afterwards the lane derives from the global index so that every
// chord rotates through every lane across loops of the progression.
func (s *Scheduler) laneFor(i, requestedLane int) int {
	if i < s.laneCount {
		return requestedLane
	}
	length := len(s.progression)
	loopCount := i / length
	offset := 0
	if length > 1 {
		offset = (loopCount * (length % s.laneCount)) % s.laneCount
	}
	return (i%s.laneCount + offset) % s.laneCount
}

// NextLane reports where the next progression entry will land without
// consuming it, so callers can check the lane before committing.
func (s *Scheduler) NextLane(requestedLane int) int {
	return s.laneFor(s.globalIndex, requestedLane)
}

// FillColumn emits the next progression entry, consuming one global
// index. Callers that may reject the entry peek with NextLane first;
// a consumed index is never re-emitted.
func (s *Scheduler) FillColumn(requestedLane int, nowBeat float64) *model.ScheduledEntry {
	i := s.globalIndex
	s.globalIndex++

	lane := s.laneFor(i, requestedLane)
	progressionIndex := i % len(s.progression)

	return &model.ScheduledEntry{
		ID:               uuid.New().String(),
		Chord:            s.progression[progressionIndex],
		Lane:             lane,
		ProgressionIndex: progressionIndex,
		HitBeat:          s.slotBeat(lane, nowBeat),
	}
}

// slotBeat is the next time the lane's slot in the bar comes around.
func (s *Scheduler) slotBeat(lane int, nowBeat float64) float64 {
	barStart := math.Floor(nowBeat/float64(s.beatsPerBar)) * float64(s.beatsPerBar)
	slot := barStart + float64(lane)
	if slot < nowBeat {
		slot += float64(s.beatsPerBar)
	}
	return slot
}
