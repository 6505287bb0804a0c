package timing

import (
	"fmt"
	"math"
	"time"

	"github.com/jazzify/chordplay/constants"
	"github.com/jazzify/chordplay/emitter"
	"github.com/jazzify/chordplay/model"
)

// BeatEvent fires exactly once per whole-beat crossing, count-in
// excluded.
type BeatEvent struct {
	// Beat is the whole absolute beat that was crossed.
	Beat int

	// Position is the position at exactly that beat, not at the tick
	// that detected it.
	Position model.BeatPosition
}

// Transport turns elapsed performance time into beat positions and
// beat-boundary events.
type Transport struct {
	bpm             float64
	timeSignature   int
	measureCount    int
	countInMeasures int

	src      Source
	running  bool
	lastBeat int

	ticks *emitter.Emitter[model.BeatPosition]
	beats *emitter.Emitter[BeatEvent]
}

func NewTransport(cfg model.Config, src Source) (*Transport, error) {
	if cfg.BPM <= 0 {
		return nil, fmt.Errorf("bpm must be positive, got %v", cfg.BPM)
	}
	if cfg.TimeSignature <= 0 {
		return nil, fmt.Errorf("time signature must be positive, got %v", cfg.TimeSignature)
	}
	if cfg.MeasureCount <= 0 {
		return nil, fmt.Errorf("measure count must be positive, got %v", cfg.MeasureCount)
	}
	if cfg.CountInMeasures < 0 {
		return nil, fmt.Errorf("count-in measures must not be negative, got %v", cfg.CountInMeasures)
	}
	return &Transport{
		bpm:             cfg.BPM,
		timeSignature:   cfg.TimeSignature,
		measureCount:    cfg.MeasureCount,
		countInMeasures: cfg.CountInMeasures,
		src:             src,
		ticks:           emitter.New[model.BeatPosition](),
		beats:           emitter.New[BeatEvent](),
	}, nil
}

func (t *Transport) MsPerBeat() float64 {
	return 60000 / t.bpm
}

func (t *Transport) countInBeats() float64 {
	return float64(t.countInMeasures * t.timeSignature)
}

// BeatToMs maps an absolute gameplay beat back to elapsed ms.
func (t *Transport) BeatToMs(beat float64) float64 {
	return (t.countInBeats() + beat) * t.MsPerBeat()
}

// Position is a pure function of elapsed ms.
func (t *Transport) Position(elapsedMs float64) model.BeatPosition {
	beatsPerLoop := float64(t.measureCount * t.timeSignature)
	totalBeats := elapsedMs / t.MsPerBeat()
	absolute := totalBeats - t.countInBeats()

	if absolute < 0 {
		// during count-in the measure counts up from the negative side
		return model.BeatPosition{
			AbsoluteBeat:  absolute,
			Measure:       int(math.Floor(totalBeats/float64(t.timeSignature))) - t.countInMeasures,
			BeatInMeasure: math.Mod(totalBeats, float64(t.timeSignature)) + 1,
			IsCountIn:     true,
		}
	}

	wrapped := math.Mod(absolute, beatsPerLoop)
	return model.BeatPosition{
		AbsoluteBeat:  absolute,
		Measure:       int(wrapped/float64(t.timeSignature)) + 1,
		BeatInMeasure: math.Mod(wrapped, float64(t.timeSignature)) + 1,
		IsCountIn:     false,
	}
}

// PositionAtBeat is Position for exactly a whole gameplay beat.
func (t *Transport) PositionAtBeat(beat int) model.BeatPosition {
	return t.Position((float64(beat) + t.countInBeats()) * t.MsPerBeat())
}

func (t *Transport) Start(now time.Time) error {
	if t.running {
		return nil
	}
	t.lastBeat = -1
	t.src.Begin(now)
	t.running = true
	return nil
}

func (t *Transport) Stop() {
	t.running = false
}

func (t *Transport) Running() bool {
	return t.running
}

func (t *Transport) ElapsedMs(now time.Time) float64 {
	return t.src.ElapsedMs(now)
}

// Advance emits one tick plus every whole beat crossed since the last
// call, in increasing order. Beats inside the count-in are reported by
// the tick but never become BeatEvents, so nothing downstream refills
// or times out before gameplay starts.
func (t *Transport) Advance(now time.Time) model.BeatPosition {
	pos := t.Position(t.src.ElapsedMs(now))
	if !t.running {
		return pos
	}
	t.ticks.Emit(pos)

	if pos.IsCountIn {
		return pos
	}
	crossed := int(math.Floor(pos.AbsoluteBeat + constants.BeatEpsilon))
	for b := t.lastBeat + 1; b <= crossed; b++ {
		t.beats.Emit(BeatEvent{Beat: b, Position: t.PositionAtBeat(b)})
	}
	if crossed > t.lastBeat {
		t.lastBeat = crossed
	}
	return pos
}

func (t *Transport) OnTick(fn func(model.BeatPosition)) func() {
	return t.ticks.Subscribe(fn)
}

func (t *Transport) OnBeat(fn func(BeatEvent)) func() {
	return t.beats.Subscribe(fn)
}
