package engine

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jazzify/chordplay/model"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) AdvanceMs(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Duration(ms * float64(time.Millisecond)))
}

// 120 bpm 4/4, no count-in: beat n is due at n*500ms.
func randomCfg() model.Config {
	return model.Config{
		BPM:           120,
		TimeSignature: 4,
		MeasureCount:  2,
		Mode:          model.ModeRandom,
		AllowedChords: []string{"C"},
		Window:        model.JudgmentWindow{PerfectMs: 80, GoodMs: 250},
	}
}

func progressionCfg() model.Config {
	cfg := randomCfg()
	cfg.Mode = model.ModeProgression
	cfg.AllowedChords = nil
	cfg.Progression = []string{"C", "G", "Am", "F"}
	return cfg
}

// startForTest brings the engine up without the ticker goroutine so
// tests control every step.
func startForTest(t *testing.T, e *Engine, clk *fakeClock) {
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.NoError(t, e.transport.Start(clk.Now()))
	e.running = true
	e.filled = false
	e.stopCh = make(chan struct{})
}

func testEngine(t *testing.T, cfg model.Config, clk *fakeClock) *Engine {
	e, err := New(cfg, WithClock(clk.Now), WithRand(rand.New(rand.NewSource(1))))
	assert.NoError(t, err)
	return e
}

func TestNewRejectsUnplayableConfig(t *testing.T) {
	assert := assert.New(t)

	cfg := randomCfg()
	cfg.AllowedChords = nil
	_, err := New(cfg)
	assert.Error(err)

	cfg = randomCfg()
	cfg.BPM = 0
	_, err = New(cfg)
	assert.Error(err)

	cfg = progressionCfg()
	cfg.Progression = nil
	_, err = New(cfg)
	assert.Error(err)
}

func TestOptionErrorsSurface(t *testing.T) {
	boom := Option(func(*Engine) error { return errors.New("boom") })
	_, err := New(randomCfg(), boom)
	assert.EqualError(t, err, "boom")
}

func TestBarBoundarySchedulesOneChord(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var changes [][]model.ScheduledEntry
	e.OnScheduleChange(func(entries []model.ScheduledEntry) { changes = append(changes, entries) })

	startForTest(t, e, clk)
	e.step()

	assert := assert.New(t)
	assert.Len(changes, 1)
	assert.Len(changes[0], 1)
	entry := changes[0][0]
	assert.Equal("C", entry.Chord.Name)
	assert.Equal(0, entry.Lane)
	assert.InDelta(0, entry.HitBeat, 1e-9)
	assert.InDelta(0, entry.HitTimeMs, 1e-9)
}

func TestPerfectThenGoodThenMiss(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var results []model.JudgmentResult
	e.OnJudgment(func(r model.JudgmentResult) { results = append(results, r) })

	startForTest(t, e, clk)
	e.step()

	// bar 1: played dead on
	e.SubmitNotes([]uint8{60, 64, 67}, 0)
	e.step()

	// bar 2 due at 2000ms: played 100ms late
	clk.AdvanceMs(2000)
	e.step()
	e.SubmitNotes([]uint8{60, 64, 67}, 2100)
	e.step()

	// bar 3 due at 4000ms: never played
	clk.AdvanceMs(2000)
	e.step()
	clk.AdvanceMs(300)
	e.step()

	assert := assert.New(t)
	assert.Len(results, 3)
	assert.Equal(model.OutcomePerfect, results[0].Outcome)
	assert.Equal(model.OutcomeGood, results[1].Outcome)
	assert.InDelta(100, results[1].TimingDeltaMs, 1e-9)
	assert.Equal(model.OutcomeMiss, results[2].Outcome)

	state := e.GetState()
	assert.Equal(0, state.Combo)
	assert.Equal(150, state.Score)
}

func TestNewbornEntrySurvivesItsBirthTick(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var results []model.JudgmentResult
	e.OnJudgment(func(r model.JudgmentResult) { results = append(results, r) })

	startForTest(t, e, clk)
	// a very late first tick: the bar-1 entry is born and already
	// overdue, but the sweep must not kill it this tick
	clk.AdvanceMs(300)
	e.step()

	assert.Empty(t, results)
	assert.Len(t, e.GetState().Entries, 1)
}

func TestQueuedInputBeatsTheSweep(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var results []model.JudgmentResult
	e.OnJudgment(func(r model.JudgmentResult) { results = append(results, r) })

	startForTest(t, e, clk)
	e.step()

	// input landed late but inside good; the clock has since drifted
	// past the miss deadline. The queued input must win.
	e.SubmitNotes([]uint8{60, 64, 67}, 200)
	clk.AdvanceMs(400)
	e.step()

	assert := assert.New(t)
	assert.Len(results, 1)
	assert.Equal(model.OutcomeGood, results[0].Outcome)
}

func TestLateInputIsDroppedSilently(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var results []model.JudgmentResult
	e.OnJudgment(func(r model.JudgmentResult) { results = append(results, r) })

	startForTest(t, e, clk)
	e.step()

	e.SubmitNotes([]uint8{60, 64, 67}, 251)
	clk.AdvanceMs(100)
	e.step()

	assert.Empty(t, results)
	assert.Len(t, e.GetState().Entries, 1)
}

func TestCountInReportsButNeverSchedules(t *testing.T) {
	clk := newFakeClock()
	cfg := randomCfg()
	cfg.CountInMeasures = 1
	e := testEngine(t, cfg, clk)

	startForTest(t, e, clk)
	clk.AdvanceMs(1000)
	e.step()

	state := e.GetState()
	assert := assert.New(t)
	assert.True(state.Position.IsCountIn)
	assert.Empty(state.Entries)

	clk.AdvanceMs(1000) // gameplay starts at 2000ms
	e.step()
	assert.Len(e.GetState().Entries, 1)
}

func TestProgressionInitialFillAndRefill(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, progressionCfg(), clk)

	startForTest(t, e, clk)
	e.step()

	state := e.GetState()
	assert := assert.New(t)
	assert.Len(state.Entries, 4)
	laneChords := make(map[int]string)
	for _, entry := range state.Entries {
		laneChords[entry.Lane] = entry.Chord.Name
	}
	assert.Equal(map[int]string{0: "C", 1: "G", 2: "Am", 3: "F"}, laneChords)

	// consume lane 0, then ask for a refill
	e.SubmitNotes([]uint8{60, 64, 67}, 0)
	e.step()
	assert.Len(e.GetState().Entries, 3)

	entry, err := e.FillLane(0)
	assert.NoError(err)
	// length == lanes: the same chord comes back to the same lane
	assert.Equal(0, entry.Lane)
	assert.Equal("C", entry.Chord.Name)
	assert.Len(e.GetState().Entries, 4)
}

// A fill rejected for an occupied lane must not consume a progression
// index: the retry after the lane frees up gets the same chord, in
// authored order.
func TestRejectedFillKeepsProgressionOrder(t *testing.T) {
	clk := newFakeClock()
	cfg := progressionCfg()
	cfg.Progression = []string{"C", "G", "Am", "F", "Dm", "Em"}
	e := testEngine(t, cfg, clk)

	startForTest(t, e, clk)
	e.step()

	assert := assert.New(t)

	// the board is full; the next consumption derives lane 0
	_, err := e.FillLane(0)
	assert.Error(err)
	_, err = e.FillLane(0)
	assert.Error(err)

	// free lane 0, then refill: the next authored chord arrives,
	// nothing was skipped by the rejected requests
	e.SubmitNotes([]uint8{60, 64, 67}, 0)
	e.step()

	entry, err := e.FillLane(0)
	assert.NoError(err)
	assert.Equal("Dm", entry.Chord.Name)
	assert.Equal(4, entry.ProgressionIndex)
	assert.Equal(0, entry.Lane)
}

func TestFillLaneRejectsOccupiedLane(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, progressionCfg(), clk)

	startForTest(t, e, clk)
	e.step()

	_, err := e.FillLane(0)
	assert.Error(t, err)
}

func TestFillLaneRejectsRandomMode(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	startForTest(t, e, clk)

	_, err := e.FillLane(0)
	assert.Error(t, err)
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)

	assert := assert.New(t)
	assert.NoError(e.Start())
	assert.NoError(e.Start())
	assert.True(e.GetState().Running)

	e.Stop()
	e.Stop()
	assert.False(e.GetState().Running)
}

func TestStopAbortsWithoutMisses(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var results []model.JudgmentResult
	e.OnJudgment(func(r model.JudgmentResult) { results = append(results, r) })

	startForTest(t, e, clk)
	e.step()
	assert.Len(t, e.GetState().Entries, 1)

	e.Stop()

	assert := assert.New(t)
	assert.Empty(e.GetState().Entries)
	assert.Empty(results)

	// a stale step after stop does nothing
	clk.AdvanceMs(10000)
	e.step()
	assert.Empty(results)
}

func TestDisposersDetachObservers(t *testing.T) {
	clk := newFakeClock()
	e := testEngine(t, randomCfg(), clk)
	var count int
	dispose := e.OnScheduleChange(func([]model.ScheduledEntry) { count++ })
	dispose()

	startForTest(t, e, clk)
	e.step()

	assert.Equal(t, 0, count)
}
