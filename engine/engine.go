// Package engine runs one play session: it advances the transport,
// refills the schedule on beat boundaries, feeds queued input to the
// judge, and sweeps timeouts, in that order, on a single tick
// goroutine. Observer callbacks run on that goroutine and must not
// call back into the engine.
package engine

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jazzify/chordplay/chord"
	"github.com/jazzify/chordplay/constants"
	"github.com/jazzify/chordplay/emitter"
	"github.com/jazzify/chordplay/judge"
	"github.com/jazzify/chordplay/model"
	"github.com/jazzify/chordplay/schedule"
	"github.com/jazzify/chordplay/timing"
	"github.com/sirupsen/logrus"
)

type queuedInput struct {
	key  string
	atMs float64
}

type Engine struct {
	id  string
	cfg model.Config

	mu        sync.Mutex
	transport *timing.Transport
	sched     *schedule.Scheduler
	judge     *judge.Engine
	changes   *emitter.Emitter[[]model.ScheduledEntry]

	running bool
	filled  bool
	dirty   bool
	inputs  []queuedInput
	stopCh  chan struct{}

	now      func() time.Time
	tickSize time.Duration
}

// Option tweaks construction; production code rarely needs any.
type Option func(*Engine) error

// WithAudioTransport switches the timing source to polling the given
// looping audio position instead of free-running.
func WithAudioTransport(at timing.AudioTransport) Option {
	return func(e *Engine) error {
		e.cfg.PollTransport = true
		loopMs := float64((e.cfg.CountInMeasures+e.cfg.MeasureCount)*e.cfg.TimeSignature) * 60000 / e.cfg.BPM
		src := timing.NewPollSource(at, loopMs)
		transport, err := timing.NewTransport(e.cfg, src)
		if err != nil {
			return err
		}
		e.transport = transport
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		e.now = now
		return nil
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) error {
		s, err := schedule.New(e.cfg, chord.ParseAll(e.cfg.AllowedChords), chord.ParseAll(e.cfg.Progression), rng)
		if err != nil {
			return err
		}
		e.sched = s
		return nil
	}
}

func New(cfg model.Config, opts ...Option) (*Engine, error) {
	if cfg.Window.PerfectMs == 0 && cfg.Window.GoodMs == 0 {
		cfg.Window = model.JudgmentWindow{
			PerfectMs: constants.DefaultPerfectMs,
			GoodMs:    constants.DefaultGoodMs,
		}
	}

	transport, err := timing.NewTransport(cfg, timing.NewClockSource())
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sched, err := schedule.New(cfg, chord.ParseAll(cfg.AllowedChords), chord.ParseAll(cfg.Progression), rng)
	if err != nil {
		return nil, err
	}
	jdg, err := judge.New(cfg.Window)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		id:        uuid.New().String(),
		cfg:       cfg,
		transport: transport,
		sched:     sched,
		judge:     jdg,
		changes:   emitter.New[[]model.ScheduledEntry](),
		now:       time.Now,
		tickSize:  constants.DefaultTickMs * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.transport.OnBeat(e.handleBeat)
	// a judged entry leaves the pending set, so observers need a
	// schedule-change emit after the tick that judged it
	e.judge.OnResult(func(model.JudgmentResult) { e.dirty = true })
	return e, nil
}

func (e *Engine) ID() string {
	return e.id
}

// Start begins (or resumes from scratch) the session. Calling it
// while already running is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil
	}
	if err := e.transport.Start(e.now()); err != nil {
		return err
	}
	e.running = true
	e.filled = false
	e.stopCh = make(chan struct{})
	go e.loop(e.stopCh)
	logrus.Infof("session %v started (%v, %v bpm)", e.id, e.cfg.Mode, e.cfg.BPM)
	return nil
}

// Stop aborts the session: pending entries are dropped unjudged, no
// trailing misses fire. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stopCh)
	e.running = false
	e.transport.Stop()
	e.judge.Clear()
	e.inputs = nil
	logrus.Infof("session %v stopped", e.id)
}

func (e *Engine) loop(stop chan struct{}) {
	ticker := time.NewTicker(e.tickSize)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.step()
		}
	}
}

// step is one tick: transport first, then crossed beats (which refill
// the schedule), then inputs queued since the last tick, then the
// timeout sweep. A newborn entry therefore can't be missed on the
// tick it was born, and a borderline input is judged before sweeping.
func (e *Engine) step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	now := e.now()

	inputs := e.inputs
	e.inputs = nil

	pos := e.transport.Advance(now)

	for _, in := range inputs {
		e.judge.Submit(in.key, in.atMs)
	}

	if !pos.IsCountIn {
		e.judge.Sweep(e.transport.ElapsedMs(now))
	}

	if e.dirty {
		e.dirty = false
		e.changes.Emit(e.judge.Pending())
	}
}

func (e *Engine) handleBeat(ev timing.BeatEvent) {
	switch e.cfg.Mode {
	case model.ModeRandom, model.ModeTimingRandom:
		if ev.Beat%e.cfg.TimeSignature != 0 {
			return
		}
		if e.judge.LaneOccupied(0) {
			return
		}
		e.place(e.sched.NextBar(float64(ev.Beat)))
	case model.ModeProgression:
		if ev.Beat == 0 && !e.filled {
			e.filled = true
			for lane := 0; lane < e.sched.LaneCount(); lane++ {
				e.place(e.sched.FillColumn(lane, float64(ev.Beat)))
			}
		}
	}
}

func (e *Engine) place(entry *model.ScheduledEntry) {
	entry.HitTimeMs = e.transport.BeatToMs(entry.HitBeat)
	e.judge.Add(entry)
	e.dirty = true
}

// FillLane requests the next progression chord after a lane's slot
// has been consumed. The scheduler may place the entry in a different
// lane than asked; see schedule.FillColumn.
func (e *Engine) FillLane(lane int) (model.ScheduledEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cfg.Mode != model.ModeProgression {
		return model.ScheduledEntry{}, errors.New("FillLane only applies to progression mode")
	}
	if !e.running {
		return model.ScheduledEntry{}, errors.New("session is not running")
	}
	// check occupancy before consuming a progression index, so a
	// rejected request re-emits the same chord on retry
	if e.judge.LaneOccupied(e.sched.NextLane(lane)) {
		return model.ScheduledEntry{}, errors.New("lane already holds an unjudged entry")
	}
	nowBeat := e.transport.Position(e.transport.ElapsedMs(e.now())).AbsoluteBeat
	entry := e.sched.FillColumn(lane, nowBeat)
	e.place(entry)
	return *entry, nil
}

// SubmitNotes queues one coalesced chord input. It is judged at the
// start of the next tick, before the timeout sweep. atMs is elapsed
// performance time; pass a negative value to stamp it now.
func (e *Engine) SubmitNotes(notes model.Notes, atMs float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	if atMs < 0 {
		atMs = e.transport.ElapsedMs(e.now())
	}
	e.inputs = append(e.inputs, queuedInput{key: chord.KeyFromNotes(notes), atMs: atMs})
}

// ElapsedMs is the current elapsed performance time in ms.
func (e *Engine) ElapsedMs() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transport.ElapsedMs(e.now())
}

func (e *Engine) GetState() model.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.State{
		Running:  e.running,
		Position: e.transport.Position(e.transport.ElapsedMs(e.now())),
		Entries:  e.judge.Pending(),
		Combo:    e.judge.Combo(),
		Score:    e.judge.Score(),
	}
}

func (e *Engine) OnBeatTick(fn func(model.BeatPosition)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transport.OnTick(fn)
}

func (e *Engine) OnScheduleChange(fn func([]model.ScheduledEntry)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changes.Subscribe(fn)
}

func (e *Engine) OnJudgment(fn func(model.JudgmentResult)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.judge.OnResult(fn)
}
