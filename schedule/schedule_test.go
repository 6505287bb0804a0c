package schedule

import (
	"math/rand"
	"testing"

	"github.com/jazzify/chordplay/chord"
	"github.com/jazzify/chordplay/model"
	"github.com/stretchr/testify/assert"
)

func progressionScheduler(t *testing.T, names []string, laneCount, timeSignature int) *Scheduler {
	cfg := model.Config{
		Mode:          model.ModeProgression,
		TimeSignature: timeSignature,
		LaneCount:     laneCount,
	}
	s, err := New(cfg, nil, chord.ParseAll(names), rand.New(rand.NewSource(1)))
	assert.NoError(t, err)
	return s
}

func randomScheduler(t *testing.T, names []string, mode model.Mode, seed int64) *Scheduler {
	cfg := model.Config{
		Mode:          mode,
		TimeSignature: 4,
	}
	s, err := New(cfg, chord.ParseAll(names), nil, rand.New(rand.NewSource(seed)))
	assert.NoError(t, err)
	return s
}

func TestRejectsEmptyChordSets(t *testing.T) {
	assert := assert.New(t)

	_, err := New(model.Config{Mode: model.ModeRandom, TimeSignature: 4}, nil, nil, rand.New(rand.NewSource(1)))
	assert.Error(err)

	_, err = New(model.Config{Mode: model.ModeProgression, TimeSignature: 4}, nil, nil, rand.New(rand.NewSource(1)))
	assert.Error(err)

	_, err = New(model.Config{Mode: "bogus", TimeSignature: 4}, nil, nil, rand.New(rand.NewSource(1)))
	assert.Error(err)
}

func TestLaneCountDefaultsToTimeSignature(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G"}, 0, 3)
	assert.Equal(t, 3, s.LaneCount())
}

func TestInitialFillMatchesProgressionOrder(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G", "Am", "F"}, 4, 4)

	assert := assert.New(t)
	wantChords := []string{"C", "G", "Am", "F"}
	for lane := 0; lane < 4; lane++ {
		e := s.FillColumn(lane, 0)
		assert.Equal(lane, e.Lane)
		assert.Equal(lane, e.ProgressionIndex)
		assert.Equal(wantChords[lane], e.Chord.Name)
	}
}

// Length equals lane count: refills land in the same lanes with the
// same chords forever, no rotation.
func TestNoRotationWhenLengthEqualsLaneCount(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G", "Am", "F"}, 4, 4)
	for lane := 0; lane < 4; lane++ {
		s.FillColumn(lane, 0)
	}

	assert := assert.New(t)
	wantChords := []string{"C", "G", "Am", "F"}
	for i := 0; i < 8; i++ {
		e := s.FillColumn(i%4, 4)
		assert.Equal(i%4, e.Lane)
		assert.Equal(wantChords[i%4], e.Chord.Name)
	}
}

// Length 5 across 3 lanes: the lane offset walks [0, 2, 1, 0] over
// the first four loops of the progression.
func TestPerLoopOffsets(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G", "Am", "F", "Dm"}, 3, 3)

	assert := assert.New(t)
	wantOffsets := []int{0, 2, 1, 0}
	for i := 0; i < 20; i++ {
		e := s.FillColumn(i%3, float64(i))
		loop := i / 5
		offset := (e.Lane - i%3 + 3) % 3
		assert.Equal(wantOffsets[loop], offset, "consumption %d", i)
		assert.Equal(i%5, e.ProgressionIndex)
	}
}

func TestShortProgressionCyclesInOrder(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G"}, 4, 4)

	assert := assert.New(t)
	want := []string{"C", "G", "C", "G", "C", "G", "C", "G"}
	for i, name := range want {
		e := s.FillColumn(i%4, float64(i))
		assert.Equal(name, e.Chord.Name)
	}
}

func TestLengthOneKeepsOffsetZero(t *testing.T) {
	s := progressionScheduler(t, []string{"C"}, 4, 4)
	for i := 0; i < 12; i++ {
		e := s.FillColumn(i%4, float64(i))
		assert.Equal(t, i%4, e.Lane, "consumption %d", i)
		assert.Equal(t, "C", e.Chord.Name)
	}
}

func TestGlobalIndexOnlyGrows(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G"}, 4, 4)

	assert := assert.New(t)
	for i := 0; i < 10; i++ {
		assert.Equal(i, s.GlobalIndex())
		s.FillColumn(i%4, 0)
	}
}

func TestNextLanePeeksWithoutConsuming(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G", "Am", "F", "Dm"}, 3, 3)
	for lane := 0; lane < 3; lane++ {
		s.FillColumn(lane, 0)
	}

	assert := assert.New(t)
	assert.Equal(0, s.NextLane(0))
	assert.Equal(0, s.NextLane(0)) // peeking again consumes nothing
	assert.Equal(3, s.GlobalIndex())

	e := s.FillColumn(0, 3)
	assert.Equal(0, e.Lane)
	assert.Equal("F", e.Chord.Name)
	assert.Equal(3, e.ProgressionIndex)
}

func TestRefillAimsAtTheNextLaneSlot(t *testing.T) {
	s := progressionScheduler(t, []string{"C", "G", "Am", "F"}, 4, 4)
	for lane := 0; lane < 4; lane++ {
		e := s.FillColumn(lane, 0)
		assert.InDelta(t, float64(lane), e.HitBeat, 1e-9)
	}

	// lane 0's slot at beat 4 already passed; next one is beat 8
	e := s.FillColumn(0, 4.5)
	assert.InDelta(t, 8.0, e.HitBeat, 1e-9)
}

func TestSingleAllowedChordMayRepeat(t *testing.T) {
	s := randomScheduler(t, []string{"C"}, model.ModeRandom, 1)
	for bar := 0; bar < 10; bar++ {
		e := s.NextBar(float64(bar * 4))
		assert.Equal(t, "C", e.Chord.Name)
		assert.Equal(t, 0, e.Lane)
	}
}

func TestRandomNeverRepeatsConsecutively(t *testing.T) {
	s := randomScheduler(t, []string{"C", "F", "G"}, model.ModeRandom, 42)
	last := ""
	for bar := 0; bar < 200; bar++ {
		e := s.NextBar(float64(bar * 4))
		assert.NotEqual(t, last, e.Chord.Name, "bar %d", bar)
		last = e.Chord.Name
	}
}

func TestRandomModeDueOnTheDownbeat(t *testing.T) {
	s := randomScheduler(t, []string{"C", "F"}, model.ModeRandom, 7)
	e := s.NextBar(12)
	assert.InDelta(t, 12.0, e.HitBeat, 1e-9)
}

func TestTimingRandomDueInsideTheBar(t *testing.T) {
	s := randomScheduler(t, []string{"C", "F"}, model.ModeTimingRandom, 7)
	for bar := 0; bar < 50; bar++ {
		start := float64(bar * 4)
		e := s.NextBar(start)
		assert.GreaterOrEqual(t, e.HitBeat, start)
		assert.Less(t, e.HitBeat, start+4)
	}
}
