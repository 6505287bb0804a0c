package timing

import "time"

// AudioTransport is the external playback boundary. The engine only
// reads position; it never controls looping itself.
type AudioTransport interface {
	CurrentTimeMs() float64
	IsPlaying() bool
}

// Source normalizes some clock into monotonic elapsed-performance ms.
// The two backends (free-running clock vs. audio-position polling)
// are interchangeable; pick one per session, never both.
type Source interface {
	Begin(now time.Time)
	ElapsedMs(now time.Time) float64
}

// ClockSource free-runs off the wall clock from Begin.
type ClockSource struct {
	start time.Time
}

func NewClockSource() *ClockSource {
	return &ClockSource{}
}

func (s *ClockSource) Begin(now time.Time) {
	s.start = now
}

func (s *ClockSource) ElapsedMs(now time.Time) float64 {
	return float64(now.Sub(s.start)) / float64(time.Millisecond)
}

// PollSource reads a looping audio position and unwraps it into a
// monotonic elapsed time by counting wraparounds.
type PollSource struct {
	transport AudioTransport
	loopLenMs float64
	lastMs    float64
	loops     int
}

func NewPollSource(transport AudioTransport, loopLenMs float64) *PollSource {
	return &PollSource{transport: transport, loopLenMs: loopLenMs}
}

func (s *PollSource) Begin(now time.Time) {
	s.lastMs = 0
	s.loops = 0
}

func (s *PollSource) ElapsedMs(now time.Time) float64 {
	if !s.transport.IsPlaying() {
		return float64(s.loops)*s.loopLenMs + s.lastMs
	}
	pos := s.transport.CurrentTimeMs()
	// A regression of more than half the loop is a wrap, not jitter.
	if pos < s.lastMs && s.lastMs-pos > s.loopLenMs/2 {
		s.loops++
	}
	s.lastMs = pos
	return float64(s.loops)*s.loopLenMs + pos
}
