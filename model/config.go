package model

type Mode string

const (
	// ModeRandom asks one uniformly drawn chord per bar, lane 0.
	ModeRandom Mode = "random"

	// ModeTimingRandom is ModeRandom with the due beat drawn from
	// anywhere in the bar instead of the downbeat.
	ModeTimingRandom Mode = "timing_random"

	// ModeProgression cycles an authored chord sequence across lanes.
	ModeProgression Mode = "progression"
)

// JudgmentWindow is the pair of tolerances applied to the distance
// between an input and an entry's due time. Good contains Perfect.
type JudgmentWindow struct {
	PerfectMs float64 `json:"perfect_ms"`
	GoodMs    float64 `json:"good_ms"`
}

// Config fixes one play session at construction time.
type Config struct {
	BPM             float64 `json:"bpm"`
	TimeSignature   int     `json:"time_signature"`
	MeasureCount    int     `json:"measure_count"` // loop length, count-in excluded
	CountInMeasures int     `json:"count_in_measures"`

	Mode          Mode     `json:"mode"`
	AllowedChords []string `json:"allowed_chords,omitempty"`
	Progression   []string `json:"progression,omitempty"`
	LaneCount     int      `json:"lane_count,omitempty"` // defaults to TimeSignature

	Window JudgmentWindow `json:"window"`

	// PollTransport selects the audio-position-polling timing source
	// instead of the free-running clock.
	PollTransport bool `json:"poll_transport,omitempty"`
}

// State is an immutable snapshot handed to observers.
type State struct {
	Running  bool             `json:"running"`
	Position BeatPosition     `json:"position"`
	Entries  []ScheduledEntry `json:"entries"`
	Combo    int              `json:"combo"`
	Score    int              `json:"score"`
}
