package model

type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomePerfect
	OutcomeGood
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomePerfect:
		return "perfect"
	case OutcomeGood:
		return "good"
	case OutcomeMiss:
		return "miss"
	}
	return "none"
}

// ScheduledEntry is one chord waiting to be played in one lane. Once
// Judged flips true no field changes again.
type ScheduledEntry struct {
	ID    string    `json:"id"`
	Chord ChordSpec `json:"chord"`
	Lane  int       `json:"lane"`

	// ProgressionIndex is -1 in random mode.
	ProgressionIndex int `json:"progression_index"`

	// HitBeat is the absolute beat the entry is due on; HitTimeMs is
	// the same instant in elapsed-performance ms.
	HitBeat   float64 `json:"hit_beat"`
	HitTimeMs float64 `json:"hit_time_ms"`

	Judged  bool    `json:"judged"`
	Outcome Outcome `json:"outcome"`
}

type JudgmentResult struct {
	EntryID string    `json:"entry_id"`
	Chord   ChordSpec `json:"chord"`
	Lane    int       `json:"lane"`
	Outcome Outcome   `json:"outcome"`

	// TimingDeltaMs is input time minus due time; positive means late.
	TimingDeltaMs float64 `json:"timing_delta_ms"`

	// Combo and Score are the aggregate counters after this judgment.
	Combo int `json:"combo"`
	Score int `json:"score"`
}
