package model

// BeatPosition locates the performance within the looping backing
// track. It is always recomputed from elapsed time, never mutated.
type BeatPosition struct {
	// AbsoluteBeat counts beats since gameplay start (count-in
	// excluded) and keeps growing across loops.
	AbsoluteBeat float64 `json:"absolute_beat"`

	// Measure is 1-based within the loop, negative during count-in.
	Measure int `json:"measure"`

	// BeatInMeasure is 1-based fractional, [1, timeSignature+1).
	BeatInMeasure float64 `json:"beat_in_measure"`

	IsCountIn bool `json:"is_count_in"`
}
