package model

type Notes = []uint8

// ChordSpec is derived once from a chord name and never mutated.
type ChordSpec struct {
	ID        string  `json:"id"`
	Root      uint8   `json:"root"` // pitch class, 0=C .. 11=B
	Intervals []uint8 `json:"intervals"`
	Name      string  `json:"name"`

	// Quality is display-only, e.g. "m7b5". Matching goes through
	// pitch-class keys, never through this field.
	Quality string `json:"quality"`
}
