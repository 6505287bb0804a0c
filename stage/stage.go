// Package stage holds the authored stage catalog: which chords a
// stage asks for, in which mode, over which backing track.
package stage

import (
	"fmt"

	"github.com/jazzify/chordplay/constants"
	"github.com/jazzify/chordplay/model"
)

type Stage struct {
	Number      string `yaml:"number" json:"number"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Mode is "single", "timing_random" or "progression".
	Mode string `yaml:"mode" json:"mode"`

	AllowedChords []string `yaml:"allowed_chords,omitempty" json:"allowed_chords,omitempty"`
	Progression   []string `yaml:"progression,omitempty" json:"progression,omitempty"`

	BPM             float64 `yaml:"bpm,omitempty" json:"bpm,omitempty"`
	TimeSignature   int     `yaml:"time_signature,omitempty" json:"time_signature,omitempty"`
	MeasureCount    int     `yaml:"measure_count,omitempty" json:"measure_count,omitempty"`
	CountInMeasures int     `yaml:"count_in_measures,omitempty" json:"count_in_measures,omitempty"`
	LaneCount       int     `yaml:"lane_count,omitempty" json:"lane_count,omitempty"`

	BGMURL        string `yaml:"bgm_url,omitempty" json:"bgm_url,omitempty"`
	QuestionCount int    `yaml:"question_count,omitempty" json:"question_count,omitempty"`
	ShowGuide     bool   `yaml:"show_guide,omitempty" json:"show_guide,omitempty"`
}

// Config fixes the stage into an engine config, filling defaults for
// whatever the author left out.
func (s Stage) Config() (model.Config, error) {
	var mode model.Mode
	switch s.Mode {
	case "single", "random", "":
		mode = model.ModeRandom
	case "timing_random":
		mode = model.ModeTimingRandom
	case "progression":
		mode = model.ModeProgression
	default:
		return model.Config{}, fmt.Errorf("stage %v has unknown mode %q", s.Number, s.Mode)
	}

	cfg := model.Config{
		BPM:             s.BPM,
		TimeSignature:   s.TimeSignature,
		MeasureCount:    s.MeasureCount,
		CountInMeasures: s.CountInMeasures,
		Mode:            mode,
		AllowedChords:   s.AllowedChords,
		Progression:     s.Progression,
		LaneCount:       s.LaneCount,
	}
	if cfg.BPM == 0 {
		cfg.BPM = constants.DefaultBPM
	}
	if cfg.TimeSignature == 0 {
		cfg.TimeSignature = constants.DefaultTimeSignature
	}
	if cfg.MeasureCount == 0 {
		cfg.MeasureCount = constants.DefaultMeasureCount
	}
	if cfg.CountInMeasures == 0 {
		cfg.CountInMeasures = constants.DefaultCountInMeasures
	}
	return cfg, nil
}
