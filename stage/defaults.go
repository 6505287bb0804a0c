package stage

// Defaults ships a playable slice of the authored catalog so the CLI
// works without a stage dir or a stage table.
func Defaults() []Stage {
	return []Stage{
		{
			Number:        "1-1",
			Name:          "Plains of Beginning",
			Description:   "Major triads, white keys only",
			Mode:          "single",
			AllowedChords: []string{"C", "F", "G"},
			QuestionCount: 10,
			ShowGuide:     true,
		},
		{
			Number:        "2-3",
			Name:          "Moonlit Harbor",
			Description:   "Minor triads",
			Mode:          "single",
			AllowedChords: []string{"Am", "Dm", "Em", "Cm", "Fm", "Gm"},
			QuestionCount: 10,
		},
		{
			Number:        "3-6",
			Name:          "Clockwork Bridge",
			Description:   "Pop progression across the lanes",
			Mode:          "progression",
			Progression:   []string{"C", "G", "Am", "F", "Dm", "Em"},
			QuestionCount: 12,
		},
		{
			Number:        "6-5",
			Name:          "Aurora Observatory",
			Description:   "Diminished triads, every root",
			Mode:          "single",
			AllowedChords: []string{"Cdim", "Ddim", "Edim", "Fdim", "Gdim", "Adim", "Bdim", "C#dim", "D#dim", "F#dim", "G#dim", "A#dim"},
			QuestionCount: 10,
		},
		{
			Number:        "6-6",
			Name:          "Frosted Grove",
			Description:   "Augmented triads, every root",
			Mode:          "single",
			AllowedChords: []string{"Caug", "Daug", "Eaug", "Faug", "Gaug", "Aaug", "Baug", "C#aug", "D#aug", "F#aug", "G#aug", "A#aug"},
			QuestionCount: 10,
		},
		{
			Number:        "9-5",
			Name:          "Witch's Manor",
			Description:   "Major sevenths, loose timing",
			Mode:          "timing_random",
			AllowedChords: []string{"CM7", "DM7", "EM7", "FM7", "GM7", "AM7", "BM7", "C#M7", "D#M7", "F#M7", "G#M7", "A#M7"},
			QuestionCount: 10,
		},
		{
			Number:        "10-9",
			Name:          "Corridor of Shadows",
			Description:   "mM7, aug7, dim7 and 7sus4, loose timing",
			Mode:          "timing_random",
			AllowedChords: []string{"Cm/maj7", "Faug7", "Gdim7", "A7sus4", "Dm/maj7", "Eaug7", "Bdim7", "C#7sus4"},
			QuestionCount: 10,
		},
	}
}
