package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jazzify/chordplay/model"
	"github.com/sirupsen/logrus"
)

var rootClasses = map[string]uint8{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Interval sets for every quality the authored stages use. The whole
// remainder after root and accidental is the quality suffix.
var qualityIntervals = map[string][]uint8{
	"":       {0, 4, 7},
	"m":      {0, 3, 7},
	"dim":    {0, 3, 6},
	"aug":    {0, 4, 8},
	"sus4":   {0, 5, 7},
	"sus2":   {0, 2, 7},
	"6":      {0, 4, 7, 9},
	"m6":     {0, 3, 7, 9},
	"M7":     {0, 4, 7, 11},
	"maj7":   {0, 4, 7, 11},
	"m7":     {0, 3, 7, 10},
	"7":      {0, 4, 7, 10},
	"m7b5":   {0, 3, 6, 10},
	"m/maj7": {0, 3, 7, 11},
	"mM7":    {0, 3, 7, 11},
	"aug7":   {0, 4, 8, 10},
	"dim7":   {0, 3, 6, 9},
	"7sus4":  {0, 5, 7, 10},
	"add9":   {0, 2, 4, 7},
}

// Parse derives a ChordSpec from a name like "F#m7b5" or "Bbsus4".
// An unrecognized quality suffix falls back to a major triad.
func Parse(name string) model.ChordSpec {
	var spec model.ChordSpec
	spec.ID = name
	spec.Name = name

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		logrus.Warnf("empty chord name, falling back to C major")
		spec.Intervals = qualityIntervals[""]
		return spec
	}

	root, ok := rootClasses[strings.ToUpper(trimmed[:1])]
	if !ok {
		logrus.Warnf("chord %q has no valid root, falling back to C major", name)
		spec.Intervals = qualityIntervals[""]
		return spec
	}
	rest := trimmed[1:]
	if strings.HasPrefix(rest, "#") {
		root = (root + 1) % 12
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "b") {
		root = (root + 11) % 12
		rest = rest[1:]
	}

	intervals, ok := qualityIntervals[rest]
	if !ok {
		logrus.Warnf("chord %q has unknown quality %q, falling back to major triad", name, rest)
		intervals = qualityIntervals[""]
		rest = ""
	}

	spec.Root = root
	spec.Intervals = intervals
	spec.Quality = rest
	return spec
}

func ParseAll(names []string) []model.ChordSpec {
	specs := make([]model.ChordSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, Parse(name))
	}
	return specs
}

// Key reduces a spec to its sorted pitch-class set, so C major in any
// octave or inversion compares equal to any other spelling of it.
func Key(spec model.ChordSpec) string {
	classes := make([]uint8, 0, len(spec.Intervals))
	for _, iv := range spec.Intervals {
		classes = append(classes, (spec.Root+iv)%12)
	}
	return classKey(classes)
}

// KeyFromNotes reduces raw MIDI note numbers the same way.
func KeyFromNotes(notes model.Notes) string {
	classes := make([]uint8, 0, len(notes))
	for _, n := range notes {
		classes = append(classes, n%12)
	}
	return classKey(classes)
}

func classKey(classes []uint8) string {
	seen := make(map[uint8]bool)
	var uniq []uint8
	for _, c := range classes {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	sort.Slice(uniq, func(i, j int) bool {
		return uniq[i] < uniq[j]
	})
	var res string
	for i, c := range uniq {
		res += fmt.Sprintf("%v", c)
		if i < len(uniq)-1 {
			res += "-"
		}
	}
	return res
}
