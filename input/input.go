// Package input turns raw note on/off events into single coalesced
// chord submissions.
package input

import (
	"sort"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jazzify/chordplay/model"
)

// Collector tracks held notes and, once the strum settles, submits
// them as one chord stamped with the time of the first note.
type Collector struct {
	mu       sync.Mutex
	held     map[uint8]bool
	strum    []uint8
	strumAt  float64
	debounce func(func())
	submit   func(notes model.Notes, atMs float64)
	nowMs    func() float64
}

func NewCollector(submit func(model.Notes, float64), window time.Duration, nowMs func() float64) *Collector {
	return &Collector{
		held:     make(map[uint8]bool),
		debounce: debounce.New(window),
		submit:   submit,
		nowMs:    nowMs,
	}
}

func (c *Collector) NoteOn(key uint8) {
	c.mu.Lock()
	c.held[key] = true
	if len(c.strum) == 0 {
		c.strumAt = c.nowMs()
	}
	c.strum = append(c.strum, key)
	c.mu.Unlock()
	c.debounce(c.flush)
}

func (c *Collector) NoteOff(key uint8) {
	c.mu.Lock()
	delete(c.held, key)
	c.mu.Unlock()
}

func (c *Collector) flush() {
	c.mu.Lock()
	notes := c.strum
	at := c.strumAt
	c.strum = nil
	c.mu.Unlock()
	if len(notes) == 0 {
		return
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i] < notes[j]
	})
	c.submit(notes, at)
}

// Held reports the notes currently down, sorted.
func (c *Collector) Held() model.Notes {
	c.mu.Lock()
	defer c.mu.Unlock()
	notes := make(model.Notes, 0, len(c.held))
	for n := range c.held {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i] < notes[j]
	})
	return notes
}
