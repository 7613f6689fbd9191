package output

import (
	"sync"

	"github.com/oshokin/morse-beacon/internal/playback"
)

// Write is one recorded driver call.
type Write struct {
	Channel playback.Channel
	Level   uint8
}

// Recorder keeps the current level of every channel and the history of
// writes. It is safe to read from another goroutine while the scheduler
// writes.
type Recorder struct {
	mu     sync.RWMutex
	levels [len(playback.AllChannels)]uint8
	writes []Write
}

// NewRecorder returns an empty recorder with every channel off.
func NewRecorder() *Recorder {
	return new(Recorder)
}

// Set implements playback.Driver.
func (r *Recorder) Set(ch playback.Channel, level uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(ch) < len(r.levels) {
		r.levels[ch] = level
	}

	r.writes = append(r.writes, Write{Channel: ch, Level: level})
}

// Level returns the last level written to ch.
func (r *Recorder) Level(ch playback.Channel) uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(ch) >= len(r.levels) {
		return playback.LevelOff
	}

	return r.levels[ch]
}

// Writes returns a copy of the write history.
func (r *Recorder) Writes() []Write {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Write, len(r.writes))
	copy(out, r.writes)

	return out
}

// WritesTo returns the levels written to ch, in order.
func (r *Recorder) WritesTo(ch playback.Channel) []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []uint8

	for _, w := range r.writes {
		if w.Channel == ch {
			out = append(out, w.Level)
		}
	}

	return out
}

// Reset forgets the write history but keeps the current levels.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes = nil
}
