package sim

import (
	"sync/atomic"

	"github.com/oshokin/morse-beacon/internal/playback"
)

// Panel is a driver that keeps the last level of every channel for the
// renderer to sample.
type Panel struct {
	levels [len(playback.AllChannels)]atomic.Uint32
}

var _ playback.Driver = (*Panel)(nil)

// NewPanel returns a panel with every channel off.
func NewPanel() *Panel {
	return new(Panel)
}

// Set implements playback.Driver.
func (p *Panel) Set(ch playback.Channel, level uint8) {
	if int(ch) >= len(p.levels) {
		return
	}

	p.levels[ch].Store(uint32(level))
}

// Level returns the last level written to ch.
func (p *Panel) Level(ch playback.Channel) uint8 {
	if int(ch) >= len(p.levels) {
		return playback.LevelOff
	}

	return uint8(p.levels[ch].Load()) //nolint:gosec // Only uint8 values are stored.
}
