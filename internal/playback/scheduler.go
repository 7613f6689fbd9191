package playback

import (
	"errors"
	"slices"
	"time"

	"github.com/oshokin/morse-beacon/internal/domain/morse"
)

// Unit is the duration of a dot. Every other duration is a multiple of it.
const Unit = 100 * time.Millisecond

// Phase durations in units.
const (
	dotUnits       = 1
	dashUnits      = 3
	symbolGapUnits = 1
	letterGapUnits = 3
	wordGapUnits   = 7
)

var (
	// ErrAlreadyPlaying is returned by Start while a sequence is in flight.
	ErrAlreadyPlaying = errors.New("playback already in progress")
	// ErrEmptySequence is returned by Start for a sequence with no playable marks.
	ErrEmptySequence = errors.New("empty sequence")
)

// Phase is the scheduler's position within the current mark.
type Phase uint8

const (
	// Idle means no sequence is active.
	Idle Phase = iota
	// MarkOn holds a dot or dash with the outputs lit.
	MarkOn
	// InterSymbolGap is the dark unit that follows every pulse.
	InterSymbolGap
	// InterLetterGap is the pause for a LetterGap mark.
	InterLetterGap
	// InterWordGap is the pause for a WordGap mark.
	InterWordGap
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case MarkOn:
		return "mark-on"
	case InterSymbolGap:
		return "inter-symbol-gap"
	case InterLetterGap:
		return "inter-letter-gap"
	case InterWordGap:
		return "inter-word-gap"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot of the scheduler.
type State struct {
	Phase    Phase
	Position int
	Length   int
	Since    time.Time
	Hold     time.Duration
	Mark     morse.Mark
	Channels ChannelConfig
}

// Scheduler walks a sequence one phase at a time. It is not safe for
// concurrent use.
type Scheduler struct {
	driver   Driver
	channels ChannelConfig

	seq      morse.Sequence
	position int
	phase    Phase
	since    time.Time
	hold     time.Duration
}

// NewScheduler returns an idle scheduler that writes to driver.
func NewScheduler(driver Driver, channels ChannelConfig) *Scheduler {
	return &Scheduler{
		driver:   driver,
		channels: channels,
	}
}

// SetChannels replaces the channel configuration. It takes effect at the next
// phase transition.
func (s *Scheduler) SetChannels(cfg ChannelConfig) {
	s.channels = cfg
}

// Channels returns the current channel configuration.
func (s *Scheduler) Channels() ChannelConfig {
	return s.channels
}

// Start adopts seq and lights the outputs for its first mark.
// The scheduler keeps its own copy of seq.
func (s *Scheduler) Start(now time.Time, seq morse.Sequence) error {
	if s.phase != Idle {
		return ErrAlreadyPlaying
	}

	if len(seq) == 0 {
		return ErrEmptySequence
	}

	s.seq = slices.Clone(seq)
	s.position = 0

	if s.dispatch(now) {
		return ErrEmptySequence
	}

	return nil
}

// Tick advances at most one phase if the current one has run its course.
// It reports whether this call finished the sequence.
func (s *Scheduler) Tick(now time.Time) bool {
	if s.phase == Idle || now.Sub(s.since) < s.hold {
		return false
	}

	if s.phase == MarkOn {
		s.deactivate()
		s.enter(now, InterSymbolGap, symbolGapUnits)

		return false
	}

	s.position++

	return s.dispatch(now)
}

// Stop darkens the outputs and drops the active sequence. It does nothing
// when already idle.
func (s *Scheduler) Stop() {
	if s.phase == Idle {
		return
	}

	s.deactivate()
	s.reset()
}

// IsActive reports whether a sequence is playing.
func (s *Scheduler) IsActive() bool {
	return s.phase != Idle
}

// State returns a snapshot for status reporting.
func (s *Scheduler) State() State {
	st := State{
		Phase:    s.phase,
		Position: s.position,
		Length:   len(s.seq),
		Since:    s.since,
		Hold:     s.hold,
		Channels: s.channels,
	}

	if s.position < len(s.seq) {
		st.Mark = s.seq[s.position]
	}

	return st
}

// dispatch enters the phase for the mark at the current position, or goes
// idle past the end. It reports completion.
func (s *Scheduler) dispatch(now time.Time) bool {
	for ; s.position < len(s.seq); s.position++ {
		switch s.seq[s.position] {
		case morse.Dot:
			s.activate()
			s.enter(now, MarkOn, dotUnits)
		case morse.Dash:
			s.activate()
			s.enter(now, MarkOn, dashUnits)
		case morse.LetterGap:
			s.enter(now, InterLetterGap, letterGapUnits)
		case morse.WordGap:
			s.enter(now, InterWordGap, wordGapUnits)
		default:
			continue
		}

		return false
	}

	s.reset()

	return true
}

func (s *Scheduler) enter(now time.Time, phase Phase, units int) {
	s.phase = phase
	s.since = now
	s.hold = time.Duration(units) * Unit
}

func (s *Scheduler) reset() {
	s.seq = nil
	s.position = 0
	s.phase = Idle
	s.since = time.Time{}
	s.hold = 0
}

func (s *Scheduler) activate() {
	for _, ch := range AllChannels {
		if level, ok := s.channels.level(ch); ok {
			s.driver.Set(ch, level)
		}
	}
}

func (s *Scheduler) deactivate() {
	for _, ch := range AllChannels {
		s.driver.Set(ch, LevelOff)
	}
}

// Duration is how long seq takes to play from Start to completion.
func Duration(seq morse.Sequence) time.Duration {
	units := 0

	for _, m := range seq {
		switch m {
		case morse.Dot:
			units += dotUnits + symbolGapUnits
		case morse.Dash:
			units += dashUnits + symbolGapUnits
		case morse.LetterGap:
			units += letterGapUnits
		case morse.WordGap:
			units += wordGapUnits
		}
	}

	return time.Duration(units) * Unit
}
