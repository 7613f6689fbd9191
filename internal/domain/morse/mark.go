package morse

import "strings"

// Mark is one discrete playback unit.
type Mark uint8

const (
	// Dot is a short pulse.
	Dot Mark = iota
	// Dash is a long pulse.
	Dash
	// LetterGap separates two characters of the same word.
	LetterGap
	// WordGap stands for one space character of the input.
	WordGap
)

// String implements fmt.Stringer.
func (m Mark) String() string {
	switch m {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	case LetterGap:
		return "letter-gap"
	case WordGap:
		return "word-gap"
	default:
		return "unknown"
	}
}

// IsPulse reports whether the mark drives the outputs.
func (m Mark) IsPulse() bool {
	return m == Dot || m == Dash
}

// Sequence is the linear mark stream produced by Encode.
type Sequence []Mark

// String renders the sequence the way it is published to the sender:
// characters separated by one space and every word gap shown as the space
// character's own code between two separators.
func (s Sequence) String() string {
	var b strings.Builder

	b.Grow(len(s) * 2)

	for i, m := range s {
		switch m {
		case Dot:
			b.WriteByte('.')
		case Dash:
			b.WriteByte('-')
		case LetterGap:
			b.WriteByte(' ')
		case WordGap:
			if i > 0 && s[i-1] == WordGap {
				b.WriteString("  ")
			} else {
				b.WriteString("   ")
			}
		}
	}

	return b.String()
}

// Pulses counts the dots and dashes of the sequence.
func (s Sequence) Pulses() int {
	n := 0

	for _, m := range s {
		if m.IsPulse() {
			n++
		}
	}

	return n
}
