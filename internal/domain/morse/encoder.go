package morse

import "errors"

// ErrNoEncodableContent is returned when the input holds nothing to play.
var ErrNoEncodableContent = errors.New("no encodable content")

// Encode converts text into a mark stream.
//
// Each space becomes one WordGap, every other character expands to one mark
// per code symbol, and a single LetterGap joins neighbouring characters of a
// word. Characters without a code are skipped, as are spaces before the
// first and after the last encodable character.
func Encode(text string) (Sequence, error) {
	seq := make(Sequence, 0, len(text)*4)
	pendingWordGaps := 0

	for _, r := range text {
		code := Lookup(r)

		switch code {
		case "":
			continue
		case wordGapCode:
			if len(seq) > 0 {
				pendingWordGaps++
			}

			continue
		}

		if len(seq) > 0 {
			if pendingWordGaps == 0 {
				seq = append(seq, LetterGap)
			}

			for ; pendingWordGaps > 0; pendingWordGaps-- {
				seq = append(seq, WordGap)
			}
		}

		for i := range len(code) {
			if code[i] == '-' {
				seq = append(seq, Dash)
			} else {
				seq = append(seq, Dot)
			}
		}
	}

	if len(seq) == 0 {
		return nil, ErrNoEncodableContent
	}

	return seq, nil
}
