package morse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCode is returned by Decode for a dot/dash group outside the table.
var ErrUnknownCode = errors.New("unknown morse code")

// Decode turns a rendered sequence (see Sequence.String) back into
// upper-case text.
func Decode(code string) (string, error) {
	var (
		b      strings.Builder
		blanks int
	)

	for token := range strings.SplitSeq(code, " ") {
		if token == "" {
			blanks++
			continue
		}

		r, ok := reverse[token]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownCode, token)
		}

		if b.Len() > 0 {
			b.WriteString(strings.Repeat(" ", blanks/2))
		}

		b.WriteRune(r)

		blanks = 0
	}

	return b.String(), nil
}
