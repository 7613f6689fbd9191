package morse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecode_ReversesRendering checks that decoding a rendered sequence restores the upper-cased text.
func TestDecode_ReversesRendering(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"sos":             "SOS",
		"Hello, World!":   "HELLO, WORLD!",
		"a  b":            "A  B",
		" trim me ":       "TRIM ME",
		"user@host/path?": "USER@HOST/PATH?",
	}

	for text, want := range cases {
		seq, err := Encode(text)
		require.NoError(t, err, text)

		got, err := Decode(seq.String())
		require.NoError(t, err, text)
		require.Equal(t, want, got, text)
	}
}

// TestDecode_UnknownCode reports groups that are not in the table.
func TestDecode_UnknownCode(t *testing.T) {
	t.Parallel()

	_, err := Decode("... ........ ...")
	require.ErrorIs(t, err, ErrUnknownCode)

	got, err := Decode("")
	require.NoError(t, err)
	require.Empty(t, got)
}
