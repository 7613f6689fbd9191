package serial

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morse-beacon/internal/playback"
)

var errTestUnplugged = errors.New("device unplugged")

// bufferPort is an in-memory serial port.
type bufferPort struct {
	bytes.Buffer

	// writeErr is returned from Write when set.
	writeErr error
	// closed records Close calls.
	closed bool
}

func (b *bufferPort) Write(p []byte) (int, error) {
	if b.writeErr != nil {
		return 0, b.writeErr
	}

	return b.Buffer.Write(p)
}

func (b *bufferPort) Close() error {
	b.closed = true

	return nil
}

// TestFrame_Roundtrip verifies encoding, checksum and rejection of damaged frames.
func TestFrame_Roundtrip(t *testing.T) {
	t.Parallel()

	frame := EncodeSetChannel(1, 200)
	require.Len(t, frame, frameSize)

	ch, level, ok := DecodeSetChannel(frame)
	require.True(t, ok)
	require.Equal(t, byte(1), ch)
	require.Equal(t, byte(200), level)

	damaged := append([]byte(nil), frame...)
	damaged[5] ^= 0x01

	_, _, ok = DecodeSetChannel(damaged)
	require.False(t, ok)

	_, _, ok = DecodeSetChannel(frame[:4])
	require.False(t, ok)
}

// TestDriver_Set verifies one frame is written per channel write.
func TestDriver_Set(t *testing.T) {
	t.Parallel()

	port := new(bufferPort)
	d := New(context.Background(), "/dev/null", port)

	d.Set(playback.Indicator, playback.LevelFull)
	d.Set(playback.Actuator, 128)

	written := port.Bytes()
	require.Len(t, written, 2*frameSize)

	ch, level, ok := DecodeSetChannel(written[frameSize:])
	require.True(t, ok)
	require.Equal(t, byte(playback.Actuator), ch)
	require.Equal(t, byte(128), level)

	// Failures are swallowed.
	port.writeErr = errTestUnplugged
	d.Set(playback.Indicator, playback.LevelOff)

	require.NoError(t, d.Close())
	require.True(t, port.closed)
}
