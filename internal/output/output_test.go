package output

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morse-beacon/internal/playback"
)

// TestRecorder_TracksLevelsAndHistory checks current levels, per-channel history and Reset.
func TestRecorder_TracksLevelsAndHistory(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Set(playback.Indicator, playback.LevelFull)
	r.Set(playback.Actuator, 90)
	r.Set(playback.Indicator, playback.LevelOff)

	require.Equal(t, playback.LevelOff, r.Level(playback.Indicator))
	require.Equal(t, uint8(90), r.Level(playback.Actuator))
	require.Equal(t, []uint8{255, 0}, r.WritesTo(playback.Indicator))
	require.Len(t, r.Writes(), 3)

	r.Reset()
	require.Empty(t, r.Writes())
	require.Equal(t, uint8(90), r.Level(playback.Actuator))

	require.Equal(t, playback.LevelOff, r.Level(playback.Channel(9)))
}

// TestMulti_FansOut ensures every wrapped driver sees every write, including through the logging wrapper.
func TestMulti_FansOut(t *testing.T) {
	t.Parallel()

	a, b := NewRecorder(), NewRecorder()
	d := WithLogging(context.Background(), Multi{a, b})

	d.Set(playback.Actuator, 10)

	require.Equal(t, []Write{{Channel: playback.Actuator, Level: 10}}, a.Writes())
	require.Equal(t, a.Writes(), b.Writes())
}
