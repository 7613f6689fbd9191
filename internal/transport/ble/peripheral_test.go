package ble

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

var errTestNotify = errors.New("notify failed")

// memoryCharacteristic records the last value written.
type memoryCharacteristic struct {
	// value is the last written payload.
	value []byte
	// err is returned from Write when set.
	err error
}

func (m *memoryCharacteristic) Write(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	m.value = append([]byte(nil), p...)

	return len(p), nil
}

// recordingHandler records posted events.
type recordingHandler struct {
	texts       [][]byte
	intensities [][]byte
	connections []bool
	err         error
}

func (r *recordingHandler) PostText(payload []byte) error {
	r.texts = append(r.texts, payload)

	return r.err
}

func (r *recordingHandler) PostIntensity(payload []byte) error {
	r.intensities = append(r.intensities, payload)

	return r.err
}

func (r *recordingHandler) PostConnection(connected bool) error {
	r.connections = append(r.connections, connected)

	return r.err
}

// TestPeripheral_Publish verifies the morse and status characteristics are updated.
func TestPeripheral_Publish(t *testing.T) {
	t.Parallel()

	var (
		p      = NewPeripheral(context.Background())
		morse  = new(memoryCharacteristic)
		status = new(memoryCharacteristic)
	)

	// Nothing attached yet.
	require.NoError(t, p.PublishMorse(context.Background(), "."))
	p.PublishStatus(context.Background(), &domain.Snapshot{Status: domain.StatusIdle})

	p.Attach(new(recordingHandler), morse, status)

	require.NoError(t, p.PublishMorse(context.Background(), "... --- ..."))
	require.Equal(t, []byte("... --- ..."), morse.value)

	p.PublishStatus(context.Background(), &domain.Snapshot{Status: domain.StatusPlaying})
	require.Equal(t, []byte{2, 0, 0, 0}, status.value)

	err := p.PublishMorse(context.Background(), strings.Repeat("-", MorseCapacity+1))
	require.ErrorIs(t, err, ErrMorseTooLong)

	morse.err = errTestNotify
	require.ErrorIs(t, p.PublishMorse(context.Background(), "."), errTestNotify)

	// Status failures are only logged.
	status.err = errTestNotify
	p.PublishStatus(context.Background(), &domain.Snapshot{Status: domain.StatusError})
}

// TestPeripheral_CentralWrites verifies writes are copied and forwarded to the handler.
func TestPeripheral_CentralWrites(t *testing.T) {
	t.Parallel()

	var (
		p       = NewPeripheral(context.Background())
		handler = new(recordingHandler)
	)

	p.Attach(handler, nil, nil)

	buf := []byte("SOS")
	p.onText(buf)
	buf[0] = 'X'

	p.onText([]byte(strings.Repeat("E", TextCapacity+20)))
	p.onIntensity([]byte{0})
	p.onConnection(true)
	p.onConnection(false)

	require.Len(t, handler.texts, 2)
	require.Equal(t, []byte("SOS"), handler.texts[0])
	require.Len(t, handler.texts[1], TextCapacity)
	require.Equal(t, [][]byte{{0}}, handler.intensities)
	require.Equal(t, []bool{true, false}, handler.connections)

	// A full queue is logged, not fatal.
	handler.err = domain.ErrBusy
	p.onText([]byte("E"))
	require.Len(t, handler.texts, 3)
}
