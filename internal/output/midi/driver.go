package midi

import (
	"context"
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
)

const (
	// channel is the MIDI channel used for every message.
	channel = 0
	// velocity is the note-on velocity.
	velocity = 100
	// modulationController is CC1, the modulation wheel.
	modulationController = 1
)

// Sender delivers one MIDI message.
type Sender func(msg midi.Message) error

// Driver turns channel writes into MIDI messages.
type Driver struct {
	// ctx carries the scoped logger.
	ctx context.Context //nolint:containedctx // Drivers have no per-call context.
	// send delivers messages to the port.
	send Sender
	// note is the key played while the indicator is lit.
	note uint8
	// sounding reports whether note is currently on.
	sounding bool
}

// New builds a driver on top of send.
func New(ctx context.Context, send Sender, note uint8) *Driver {
	return &Driver{
		ctx:  logger.WithName(ctx, "midi"),
		send: send,
		note: note,
	}
}

// Open finds an output port whose name contains portName. A MIDI driver
// such as rtmididrv must be registered by the caller. The returned func
// silences the note and closes the port.
func Open(ctx context.Context, portName string, note uint8) (*Driver, func() error, error) {
	out, err := midi.FindOutPort(portName)
	if err != nil {
		return nil, nil, fmt.Errorf("find MIDI port %q: %w", portName, err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, nil, fmt.Errorf("open MIDI port %q: %w", out.String(), err)
	}

	logger.InfoKV(ctx, "MIDI port opened", "port", out.String(), "note", note)

	d := New(ctx, send, note)

	closer := func() error {
		d.Set(playback.Indicator, playback.LevelOff)

		if err := out.Close(); err != nil {
			return fmt.Errorf("close MIDI port: %w", err)
		}

		return nil
	}

	return d, closer, nil
}

// Set implements playback.Driver. Send failures are logged and dropped.
func (d *Driver) Set(ch playback.Channel, level uint8) {
	var msg midi.Message

	switch ch {
	case playback.Indicator:
		on := level > playback.LevelOff
		if on == d.sounding {
			return
		}

		d.sounding = on

		if on {
			msg = midi.NoteOn(channel, d.note, velocity)
		} else {
			msg = midi.NoteOff(channel, d.note)
		}
	case playback.Actuator:
		msg = midi.ControlChange(channel, modulationController, level>>1)
	default:
		return
	}

	if err := d.send(msg); err != nil {
		logger.ErrorKV(d.ctx, "MIDI send failed", "message", msg.String(), "error", err)
	}
}
