package serial

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
)

// Driver writes channel levels as frames to a serial port.
type Driver struct {
	// ctx carries the scoped logger.
	ctx context.Context //nolint:containedctx // Drivers have no per-call context.
	// port receives the frames.
	port io.WriteCloser
	// name is the device path, for logs.
	name string
}

// Open opens the named serial device at the given baud rate.
func Open(ctx context.Context, name string, baud int) (*Driver, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	logger.InfoKV(ctx, "Serial port opened", "device", name, "baud", baud)

	return New(ctx, name, port), nil
}

// New wraps an already open port.
func New(ctx context.Context, name string, port io.WriteCloser) *Driver {
	return &Driver{
		ctx:  logger.WithName(ctx, "serial"),
		port: port,
		name: name,
	}
}

// Set implements playback.Driver. Write failures are logged and dropped.
func (d *Driver) Set(ch playback.Channel, level uint8) {
	frame := EncodeSetChannel(byte(ch), level)

	if _, err := d.port.Write(frame); err != nil {
		logger.ErrorKV(d.ctx, "Serial write failed", "device", d.name, "channel", ch.String(), "error", err)
	}
}

// Close closes the port.
func (d *Driver) Close() error {
	logger.DebugKV(d.ctx, "Closing serial port", "device", d.name)

	if err := d.port.Close(); err != nil {
		return fmt.Errorf("close serial port %s: %w", d.name, err)
	}

	return nil
}
