package ble

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/logger"
)

// Service and characteristic UUIDs.
const (
	ServiceUUID   = "19b10000-e8f2-537e-4f6c-d104768a1214"
	TextUUID      = "19b10001-e8f2-537e-4f6c-d104768a1214"
	MorseUUID     = "19b10002-e8f2-537e-4f6c-d104768a1214"
	IntensityUUID = "19b10003-e8f2-537e-4f6c-d104768a1214"
	StatusUUID    = "19b10004-e8f2-537e-4f6c-d104768a1214"
)

// Characteristic capacities in bytes.
const (
	TextCapacity  = 100
	MorseCapacity = 400
)

// ErrMorseTooLong is returned when a rendering does not fit the output characteristic.
var ErrMorseTooLong = errors.New("rendering exceeds morse characteristic")

// Handler receives central writes. Calls must not block.
type Handler interface {
	PostText(payload []byte) error
	PostIntensity(payload []byte) error
	PostConnection(connected bool) error
}

// Characteristic is a notifying value the peripheral updates.
type Characteristic interface {
	Write(p []byte) (int, error)
}

// Peripheral bridges GATT traffic and the device loop. Attach must run
// before the loop starts publishing.
type Peripheral struct {
	// ctx carries the scoped logger.
	ctx context.Context //nolint:containedctx // Stack callbacks have no context.
	// handler receives central writes.
	handler Handler
	// morse is the morse output characteristic.
	morse Characteristic
	// status is the status characteristic.
	status Characteristic
}

// NewPeripheral returns a peripheral with nothing attached. Publishing
// before Attach is a no-op.
func NewPeripheral(ctx context.Context) *Peripheral {
	return &Peripheral{
		ctx: logger.WithName(ctx, "ble"),
	}
}

// Attach binds the handler and the outbound characteristics.
func (p *Peripheral) Attach(handler Handler, morse, status Characteristic) {
	p.handler = handler
	p.morse = morse
	p.status = status
}

// PublishMorse writes the rendering to the morse output characteristic.
func (p *Peripheral) PublishMorse(_ context.Context, code string) error {
	if p.morse == nil {
		return nil
	}

	if len(code) > MorseCapacity {
		return fmt.Errorf("%w: %d bytes", ErrMorseTooLong, len(code))
	}

	if _, err := p.morse.Write([]byte(code)); err != nil {
		return fmt.Errorf("notify morse: %w", err)
	}

	return nil
}

// PublishStatus writes the status code to the status characteristic.
func (p *Peripheral) PublishStatus(_ context.Context, snapshot *domain.Snapshot) {
	if p.status == nil {
		return
	}

	if _, err := p.status.Write(snapshot.Status.Bytes()); err != nil {
		logger.WarnKV(p.ctx, "Status notify failed", "status", snapshot.Status.String(), "error", err)
	}
}

func (p *Peripheral) onText(value []byte) {
	if len(value) > TextCapacity {
		logger.WarnKV(p.ctx, "Text write truncated", "bytes", len(value))
		value = value[:TextCapacity]
	}

	logger.DebugKV(p.ctx, "Text received", "bytes", len(value))

	p.post("text", p.handler.PostText(append([]byte(nil), value...)))
}

func (p *Peripheral) onIntensity(value []byte) {
	p.post("intensity", p.handler.PostIntensity(append([]byte(nil), value...)))
}

func (p *Peripheral) onConnection(connected bool) {
	p.post("connection", p.handler.PostConnection(connected))
}

func (p *Peripheral) post(kind string, err error) {
	if err != nil {
		logger.WarnKV(p.ctx, "Central write dropped", "kind", kind, "error", err)
	}
}
