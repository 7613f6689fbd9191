package output

import (
	"context"

	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
)

// Multi forwards every write to each of its drivers in order.
type Multi []playback.Driver

// Set implements playback.Driver.
func (m Multi) Set(ch playback.Channel, level uint8) {
	for _, d := range m {
		d.Set(ch, level)
	}
}

// logging wraps a driver and logs every write at debug level.
type logging struct {
	ctx  context.Context //nolint:containedctx // Carries the scoped logger only.
	next playback.Driver
}

// WithLogging returns d wrapped so each write is logged with the logger in ctx.
func WithLogging(ctx context.Context, d playback.Driver) playback.Driver {
	return &logging{
		ctx:  logger.WithName(ctx, "output"),
		next: d,
	}
}

// Set implements playback.Driver.
func (l *logging) Set(ch playback.Channel, level uint8) {
	logger.DebugKV(l.ctx, "Output write", "channel", ch.String(), "level", level)
	l.next.Set(ch, level)
}
