package device

import (
	"context"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/logger"
)

// Publisher receives the controller's outbound notifications.
// Implementations must not block the caller.
type Publisher interface {
	// PublishMorse delivers the rendered sequence before playback starts.
	PublishMorse(ctx context.Context, code string) error
	// PublishStatus delivers the state after a status transition or a
	// connection or intensity change. The status may repeat.
	PublishStatus(ctx context.Context, snapshot *domain.Snapshot)
}

// Publishers fans notifications out to several publishers.
type Publishers []Publisher

// PublishMorse implements Publisher. Publishers are called in order and the
// first failure stops the fan-out, so later publishers only see renderings
// that are about to play.
func (p Publishers) PublishMorse(ctx context.Context, code string) error {
	for _, publisher := range p {
		if err := publisher.PublishMorse(ctx, code); err != nil {
			return err
		}
	}

	return nil
}

// PublishStatus implements Publisher.
func (p Publishers) PublishStatus(ctx context.Context, snapshot *domain.Snapshot) {
	for _, publisher := range p {
		publisher.PublishStatus(ctx, snapshot)
	}
}

// LogPublisher writes every notification to the context logger.
type LogPublisher struct{}

// PublishMorse implements Publisher.
func (LogPublisher) PublishMorse(ctx context.Context, code string) error {
	logger.InfoKV(ctx, "Morse rendered", "code", code)

	return nil
}

// PublishStatus implements Publisher.
func (LogPublisher) PublishStatus(ctx context.Context, snapshot *domain.Snapshot) {
	logger.InfoKV(ctx, "Status changed",
		"status", snapshot.Status.String(),
		"intensity", snapshot.Intensity,
		"connected", snapshot.Connected,
	)
}
