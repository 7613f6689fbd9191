package device

import (
	"context"
	"time"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

// event is a unit of work applied by the loop goroutine.
type event interface {
	apply(ctx context.Context, s *Service, now time.Time)
}

type textResult struct {
	code string
	err  error
}

type textEvent struct {
	text  string
	actor *domain.Actor
	reply chan<- textResult
}

func (e textEvent) apply(ctx context.Context, s *Service, now time.Time) {
	code, err := s.controller.HandleText(ctx, now, e.text, e.actor)
	if e.reply != nil {
		e.reply <- textResult{code: code, err: err}
	}
}

type intensityEvent struct {
	payload []byte
	actor   *domain.Actor
	reply   chan<- uint8
}

func (e intensityEvent) apply(ctx context.Context, s *Service, now time.Time) {
	intensity, applied := s.controller.HandleIntensity(ctx, e.payload)
	if applied {
		s.persist(&domain.Settings{
			Intensity: intensity,
			UpdatedAt: now,
			UpdatedBy: e.actor.Clone(),
		})
	}

	if e.reply != nil {
		e.reply <- intensity
	}
}

type stopEvent struct {
	reply chan<- struct{}
}

func (e stopEvent) apply(ctx context.Context, s *Service, now time.Time) {
	s.controller.Stop(ctx, now)

	if e.reply != nil {
		e.reply <- struct{}{}
	}
}

type connectionEvent struct {
	connected bool
}

func (e connectionEvent) apply(ctx context.Context, s *Service, now time.Time) {
	if e.connected {
		s.controller.OnConnect(ctx, now)

		return
	}

	s.controller.OnDisconnect(ctx, now)
}

type snapshotEvent struct {
	reply chan<- *domain.Snapshot
}

func (e snapshotEvent) apply(_ context.Context, s *Service, _ time.Time) {
	e.reply <- s.controller.Snapshot()
}
