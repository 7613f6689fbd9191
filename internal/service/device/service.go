package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
	"github.com/oshokin/morse-beacon/internal/repository/settings"
)

const (
	// PollInterval is how often the loop advances playback.
	PollInterval = playback.Unit / 10

	// eventQueueSize bounds events waiting for the loop.
	eventQueueSize = 32
)

// Service owns a Controller on a single loop goroutine. Every exported
// method is safe for concurrent use.
type Service struct {
	// controller is touched only by the loop goroutine.
	controller *Controller
	// hub fans status out to watchers.
	hub *Hub
	// repo persists intensity changes; nil disables persistence.
	repo settings.Repository
	// selfTest plays the boot pattern when the loop starts.
	selfTest bool
	// now is the loop clock.
	now func() time.Time

	// events carries work into the loop.
	events chan event
	// saves carries the latest settings to the persister.
	saves chan *domain.Settings
	// done is closed when the loop exits.
	done chan struct{}
}

// ServiceOptions configure NewService.
type ServiceOptions struct {
	// Hub receives status for watchers. It should also be one of the
	// controller's publishers.
	Hub *Hub
	// Repository persists intensity changes.
	Repository settings.Repository
	// SelfTest plays SelfTestPattern at startup.
	SelfTest bool
}

// NewService wraps controller. Call Run to start the loop.
func NewService(controller *Controller, opts ServiceOptions) *Service {
	hub := opts.Hub
	if hub == nil {
		hub = NewHub()
	}

	// Watchers always start from a known state.
	hub.PublishStatus(context.Background(), controller.Snapshot())

	return &Service{
		controller: controller,
		hub:        hub,
		repo:       opts.Repository,
		selfTest:   opts.SelfTest,
		now:        time.Now,
		events:     make(chan event, eventQueueSize),
		saves:      make(chan *domain.Settings, 1),
		done:       make(chan struct{}),
	}
}

// Run processes events and polls the controller until ctx is canceled.
// Outputs are cleared before it returns.
func (s *Service) Run(ctx context.Context) error {
	defer close(s.done)

	persisterDone := make(chan struct{})

	go func() {
		defer close(persisterDone)
		s.runPersister(ctx)
	}()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	if s.selfTest {
		if err := s.controller.SelfTest(ctx, s.now()); err != nil {
			logger.Warnf(ctx, "Self test skipped: %v", err)
		}
	}

	logger.DebugKV(ctx, "Device loop started", "poll_interval", PollInterval)

	for {
		select {
		case <-ctx.Done():
			s.controller.Shutdown(ctx, s.now())
			<-persisterDone
			logger.Debug(ctx, "Device loop stopped")

			return nil
		case ev := <-s.events:
			ev.apply(ctx, s, s.now())
		case <-ticker.C:
			s.controller.Poll(ctx, s.now())
		}
	}
}

// SendText plays text and returns its rendering.
func (s *Service) SendText(ctx context.Context, text string, actor *domain.Actor) (string, error) {
	reply := make(chan textResult, 1)

	if err := s.submit(ctx, textEvent{text: text, actor: actor.Clone(), reply: reply}); err != nil {
		return "", err
	}

	result, err := await(ctx, s.done, reply)
	if err != nil {
		return "", err
	}

	return result.code, result.err
}

// SetIntensity applies and persists a new actuator level.
func (s *Service) SetIntensity(ctx context.Context, intensity uint8, actor *domain.Actor) error {
	reply := make(chan uint8, 1)

	ev := intensityEvent{
		payload: []byte{intensity},
		actor:   actor.Clone(),
		reply:   reply,
	}

	if err := s.submit(ctx, ev); err != nil {
		return err
	}

	_, err := await(ctx, s.done, reply)

	return err
}

// Stop aborts playback.
func (s *Service) Stop(ctx context.Context) error {
	reply := make(chan struct{}, 1)

	if err := s.submit(ctx, stopEvent{reply: reply}); err != nil {
		return err
	}

	_, err := await(ctx, s.done, reply)

	return err
}

// Snapshot returns the current externally visible state.
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	reply := make(chan *domain.Snapshot, 1)

	if err := s.submit(ctx, snapshotEvent{reply: reply}); err != nil {
		return nil, err
	}

	return await(ctx, s.done, reply)
}

// Watch subscribes to status transitions. See Hub.Subscribe.
func (s *Service) Watch() (<-chan *domain.Snapshot, func()) {
	return s.hub.Subscribe(DefaultWatchBuffer)
}

// PostText queues raw text from a transport callback without waiting.
func (s *Service) PostText(payload []byte) error {
	return s.post(textEvent{text: string(payload)})
}

// PostIntensity queues a raw intensity payload without waiting.
func (s *Service) PostIntensity(payload []byte) error {
	return s.post(intensityEvent{payload: append([]byte(nil), payload...)})
}

// PostConnection queues a connect or disconnect without waiting.
func (s *Service) PostConnection(connected bool) error {
	return s.post(connectionEvent{connected: connected})
}

func (s *Service) post(ev event) error {
	select {
	case <-s.done:
		return domain.ErrStopped
	default:
	}

	select {
	case s.events <- ev:
		return nil
	default:
		return domain.ErrBusy
	}
}

func (s *Service) submit(ctx context.Context, ev event) error {
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return domain.ErrStopped
	case <-ctx.Done():
		return fmt.Errorf("submit: %w", ctx.Err())
	}
}

func await[T any](ctx context.Context, done <-chan struct{}, reply <-chan T) (T, error) {
	var zero T

	select {
	case v := <-reply:
		return v, nil
	case <-done:
		// The loop may have answered just before exiting.
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, domain.ErrStopped
		}
	case <-ctx.Done():
		return zero, fmt.Errorf("await: %w", ctx.Err())
	}
}

// persist hands settings to the persister, replacing any unsaved value.
func (s *Service) persist(pending *domain.Settings) {
	if s.repo == nil {
		return
	}

	select {
	case <-s.saves:
	default:
	}

	s.saves <- pending
}

func (s *Service) runPersister(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Flush whatever is pending.
			select {
			case pending := <-s.saves:
				s.save(context.WithoutCancel(ctx), pending)
			default:
			}

			return
		case pending := <-s.saves:
			s.save(ctx, pending)
		}
	}
}

func (s *Service) save(ctx context.Context, pending *domain.Settings) {
	if err := s.repo.Save(ctx, pending); err != nil {
		logger.ErrorKV(ctx, "Failed to persist settings", "error", err)

		return
	}

	logger.DebugKV(ctx, "Settings persisted", "intensity", pending.Intensity)
}

// LoadIntensity returns the persisted actuator level, or fallback when
// nothing has been saved yet.
func LoadIntensity(ctx context.Context, repo settings.Repository, fallback uint8) (uint8, error) {
	if repo == nil {
		return fallback, nil
	}

	stored, err := repo.Load(ctx)

	switch {
	case err == nil:
		if stored == nil {
			return fallback, nil
		}

		return stored.Intensity, nil
	case errors.Is(err, settings.ErrNotFound):
		return fallback, nil
	default:
		return 0, fmt.Errorf("load settings: %w", err)
	}
}
