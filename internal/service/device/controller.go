package device

import (
	"context"
	"fmt"
	"time"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/domain/morse"
	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
)

// BlinkInterval is the indicator toggle period while waiting for a central.
const BlinkInterval = 500 * time.Millisecond

// SelfTestPattern is played once at boot to prove both outputs work.
//
//nolint:gochecknoglobals // Fixed pattern.
var SelfTestPattern = morse.Sequence{morse.Dash, morse.Dash, morse.Dash}

// ControllerOptions tune a Controller.
type ControllerOptions struct {
	// Intensity is the initial actuator level.
	Intensity uint8
	// Preempt lets a new text replace the one being played instead of
	// being rejected.
	Preempt bool
	// Blink toggles the indicator while no central is connected.
	Blink bool
}

// Controller owns the scheduler and the externally visible status.
// It is not safe for concurrent use; Service serializes every call.
type Controller struct {
	// scheduler renders the active sequence.
	scheduler *playback.Scheduler
	// driver is written directly only for the advertising blink.
	driver playback.Driver
	// publisher receives encoded results and status transitions.
	publisher Publisher
	// preempt mirrors ControllerOptions.Preempt.
	preempt bool
	// blink mirrors ControllerOptions.Blink.
	blink bool

	// snapshot is the last published status and its context.
	snapshot domain.Snapshot
	// lastBlink is when the indicator was last toggled.
	lastBlink time.Time
	// blinkOn is the indicator level the blink last wrote.
	blinkOn bool
}

// NewController builds an idle, disconnected controller.
func NewController(driver playback.Driver, publisher Publisher, opts ControllerOptions) *Controller {
	if publisher == nil {
		publisher = Publishers(nil)
	}

	return &Controller{
		scheduler: playback.NewScheduler(driver, playback.ChannelsForIntensity(opts.Intensity)),
		driver:    driver,
		publisher: publisher,
		preempt:   opts.Preempt,
		blink:     opts.Blink,
		snapshot: domain.Snapshot{
			Status:    domain.StatusIdle,
			Intensity: opts.Intensity,
		},
	}
}

// HandleText encodes text, publishes the rendering and starts playback.
// It returns the rendering on success.
func (c *Controller) HandleText(
	ctx context.Context,
	now time.Time,
	text string,
	actor *domain.Actor,
) (string, error) {
	c.setStatus(ctx, now, domain.StatusProcessing)

	seq, err := morse.Encode(text)
	if err != nil {
		return "", c.fail(ctx, now, err)
	}

	if c.scheduler.IsActive() {
		if !c.preempt {
			return "", c.fail(ctx, now, playback.ErrAlreadyPlaying)
		}

		logger.DebugKV(ctx, "Preempting active playback", "position", c.scheduler.State().Position)
		c.scheduler.Stop()
	}

	code := seq.String()

	if err = c.publisher.PublishMorse(ctx, code); err != nil {
		return "", c.fail(ctx, now, fmt.Errorf("%w: %w", domain.ErrPublish, err))
	}

	c.stopBlink()

	if err = c.scheduler.Start(now, seq); err != nil {
		return "", c.fail(ctx, now, err)
	}

	c.snapshot.Morse = code
	c.snapshot.LastActor = actor.Clone()

	logger.InfoKV(ctx, "Playback started",
		"code", code,
		"marks", len(seq),
		"duration", playback.Duration(seq),
		"actor", actor.String(),
	)

	c.setStatus(ctx, now, domain.StatusPlaying)

	return code, nil
}

// HandleIntensity applies the one-byte intensity command. An empty payload
// is ignored and reported as not applied. The new level reaches the outputs
// at the next phase transition; subscribers see it at once.
func (c *Controller) HandleIntensity(ctx context.Context, payload []byte) (uint8, bool) {
	if len(payload) == 0 {
		logger.Debug(ctx, "Empty intensity payload ignored")

		return c.snapshot.Intensity, false
	}

	intensity := payload[0]

	c.scheduler.SetChannels(playback.ChannelsForIntensity(intensity))
	c.snapshot.Intensity = intensity

	logger.InfoKV(ctx, "Intensity set", "intensity", intensity, "actuator", intensity > 0)

	c.publishSnapshot(ctx)

	return intensity, true
}

// OnConnect drops any stale playback and reports Idle to the new central.
func (c *Controller) OnConnect(ctx context.Context, now time.Time) {
	c.scheduler.Stop()
	c.stopBlink()
	c.snapshot.Connected = true

	logger.Info(ctx, "Central connected")

	c.setStatus(ctx, now, domain.StatusIdle)
}

// OnDisconnect stops playback, clears the outputs and resumes advertising.
func (c *Controller) OnDisconnect(ctx context.Context, now time.Time) {
	c.scheduler.Stop()
	c.clearOutputs()
	c.snapshot.Connected = false
	c.lastBlink = now

	logger.Info(ctx, "Central disconnected")

	if c.snapshot.Status != domain.StatusIdle {
		c.setStatus(ctx, now, domain.StatusIdle)

		return
	}

	c.publishSnapshot(ctx)
}

// Stop aborts playback. It is a no-op when nothing is playing.
func (c *Controller) Stop(ctx context.Context, now time.Time) {
	if !c.scheduler.IsActive() {
		return
	}

	c.scheduler.Stop()

	logger.Info(ctx, "Playback stopped")

	c.setStatus(ctx, now, domain.StatusIdle)
}

// SelfTest plays SelfTestPattern without publishing a rendering.
func (c *Controller) SelfTest(ctx context.Context, now time.Time) error {
	c.stopBlink()

	if err := c.scheduler.Start(now, SelfTestPattern); err != nil {
		return fmt.Errorf("self test: %w", err)
	}

	logger.Debug(ctx, "Self test started")

	c.setStatus(ctx, now, domain.StatusPlaying)

	return nil
}

// Poll advances playback and the advertising blink. It must be called
// frequently, well under one Unit apart.
func (c *Controller) Poll(ctx context.Context, now time.Time) {
	if c.scheduler.Tick(now) {
		logger.Debug(ctx, "Playback complete")
		c.setStatus(ctx, now, domain.StatusIdle)
	}

	if !c.blink || c.snapshot.Connected || c.scheduler.IsActive() {
		return
	}

	if now.Sub(c.lastBlink) < BlinkInterval {
		return
	}

	c.lastBlink = now
	c.blinkOn = !c.blinkOn

	level := playback.LevelOff
	if c.blinkOn {
		level = playback.LevelFull
	}

	c.driver.Set(playback.Indicator, level)
}

// Shutdown stops playback and leaves every output off.
func (c *Controller) Shutdown(ctx context.Context, now time.Time) {
	c.Stop(ctx, now)
	c.clearOutputs()
	c.blinkOn = false
}

// Status returns the last published status.
func (c *Controller) Status() domain.Status {
	return c.snapshot.Status
}

// Snapshot returns a copy of the externally visible state.
func (c *Controller) Snapshot() *domain.Snapshot {
	return c.snapshot.Clone()
}

// Playback exposes the scheduler state for diagnostics.
func (c *Controller) Playback() playback.State {
	return c.scheduler.State()
}

func (c *Controller) fail(ctx context.Context, now time.Time, err error) error {
	logger.WarnKV(ctx, "Text command rejected", "error", err)
	c.setStatus(ctx, now, domain.StatusError)

	return err
}

func (c *Controller) setStatus(ctx context.Context, now time.Time, status domain.Status) {
	c.snapshot.Status = status
	c.snapshot.Timestamp = now
	c.publishSnapshot(ctx)
}

// publishSnapshot announces the current state without touching the status
// or its timestamp.
func (c *Controller) publishSnapshot(ctx context.Context) {
	c.publisher.PublishStatus(ctx, c.snapshot.Clone())
}

// stopBlink turns the indicator off if the blink left it on.
func (c *Controller) stopBlink() {
	if !c.blinkOn {
		return
	}

	c.blinkOn = false
	c.driver.Set(playback.Indicator, playback.LevelOff)
}

func (c *Controller) clearOutputs() {
	for _, ch := range playback.AllChannels {
		c.driver.Set(ch, playback.LevelOff)
	}

	c.blinkOn = false
}
