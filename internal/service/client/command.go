package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/morse-beacon/internal/config"
	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/domain/morse"
	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/playback"
	"github.com/oshokin/morse-beacon/internal/service/common"
)

// Options configures the morse-send commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Wait keeps retrying SendText while the device is busy or unreachable.
	Wait bool

	// Output receives command results. Defaults to os.Stdout.
	Output io.Writer
}

// defaultRetryInterval defines retry delay when the device is busy.
const defaultRetryInterval = 1 * time.Second

const toolName = "morse-send"

// SendText plays text on the device and prints the rendering it returned.
// With Wait set it retries until the device accepts the message.
//
//nolint:cyclop // Retry loop mirrors the single attempt path.
func SendText(ctx context.Context, opts *Options, text string) error {
	ctx = logger.WithName(ctx, toolName)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	// attempt tries once to send the text, returns (completed, error).
	attempt := func() (bool, error) {
		code, err := client.SendText(ctx, text)
		if err == nil {
			fmt.Fprintln(output(opts), code)

			return true, nil
		}

		if !opts.Wait || !retryable(err) {
			return false, err
		}

		logger.WarnKV(ctx, "Device not ready, retrying", "error", err)

		return false, nil
	}

	// Attempt immediately before starting retry loop.
	if done, err := attempt(); err != nil {
		return err
	} else if done {
		return nil
	}

	ticker := time.NewTicker(defaultRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := attempt()
			if err != nil {
				return err
			}

			if done {
				return nil
			}
		}
	}
}

// SetIntensity updates the actuator level.
func SetIntensity(ctx context.Context, opts *Options, intensity uint8) error {
	ctx = logger.WithName(ctx, toolName)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	if err = client.SetIntensity(ctx, intensity); err != nil {
		return err
	}

	fmt.Fprintf(output(opts), "intensity set to %d\n", intensity)

	return nil
}

// Stop aborts any playback on the device.
func Stop(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, toolName)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	if err = client.Stop(ctx); err != nil {
		return err
	}

	fmt.Fprintln(output(opts), "stopped")

	return nil
}

// Status prints the current device snapshot.
func Status(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, toolName)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	snapshot, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(output(opts), formatState(snapshot))

	return nil
}

// Watch prints every status change until ctx is canceled.
func Watch(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, toolName)

	client, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	w := output(opts)

	return client.WatchStatus(ctx, func(snapshot *domain.Snapshot) error {
		_, err := fmt.Fprintln(w, formatState(snapshot))

		return err
	})
}

// Encode prints the rendering of text and its playback length without a device.
func Encode(w io.Writer, text string) error {
	seq, err := morse.Encode(text)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n%d pulses, %s\n", seq, seq.Pulses(), playback.Duration(seq))

	return err
}

// Decode prints the text a rendering stands for.
func Decode(w io.Writer, code string) error {
	text, err := morse.Decode(code)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, text)

	return err
}

// connect loads settings, identifies the caller, and dials the device.
func connect(ctx context.Context, opts *Options) (*common.Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.GRPCAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Connecting to device", "server_address", serverAddress, "actor", actor)

	return common.Dial(ctx, serverAddress,
		common.WithCallTimeout(cfg.Timeout),
		common.WithActor(actor),
		common.WithUserAgent(toolName),
	)
}

// retryable reports whether a SendText failure may succeed later.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	switch status.Code(err) {
	case codes.FailedPrecondition, codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func output(opts *Options) io.Writer {
	if opts.Output != nil {
		return opts.Output
	}

	return os.Stdout
}

// formatState converts a device snapshot to a readable line.
func formatState(snapshot *domain.Snapshot) string {
	if snapshot == nil {
		return "<nil state>"
	}

	// Extract timestamp with fallback for missing data.
	timestamp := "<unknown>"
	if !snapshot.Timestamp.IsZero() {
		timestamp = snapshot.Timestamp.Format(time.RFC3339)
	}

	link := "disconnected"
	if snapshot.Connected {
		link = "connected"
	}

	line := fmt.Sprintf("%s, intensity %d, %s, last by %s (%s)",
		snapshot.Status, snapshot.Intensity, link, snapshot.LastActor, timestamp)

	if snapshot.Morse != "" {
		line += fmt.Sprintf(": %q", snapshot.Morse)
	}

	return line
}
