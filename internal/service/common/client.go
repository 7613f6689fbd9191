//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/morse-beacon/internal/config"
	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/version"
)

// Client wraps the gRPC MorseService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the device.
	conn *grpc.ClientConn
	// api is the MorseService client interface.
	api pb.MorseServiceClient
	// actor identifies the caller on every request.
	actor *domain.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// userAgent is sent with every connection.
	userAgent string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the identity attached to every call.
func WithActor(actor *domain.Actor) Option {
	return func(c *Client) {
		c.actor = actor.Clone()
	}
}

// WithUserAgent names the calling tool in the connection user agent.
func WithUserAgent(tool string) Option {
	return func(c *Client) {
		c.userAgent = version.UserAgent(tool)
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the device.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
		userAgent:   version.UserAgent("morse-beacon"),
	}

	for _, opt := range opts {
		opt(client)
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(client.userAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("dial device: %w", err)
	}

	client.conn = conn
	client.api = pb.NewMorseServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SendText asks the device to play text and returns the rendering.
func (c *Client) SendText(ctx context.Context, text string) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SendText(callCtx, wrapperspb.String(text))
	if err != nil {
		return "", fmt.Errorf("send text: %w", err)
	}

	return resp.GetValue(), nil
}

// SetIntensity changes the actuator level.
func (c *Client) SetIntensity(ctx context.Context, intensity uint8) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.SetIntensity(callCtx, wrapperspb.UInt32(uint32(intensity))); err != nil {
		return fmt.Errorf("set intensity: %w", err)
	}

	return nil
}

// Stop aborts playback.
func (c *Client) Stop(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.Stop(callCtx, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("stop: %w", err)
	}

	return nil
}

// GetStatus retrieves the device snapshot.
func (c *Client) GetStatus(ctx context.Context) (*domain.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetStatus(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	snapshot, err := pb.SnapshotFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return snapshot, nil
}

// WatchStatus calls fn for every status transition until ctx is canceled,
// the stream ends, or fn returns an error. No call timeout applies.
func (c *Client) WatchStatus(ctx context.Context, fn func(*domain.Snapshot) error) error {
	stream, err := c.api.WatchStatus(pb.WithActor(ctx, c.actor), new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch status: %w", err)
	}

	for {
		message, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil //nolint:nilerr // Caller canceled the watch.
			}

			return fmt.Errorf("watch status: %w", err)
		}

		snapshot, err := pb.SnapshotFromStruct(message)
		if err != nil {
			return fmt.Errorf("watch status: %w", err)
		}

		if err = fn(snapshot); err != nil {
			return err
		}
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The caller's
// identity is attached as metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = pb.WithActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
