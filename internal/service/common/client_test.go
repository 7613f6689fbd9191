//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestDial_AppliesOptions verifies options are applied without contacting the device.
func TestDial_AppliesOptions(t *testing.T) {
	t.Parallel()

	actor := &domain.Actor{Hostname: "bench-01", Username: "o.shokin"}

	c, err := Dial(context.Background(), "127.0.0.1:1",
		WithCallTimeout(time.Second),
		WithCallTimeout(0),
		WithActor(actor),
		WithUserAgent("morse-send"),
	)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, c.Close())
	}()

	require.Equal(t, time.Second, c.callTimeout)
	require.Equal(t, actor, c.actor)
	require.NotSame(t, actor, c.actor)
	require.Contains(t, c.userAgent, "morse-send/")

	var nilClient *Client
	require.NoError(t, nilClient.Close())
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
		actor:       &domain.Actor{Hostname: "bench-01", Username: "o.shokin"},
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"o.shokin"}, md.Get(pb.ActorUsernameKey))

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}
