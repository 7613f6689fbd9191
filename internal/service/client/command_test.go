package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/domain/morse"
)

// TestEncode verifies the offline rendering and playback length output.
func TestEncode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Encode(&buf, "E"))
	require.Equal(t, ".\n1 pulses, 200ms\n", buf.String())

	require.ErrorIs(t, Encode(&buf, "   "), morse.ErrNoEncodableContent)
}

// TestDecode verifies rendered codes translate back to text.
func TestDecode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Decode(&buf, "... --- ..."))
	require.Equal(t, "SOS\n", buf.String())

	require.ErrorIs(t, Decode(&buf, "......."), morse.ErrUnknownCode)
}

// TestRetryable covers which gRPC failures keep the wait loop going.
func TestRetryable(t *testing.T) {
	t.Parallel()

	busy := fmt.Errorf("send text: %w", status.Error(codes.FailedPrecondition, "already playing"))

	require.True(t, retryable(busy))
	require.True(t, retryable(status.Error(codes.Unavailable, "down")))
	require.False(t, retryable(status.Error(codes.InvalidArgument, "empty")))
	require.False(t, retryable(context.Canceled))
	require.False(t, retryable(errors.New("boom")))
}

// TestFormatState verifies snapshot rendering with and without optional fields.
func TestFormatState(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<nil state>", formatState(nil))

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	line := formatState(&domain.Snapshot{
		Status:    domain.StatusPlaying,
		Timestamp: ts,
		Morse:     "...",
		Intensity: 200,
		Connected: true,
		LastActor: &domain.Actor{Hostname: "host", Username: "user"},
	})
	require.Equal(t, `playing, intensity 200, connected, last by user@host (2026-01-02T03:04:05Z): "..."`, line)

	line = formatState(&domain.Snapshot{Status: domain.StatusIdle})
	require.Equal(t, "idle, intensity 0, disconnected, last by <unknown> (<unknown>)", line)
}
