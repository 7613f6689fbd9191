package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal verifies an empty context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))
}

// TestWithKV_AddsFields checks that fields attached to the context end up in log entries.
func TestWithKV_AddsFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "ble")
	ctx = WithKV(ctx, "central", "AA:BB")

	InfoKV(ctx, "Connected", "status", 0)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "ble", entries[0].LoggerName)
	require.Equal(t, "Connected", entries[0].Message)
	require.Equal(t, "AA:BB", entries[0].ContextMap()["central"])
}
