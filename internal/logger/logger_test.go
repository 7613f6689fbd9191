package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestNew_WritesToSink ensures the console encoder writes to the provided sink and honors the level.
func TestNew_WritesToSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := New(zapcore.WarnLevel, &buf)
	ctx := ToContext(context.Background(), l)

	Info(ctx, "hidden")
	WarnKV(ctx, "Publish failed", "characteristic", "status")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "Publish failed")
	require.Contains(t, buf.String(), "characteristic")
}
