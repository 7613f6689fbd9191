package daemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/playback"
)

// TestResolveListenAddress covers override, port extraction and invalid input.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("device.local:50051", "")
	require.NoError(t, err)
	require.Equal(t, ":50051", addr)

	addr, err = resolveListenAddress("device.local:50051", "127.0.0.1:9090")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestOpenDrivers_NoHardware verifies a config without ports yields a working logging driver.
func TestOpenDrivers_NoHardware(t *testing.T) {
	t.Parallel()

	driver, closeAll, err := openDrivers(context.Background(), &config.Config{GRPCAddress: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NotNil(t, driver)

	driver.Set(playback.Indicator, playback.LevelFull)
	closeAll()
}

// TestRun_MissingConfig verifies Run fails fast without settings.
func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ConfigPath: t.TempDir() + "/missing.yaml"})
	require.Error(t, err)
}
