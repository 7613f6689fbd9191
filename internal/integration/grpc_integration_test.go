package integration

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/morse-beacon/internal/config"
	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/service/common"
	"github.com/oshokin/morse-beacon/internal/service/device/daemon"
)

// reservePort returns a free local address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startDevice starts the real device daemon with temporary config and settings file.
// Returns a stop function to gracefully shutdown the daemon.
func startDevice(t *testing.T, grpcAddr, httpAddr, settingsPath string) (stop func()) {
	t.Helper()

	// Create cancellable context for daemon lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	selfTest := false

	// Create temporary configuration file.
	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			GRPCAddress:  grpcAddr,
			HTTPAddress:  httpAddr,
			SettingsFile: settingsPath,
			SelfTest:     &selfTest,
			Timeout:      5 * time.Second,
		}),
	)

	done := make(chan struct{})

	// Start daemon in background goroutine.
	go func() {
		defer close(done)

		options := &daemon.Options{
			ConfigPath:    cfgPath,
			ListenAddress: grpcAddr,
			NoBLE:         true,
		}

		_ = daemon.Run(ctx, options) //nolint:errcheck // Startup failures surface as dial errors.
	}()

	// Wait briefly for the daemon to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() {
		cancel()
		<-done
	}
}

func dial(t *testing.T, addr string) *common.Client {
	t.Helper()

	c, err := common.Dial(context.Background(), addr,
		common.WithCallTimeout(3*time.Second),
		common.WithActor(&domain.Actor{Hostname: "test-hostname", Username: "test-user"}),
		common.WithUserAgent("integration"),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c
}

// TestGRPC_Roundtrip starts the real daemon and exercises every RPC with on-disk persistence.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	grpcAddr := reservePort(t)
	settingsPath := filepath.Join(t.TempDir(), "state.json")

	stop := startDevice(t, grpcAddr, "", settingsPath)
	defer stop()

	ctx := context.Background()
	c := dial(t, grpcAddr)

	// Initial state is idle with the default intensity.
	got, err := c.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusIdle, got.Status)
	require.Equal(t, config.DefaultIntensity, got.Intensity)

	// Sending text returns the rendering and starts playback.
	code, err := c.SendText(ctx, "SOS")
	require.NoError(t, err)
	require.Equal(t, "... --- ...", code)

	got, err = c.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPlaying, got.Status)
	require.Equal(t, "... --- ...", got.Morse)
	require.Equal(t, "test-user@test-hostname", got.LastActor.String())

	// A second message while playing is rejected.
	_, err = c.SendText(ctx, "E")
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Unencodable text is an argument error.
	_, err = c.SendText(ctx, "###")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	// Stop returns the device to idle.
	require.NoError(t, c.Stop(ctx))

	got, err = c.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusIdle, got.Status)

	// Intensity changes are applied and persisted to disk.
	require.NoError(t, c.SetIntensity(ctx, 42))

	got, err = c.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, uint8(42), got.Intensity)

	require.Eventually(t, func() bool {
		_, err := os.Stat(settingsPath)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

// TestGRPC_WatchStatus verifies a watcher sees a full playback cycle.
func TestGRPC_WatchStatus(t *testing.T) {
	t.Parallel()

	grpcAddr := reservePort(t)

	stop := startDevice(t, grpcAddr, "", filepath.Join(t.TempDir(), "state.json"))
	defer stop()

	c := dial(t, grpcAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seen := make(chan domain.Status, 16)
	watchDone := make(chan error, 1)

	go func() {
		watchDone <- c.WatchStatus(ctx, func(snapshot *domain.Snapshot) error {
			seen <- snapshot.Status

			if snapshot.Status == domain.StatusIdle && snapshot.Morse != "" {
				return io.EOF
			}

			return nil
		})
	}()

	// The subscription starts with the current snapshot.
	require.Equal(t, domain.StatusIdle, <-seen)

	_, err := c.SendText(ctx, "E")
	require.NoError(t, err)

	require.Equal(t, domain.StatusProcessing, <-seen)
	require.Equal(t, domain.StatusPlaying, <-seen)
	require.Equal(t, domain.StatusIdle, <-seen)
	require.ErrorIs(t, <-watchDone, io.EOF)
}

// TestHTTP_Admin verifies the admin endpoints served next to gRPC.
func TestHTTP_Admin(t *testing.T) {
	t.Parallel()

	grpcAddr := reservePort(t)
	httpAddr := reservePort(t)

	stop := startDevice(t, grpcAddr, httpAddr, filepath.Join(t.TempDir(), "state.json"))
	defer stop()

	for path, want := range map[string]string{
		"/healthz":   "ok",
		"/v1/status": "status",
		"/metrics":   "morse_beacon_intensity",
	} {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+httpAddr+path, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Contains(t, string(body), want, path)
	}
}
