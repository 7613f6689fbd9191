package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	api "github.com/oshokin/morse-beacon/internal/api/grpc/morse"
	adminhttp "github.com/oshokin/morse-beacon/internal/api/http"
	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/logger"
	"github.com/oshokin/morse-beacon/internal/metrics"
	"github.com/oshokin/morse-beacon/internal/output"
	"github.com/oshokin/morse-beacon/internal/output/midi"
	"github.com/oshokin/morse-beacon/internal/output/serial"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/playback"
	"github.com/oshokin/morse-beacon/internal/repository/settings"
	"github.com/oshokin/morse-beacon/internal/service/common"
	"github.com/oshokin/morse-beacon/internal/service/device"
	"github.com/oshokin/morse-beacon/internal/transport/ble"
)

// Options controls the morse-device process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HTTPAddress overrides the admin listener; "-" disables it.
	HTTPAddress string
	// SettingsFile overrides the persisted settings path.
	SettingsFile string
	// NoBLE keeps the wireless peripheral off regardless of config.
	NoBLE bool
	// Replace terminates a running instance instead of refusing to start.
	Replace bool
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// disabledAddress turns off an optional listener.
const disabledAddress = "-"

// Run starts the device and blocks until ctx is canceled or a component fails.
//
//nolint:cyclop,funlen // Wiring of every component lives here.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "morse-device")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if cfg.LogLevel != "" && !logger.SetLevelString(cfg.LogLevel) {
		logger.Warnf(ctx, "Unknown log level %q, keeping %s", cfg.LogLevel, logger.Level())
	}

	if err = common.NewInstanceGuard().Ensure(ctx, opts.Replace); err != nil {
		return err
	}

	settingsFile := cfg.SettingsFile
	if opts.SettingsFile != "" {
		settingsFile = opts.SettingsFile
	}

	listenAddress, err := resolveListenAddress(cfg.GRPCAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	httpAddress := cfg.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	repo := settings.NewFileRepository(settingsFile)

	intensity, err := device.LoadIntensity(ctx, repo, cfg.Intensity())
	if err != nil {
		return err
	}

	driver, closeDrivers, err := openDrivers(ctx, cfg)
	if err != nil {
		return err
	}

	defer closeDrivers()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		collector  = metrics.NewCollector(registry)
		hub        = device.NewHub()
		bleEnabled = cfg.BLE.Enabled && !opts.NoBLE
		publishers = device.Publishers{device.LogPublisher{}}
		peripheral *ble.Peripheral
	)

	// The peripheral can reject a rendering, so it runs before the hub and
	// the collector.
	if bleEnabled {
		peripheral = ble.NewPeripheral(ctx)
		publishers = append(publishers, peripheral)
	}

	publishers = append(publishers, hub, collector)

	controller := device.NewController(driver, publishers, device.ControllerOptions{
		Intensity: intensity,
		Preempt:   cfg.Preempt,
		Blink:     bleEnabled,
	})

	svc := device.NewService(controller, device.ServiceOptions{
		Hub:        hub,
		Repository: repo,
		SelfTest:   cfg.SelfTestEnabled(),
	})

	if bleEnabled {
		bleOptions := ble.Options{
			LocalName: cfg.LocalName,
			Adapter:   cfg.BLE.Adapter,
		}

		if err = peripheral.Start(svc, bleOptions); err != nil {
			return fmt.Errorf("start BLE peripheral: %w", err)
		}
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(collector.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(collector.StreamServerInterceptor()),
	)
	pb.RegisterMorseServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Morse device starting",
		"listen_address", listenAddress,
		"http_address", httpAddress,
		"settings_file", settingsFile,
		"intensity", intensity,
		"ble", bleEnabled,
		"preempt", cfg.Preempt,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		errs = make(chan error, 3) //nolint:mnd // One per component below.
	)

	run := func(name string, fn func(context.Context) error) {
		wg.Go(func() {
			if err := fn(ctx); err != nil {
				errs <- fmt.Errorf("%s: %w", name, err)

				cancel()
			}
		})
	}

	run("device loop", svc.Run)
	run("grpc", func(ctx context.Context) error {
		return ServeGRPC(ctx, grpcServer, lis)
	})

	if httpAddress != "" && httpAddress != disabledAddress {
		run("admin http", func(ctx context.Context) error {
			return adminhttp.Serve(ctx, httpAddress, adminhttp.NewHandler(svc, registry))
		})
	}

	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		failures = append(failures, err)
	}

	logger.Info(ctx, "Morse device stopped")

	return errors.Join(failures...)
}

// ServeGRPC runs server until ctx is canceled.
func ServeGRPC(ctx context.Context, server *grpc.Server, lis net.Listener) error {
	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		server.GracefulStop()
		close(done)
	}()

	if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// openDrivers builds the output fan-out from config. The returned func
// closes every opened port.
func openDrivers(ctx context.Context, cfg *config.Config) (playback.Driver, func(), error) {
	var (
		drivers output.Multi
		closers []func() error
	)

	closeAll := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logger.WarnKV(ctx, "Closing output failed", "error", err)
			}
		}
	}

	if cfg.Serial.Port != "" {
		d, err := serial.Open(ctx, cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return nil, nil, err
		}

		drivers = append(drivers, d)
		closers = append(closers, d.Close)
	}

	if cfg.MIDI.Port != "" {
		d, closeFn, err := midi.Open(ctx, cfg.MIDI.Port, cfg.MIDI.Note)
		if err != nil {
			closeAll()

			return nil, nil, err
		}

		drivers = append(drivers, d)
		closers = append(closers, closeFn)
	}

	if len(drivers) == 0 {
		logger.Warn(ctx, "No hardware outputs configured, writes are only logged")
	}

	return output.WithLogging(ctx, drivers), closeAll, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
