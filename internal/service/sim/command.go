package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/grpc"

	api "github.com/oshokin/morse-beacon/internal/api/grpc/morse"
	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/logger"
	pb "github.com/oshokin/morse-beacon/internal/pb/v1"
	"github.com/oshokin/morse-beacon/internal/service/common"
	"github.com/oshokin/morse-beacon/internal/service/device"
	"github.com/oshokin/morse-beacon/internal/service/device/daemon"
)

// Options configures the simulator.
type Options struct {
	// ConfigPath to YAML settings file. A missing file means defaults.
	ConfigPath string
	// ListenAddress exposes the gRPC API when set.
	ListenAddress string
	// LogFile receives logs; empty discards them since the panel owns the terminal.
	LogFile string
}

// Run starts a simulated device and its panel, blocking until the user quits
// or ctx is canceled.
//
//nolint:funlen // Wiring mirrors the device daemon.
func Run(ctx context.Context, opts *Options) error {
	sink, closeSink, err := openLogSink(opts.LogFile)
	if err != nil {
		return err
	}

	defer closeSink()

	logger.SetLogger(logger.New(nil, sink))

	ctx = logger.WithName(ctx, "morse-sim")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load settings: %w", err)
		}
	}

	title := config.DefaultLocalName
	if cfg != nil {
		title = cfg.LocalName
	}

	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	var (
		panel = NewPanel()
		hub   = device.NewHub()
	)

	controller := device.NewController(panel, device.Publishers{device.LogPublisher{}, hub}, device.ControllerOptions{
		Intensity: cfg.Intensity(),
		Preempt:   cfg != nil && cfg.Preempt,
		Blink:     true,
	})

	svc := device.NewService(controller, device.ServiceOptions{
		Hub:      hub,
		SelfTest: cfg.SelfTestEnabled(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)

	go func() {
		loopDone <- svc.Run(ctx)
	}()

	if opts.ListenAddress != "" {
		lc := net.ListenConfig{}

		lis, err := lc.Listen(ctx, "tcp", opts.ListenAddress)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", opts.ListenAddress, err)
		}

		grpcServer := grpc.NewServer()
		pb.RegisterMorseServiceServer(grpcServer, api.NewServer(svc))

		go func() {
			if err := daemon.ServeGRPC(ctx, grpcServer, lis); err != nil {
				logger.ErrorKV(ctx, "Simulator gRPC server failed", "error", err)
			}
		}()

		logger.InfoKV(ctx, "Simulator serving gRPC", "listen_address", lis.Addr().String())
	}

	model := NewModel(ctx, svc, panel, actor, title)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = program.Run()

	cancel()

	if loopErr := <-loopDone; loopErr != nil {
		return loopErr
	}

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run panel: %w", err)
	}

	return nil
}

func openLogSink(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
