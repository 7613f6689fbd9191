package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/service/sim"
	"github.com/oshokin/morse-beacon/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// listenAddress exposes the gRPC API of the simulated device.
	listenAddress string
	// logFile receives logs while the panel owns the terminal.
	logFile string

	// rootCmd represents the base command for the terminal simulator.
	rootCmd = &cobra.Command{
		Use:   "morse-sim",
		Short: "Simulate the Morse device in the terminal.",
		Long: `Runs the Morse playback engine against a terminal front panel.

Both outputs are shown as lamps with scrolling traces. Type text and press
enter to play it. With --listen the simulated device also serves the gRPC
API, so morse-send can drive it like real hardware.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return sim.Run(ctx, &sim.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogFile:       logFile,
			})
		},
	}
)

// Execute runs the morse-sim CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&listenAddress, "listen", "l", "", "serve the gRPC API on this address")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
}
