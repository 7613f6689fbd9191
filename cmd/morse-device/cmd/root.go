package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/morse-beacon/internal/config"
	"github.com/oshokin/morse-beacon/internal/service/device/daemon"
	"github.com/oshokin/morse-beacon/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// settingsFile path where output settings are persisted.
	settingsFile string
	// httpAddress overrides the admin listener.
	httpAddress string
	// noBLE keeps the wireless peripheral off.
	noBLE bool
	// replace terminates a running instance.
	replace bool

	// rootCmd represents the base command for running the device daemon.
	rootCmd = &cobra.Command{
		Use:   "morse-device [listen-address]",
		Short: "Run the Morse playback device.",
		Long: `Starts the Morse playback device: it encodes received text and plays it
on the indicator and actuator outputs without ever blocking its event loop.

Text arrives over the BLE peripheral (when enabled) or the gRPC API.
Only the port from grpc_addr config is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:50051).
The actuator intensity is persisted to a JSON file for recovery across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &daemon.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				HTTPAddress:   httpAddress,
				SettingsFile:  settingsFile,
				NoBLE:         noBLE,
				Replace:       replace,
			}

			return daemon.Run(ctx, options)
		},
	}
)

// Execute runs the morse-device CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&settingsFile, "settings-file", "s", "", "path to persist output settings (overrides config)")
	rootCmd.Flags().StringVar(&httpAddress, "http", "", `admin HTTP listen address, "-" disables it (overrides config)`)
	rootCmd.Flags().BoolVar(&noBLE, "no-ble", false, "do not start the BLE peripheral")
	rootCmd.Flags().BoolVar(&replace, "replace", false, "terminate an already running instance")
}
