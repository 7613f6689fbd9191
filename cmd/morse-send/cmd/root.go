package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/morse-beacon/internal/config"
	client "github.com/oshokin/morse-beacon/internal/service/client"
	"github.com/oshokin/morse-beacon/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides grpc_addr from config.
	serverAddress string
	// wait keeps retrying while the device is busy.
	wait bool

	// rootCmd represents the base command for talking to a device.
	rootCmd = &cobra.Command{
		Use:   "morse-send",
		Short: "Send text and commands to a Morse device.",
		Long: `Controls a Morse playback device over its gRPC API.

The device address is loaded from the configuration file unless --server is given.
Every request carries the current username and hostname so the device can
report who sent the last message.`,
		SilenceUsage: true,
	}

	textCmd = &cobra.Command{
		Use:   "text <words...>",
		Short: "Play text on the device and print its Morse rendering.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSignals(func(ctx context.Context) error {
				opts := options(cmd)
				opts.Wait = wait

				return client.SendText(ctx, opts, strings.Join(args, " "))
			})
		},
	}

	intensityCmd = &cobra.Command{
		Use:   "intensity <0-255>",
		Short: "Set the actuator intensity, 0 leaves only the indicator.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("intensity must be in range 0..255: %w", err)
			}

			return runWithSignals(func(ctx context.Context) error {
				return client.SetIntensity(ctx, options(cmd), uint8(value))
			})
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Abort the message being played.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Stop(ctx, options(cmd))
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the device status.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Status(ctx, options(cmd))
			})
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print every status change until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Watch(ctx, options(cmd))
			})
		},
	}

	encodeCmd = &cobra.Command{
		Use:   "encode <words...>",
		Short: "Print the Morse rendering of text without a device.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Encode(cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}

	decodeCmd = &cobra.Command{
		Use:   "decode <code>",
		Short: "Translate a Morse rendering back to text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Decode(cmd.OutOrStdout(), args[0])
		},
	}
)

// Execute runs the morse-send CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWithSignals(fn func(ctx context.Context) error) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return fn(ctx)
}

func options(cmd *cobra.Command) *client.Options {
	return &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Output:        cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "device address (overrides config)")

	textCmd.Flags().BoolVarP(&wait, "wait", "w", false, "retry until the device is free")

	rootCmd.AddCommand(textCmd, intensityCmd, stopCmd, statusCmd, watchCmd, encodeCmd, decodeCmd)
}
