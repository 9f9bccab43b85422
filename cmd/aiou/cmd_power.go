package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "Queue a power action for the console",
	Long:  "Queue a power action. The on-console helper carries it out the next time it runs.",
}

var powerShutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Power the console off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shutdown(false)
	},
}

var powerRebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shutdown(true)
	},
}

var powerPayloadCmd = &cobra.Command{
	Use:   "payload [path]",
	Short: "Reboot the console into an RCM payload",
	Long:  "Reboot the console into an RCM payload. The path is on the SD card, eg. /bootloader/payloads/hekate.bin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.RebootToPayload(args[0]); err != nil {
			return err
		}
		slog.Info("Queued payload reboot", "payload", args[0], "cfw", a.CFW)
		return nil
	},
}

func shutdown(reboot bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.Shutdown(reboot); err != nil {
		return err
	}
	slog.Info("Queued power action", "reboot", reboot)
	return nil
}
