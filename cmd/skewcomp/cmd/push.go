// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skewcomp/pkg/moonraker"
	"skewcomp/pkg/skew"
)

var (
	pushAddr    string
	pushMarlin  bool
	pushTimeout time.Duration
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send the skew command to a live printer via Moonraker",
	Long: `Connects to a Moonraker instance over WebSocket and executes the
SET_SKEW command built from the selected printer's measurements.
With --marlin the M852 command is sent instead (for Marlin-flavored
firmware behind a Moonraker-compatible API).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettings()
		if !cfg.Enabled {
			return fmt.Errorf("compensation is not enabled for printer '%s'", printerName)
		}

		calc := skew.NewCalculator()
		calc.SetMeasurements(cfg.Measurements)
		command := calc.KlipperCommand()
		if pushMarlin {
			command = calc.MarlinCommand()
		}

		client, err := moonraker.Dial(pushAddr, pushTimeout)
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.ServerInfo(); err != nil {
			return err
		}
		if err := client.RunGCode(command); err != nil {
			return err
		}
		fmt.Printf("Sent to %s:\n  %s\n", pushAddr, command)
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushAddr, "addr", "localhost:7125", "Moonraker address (host:port or URL)")
	pushCmd.Flags().BoolVar(&pushMarlin, "marlin", false, "send M852 instead of SET_SKEW")
	pushCmd.Flags().DurationVar(&pushTimeout, "timeout", moonraker.DefaultTimeout, "connect/RPC timeout")
	rootCmd.AddCommand(pushCmd)
}
