// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skewcomp/pkg/gcode"
	"skewcomp/pkg/settings"
	"skewcomp/pkg/skew"
)

var syncCmd = &cobra.Command{
	Use:   "sync <start-gcode-file>",
	Short: "Synchronize the firmware skew command in start G-code",
	Long: `Ensures the start G-code contains exactly the skew command selected
by the printer's stored method (M852 for marlin, SET_SKEW for
klipper) and removes any stale command previously inserted by this
tool. With method "none" or compensation disabled, plugin commands
are removed. User-written skew commands are never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cfg := loadSettings()

		calc := skew.NewCalculator()
		calc.SetMeasurements(cfg.Measurements)

		command := ""
		if cfg.Enabled {
			switch {
			case cfg.Method == settings.MethodMarlin && cfg.MarlinAdd:
				command = calc.MarlinCommand()
			case cfg.Method == settings.MethodKlipper && cfg.KlipperAdd:
				command = calc.KlipperCommand()
			}
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		updated, changed := gcode.SyncStartGCode(string(raw), command)
		if !changed {
			fmt.Println("Start G-code already synchronized.")
			return nil
		}
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return err
		}
		if command == "" {
			fmt.Printf("Removed skew command from %s\n", path)
		} else {
			fmt.Printf("Synchronized skew command in %s:\n  %s\n", path, command)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
