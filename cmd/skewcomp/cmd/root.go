// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skewcomp/pkg/log"
	"skewcomp/pkg/settings"
	"skewcomp/pkg/skew"
)

var (
	// Global flags
	printerName string
	configDir   string
	logFile     string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "skewcomp",
	Short: "Print skew compensation for 3D printers",
	Long: `skewcomp computes per-plane skew factors from a measured calibration
print and compensates the skew either through firmware commands
(Marlin M852, Klipper SET_SKEW) or by shearing the coordinates of a
sliced G-code file directly.

Examples:
  skewcomp set --printer voron --xy 150,130,100        # store measurements
  skewcomp calc --printer voron                        # show factors and commands
  skewcomp apply --printer voron print.gcode           # shear a sliced file
  skewcomp sync --printer voron start.gcode            # sync firmware command
  skewcomp push --printer voron --addr mainsail:7125   # SET_SKEW via Moonraker`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&printerName, "printer", "default", "printer profile name")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "log file path (default: stderr)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func setupLogging() error {
	logger := log.New("skewcomp")
	log.ConfigureFromEnv(logger)
	if verbose {
		logger.SetLevel(log.DEBUG)
	}
	if logFile != "" {
		w, err := log.NewRotatingFileWriter(log.RotationConfig{Filename: logFile})
		if err != nil {
			return err
		}
		logger.SetWriter(w)
		logger.SetColorize(false)
	}
	log.SetDefaultLogger(logger)
	return nil
}

// settingsDir resolves the settings directory, defaulting to the
// user's configuration directory.
func settingsDir() string {
	if configDir != "" {
		return configDir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "skewcomp")
}

func newStore() *settings.Store {
	return settings.NewStore(settingsDir())
}

// loadSettings loads the active printer's settings from the store.
func loadSettings() settings.Settings {
	return newStore().Load(printerName)
}

// parsePlane parses an "AC,BD,AD" flag value.
func parsePlane(value string) (skew.PlaneMeasurements, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return skew.PlaneMeasurements{}, fmt.Errorf("expected AC,BD,AD but got %q", value)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return skew.PlaneMeasurements{}, fmt.Errorf("invalid measurement %q: %w", p, err)
		}
		vals[i] = v
	}
	return skew.PlaneMeasurements{AC: vals[0], BD: vals[1], AD: vals[2]}, nil
}
