// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skewcomp/pkg/settings"
)

var (
	setEnabled    bool
	setMethod     string
	setMarlinAdd  bool
	setKlipperAdd bool
	setXY         string
	setXZ         string
	setYZ         string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Store measurements and options for a printer",
	Long: `Updates the stored settings of the selected printer. Only the flags
given on the command line are changed; everything else keeps its
current (or default) value. Measurements are given as AC,BD,AD in
millimeters, e.g. --xy 141.42,141.42,100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		cfg := store.Load(printerName)

		if cmd.Flags().Changed("enabled") {
			cfg.Enabled = setEnabled
		}
		if cmd.Flags().Changed("method") {
			switch setMethod {
			case settings.MethodNone, settings.MethodMarlin, settings.MethodKlipper:
				cfg.Method = setMethod
			default:
				return fmt.Errorf("invalid method %q (want none, marlin or klipper)", setMethod)
			}
		}
		if cmd.Flags().Changed("marlin-add") {
			cfg.MarlinAdd = setMarlinAdd
		}
		if cmd.Flags().Changed("klipper-add") {
			cfg.KlipperAdd = setKlipperAdd
		}
		if cmd.Flags().Changed("xy") {
			p, err := parsePlane(setXY)
			if err != nil {
				return err
			}
			cfg.Measurements.XY = p
		}
		if cmd.Flags().Changed("xz") {
			p, err := parsePlane(setXZ)
			if err != nil {
				return err
			}
			cfg.Measurements.XZ = p
		}
		if cmd.Flags().Changed("yz") {
			p, err := parsePlane(setYZ)
			if err != nil {
				return err
			}
			cfg.Measurements.YZ = p
		}

		if err := store.Save(printerName, cfg); err != nil {
			return err
		}
		fmt.Printf("Saved settings for printer '%s' to %s\n", printerName, store.FilePath(printerName))
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVar(&setEnabled, "enabled", false, "enable compensation for this printer")
	setCmd.Flags().StringVar(&setMethod, "method", "", "compensation method: none, marlin or klipper")
	setCmd.Flags().BoolVar(&setMarlinAdd, "marlin-add", false, "add the M852 command to start G-code on sync")
	setCmd.Flags().BoolVar(&setKlipperAdd, "klipper-add", false, "add the SET_SKEW command to start G-code on sync")
	setCmd.Flags().StringVar(&setXY, "xy", "", "XY plane measurements AC,BD,AD (mm)")
	setCmd.Flags().StringVar(&setXZ, "xz", "", "XZ plane measurements AC,BD,AD (mm)")
	setCmd.Flags().StringVar(&setYZ, "yz", "", "YZ plane measurements AC,BD,AD (mm)")
	rootCmd.AddCommand(setCmd)
}
