// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skewcomp/pkg/skew"
)

var (
	calcXY string
	calcXZ string
	calcYZ string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Show skew factors and firmware commands",
	Long: `Computes the skew factors for the selected printer's stored
measurements and prints the Marlin and Klipper firmware commands.
Measurements can be overridden per plane with --xy/--xz/--yz
(AC,BD,AD in millimeters) without touching the stored settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettings()
		m := cfg.Measurements

		for _, o := range []struct {
			flag  string
			value string
			dst   *skew.PlaneMeasurements
		}{
			{"xy", calcXY, &m.XY},
			{"xz", calcXZ, &m.XZ},
			{"yz", calcYZ, &m.YZ},
		} {
			if !cmd.Flags().Changed(o.flag) {
				continue
			}
			p, err := parsePlane(o.value)
			if err != nil {
				return err
			}
			*o.dst = p
		}

		calc := skew.NewCalculator()
		calc.SetMeasurements(m)

		marlin := calc.Factors()
		angles := calc.DisplayAngles()
		geo := calc.GeometricFactors()

		fmt.Printf("Printer: %s\n\n", printerName)
		fmt.Printf("Marlin factors:     I=%.8f J=%.8f K=%.8f\n", marlin.XY, marlin.XZ, marlin.YZ)
		fmt.Printf("Skew angles (deg):  XY=%.4f XZ=%.4f YZ=%.4f\n", angles.XY, angles.XZ, angles.YZ)
		fmt.Printf("Geometric factors:  XY=%.8f XZ=%.8f YZ=%.8f\n\n", geo.XY, geo.XZ, geo.YZ)
		fmt.Println(calc.MarlinCommand())
		fmt.Println(calc.KlipperCommand())
		return nil
	},
}

func init() {
	calcCmd.Flags().StringVar(&calcXY, "xy", "", "XY plane measurements AC,BD,AD (mm)")
	calcCmd.Flags().StringVar(&calcXZ, "xz", "", "XZ plane measurements AC,BD,AD (mm)")
	calcCmd.Flags().StringVar(&calcYZ, "yz", "", "YZ plane measurements AC,BD,AD (mm)")
	rootCmd.AddCommand(calcCmd)
}
