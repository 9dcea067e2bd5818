// This file may be distributed under the terms of the GNU GPLv3 license.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skewcomp/pkg/errors"
	"skewcomp/pkg/gcode"
	"skewcomp/pkg/skew"
)

var applyOutput string

var applyCmd = &cobra.Command{
	Use:   "apply <gcode-file>",
	Short: "Shear the coordinates of a sliced G-code file",
	Long: `Applies the geometric skew factors of the selected printer directly
to every G0/G1 X/Y coordinate of a sliced G-code file. The slicer
header and startup section are left untouched; a comment trailer
records the measurements and factors used. Without -o the file is
rewritten in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cfg := loadSettings()

		if !cfg.Enabled {
			return fmt.Errorf("compensation is not enabled for printer '%s' (run: skewcomp set --printer %s --enabled)", printerName, printerName)
		}

		calc := skew.NewCalculator()
		calc.SetMeasurements(cfg.Measurements)
		factors := calc.GeometricFactors()
		if factors.IsZero() {
			return fmt.Errorf("all skew factors are zero, nothing to compensate (check measurements for printer '%s')", printerName)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return errors.GCodeParseError(path, err)
		}
		doc := gcode.ParseDocument(string(raw))
		if doc.IsPostProcessed() {
			return errors.AlreadyProcessedError(path)
		}

		if len(doc) > 0 {
			doc[0] += fmt.Sprintf("\n;  [%s] Applying skew compensation using values from: printer '%s'", skew.Tag, printerName)
		}
		doc = gcode.NewCompensator(factors).Apply(doc)
		doc = gcode.AppendSummary(doc, cfg.Measurements, factors)

		out := applyOutput
		if out == "" {
			out = path
		}
		if err := os.WriteFile(out, []byte(doc.String()), 0644); err != nil {
			return err
		}
		fmt.Printf("Compensated %s -> %s (factors XY=%.8f XZ=%.8f YZ=%.8f)\n",
			path, out, factors.XY, factors.XZ, factors.YZ)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "output file (default: rewrite input in place)")
	rootCmd.AddCommand(applyCmd)
}
