// Firmware command formatting
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package skew

import "fmt"

// Command prefixes used for recognizing previously inserted lines.
const (
	MarlinPrefix  = "M852"
	KlipperPrefix = "SET_SKEW"
)

// MarlinCommand renders the Marlin M852 command from the calculated
// quarter-formula factors. Always succeeds: invalid measurements have
// already degraded the factors to 0.0 upstream.
func (c *Calculator) MarlinCommand() string {
	return fmt.Sprintf("%s I%.8f J%.8f K%.8f ; %s",
		MarlinPrefix, c.marlin.XY, c.marlin.XZ, c.marlin.YZ, Tag)
}

// KlipperCommand renders the Klipper SET_SKEW command. Klipper takes the
// raw calibration lengths rather than derived factors. If any
// measurement is not a finite number an error-annotated string is
// returned instead; no error is raised.
func (c *Calculator) KlipperCommand() string {
	if !c.m.Finite() {
		logger().Warn("could not format Klipper command due to invalid measurement values")
		return fmt.Sprintf("%s ; Error: Invalid measurements (%s)", KlipperPrefix, Tag)
	}
	return fmt.Sprintf("%s XY=%.3f,%.3f,%.3f XZ=%.3f,%.3f,%.3f YZ=%.3f,%.3f,%.3f ; %s",
		KlipperPrefix,
		c.m.XY.AC, c.m.XY.BD, c.m.XY.AD,
		c.m.XZ.AC, c.m.XZ.BD, c.m.XZ.AD,
		c.m.YZ.AC, c.m.YZ.BD, c.m.YZ.AD,
		Tag)
}
