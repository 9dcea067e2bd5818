// Skew factor computation
//
// Two distinct factor formulas exist on purpose. The quarter formula
// produces the Marlin M852 I/J/K values and the live preview, while the
// geometric formula produces the factor the coordinate transform shears
// with. They serve different consumers and are not interchangeable.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package skew

import (
	"math"

	"skewcomp/pkg/log"
)

func logger() *log.Logger {
	return log.GetLogger("skew")
}

// MarlinFactor computes the per-plane skew factor used for the Marlin
// M852 command: (AC² − BD²) / (4·AD²).
//
// AD must be strictly positive and all inputs finite; otherwise the
// factor degrades to 0.0 with a warning. Never panics.
func MarlinFactor(ac, bd, ad float64) float64 {
	if !(PlaneMeasurements{AC: ac, BD: bd, AD: ad}).finite() {
		logger().Warn("could not calculate Marlin factor: non-finite measurement AC=%v BD=%v AD=%v, using 0.0", ac, bd, ad)
		return 0.0
	}
	if ad <= 0 {
		logger().Warn("could not calculate Marlin factor: AD distance must be positive (AD=%v), using 0.0", ad)
		return 0.0
	}
	return (ac*ac - bd*bd) / (4 * ad * ad)
}

// DisplayAngle converts one plane's measurements to a skew angle in
// degrees for preview display. It uses the half-step formula
// (AC² − BD²) / (2·AD²) with the arc-cosine argument clamped to
// [-1, 1]. Out-of-range arguments are clamped here, not rejected; the
// authoritative geometric formula rejects them instead.
func DisplayAngle(ac, bd, ad float64) float64 {
	if ad == 0 || !(PlaneMeasurements{AC: ac, BD: bd, AD: ad}).finite() {
		return 0.0
	}
	arg := (ac*ac - bd*bd) / (2 * ad * ad)
	arg = math.Max(-1.0, math.Min(1.0, arg))
	return math.Acos(arg) / math.Pi * 180.0
}

// GeometricFactor computes the per-plane skew factor the coordinate
// transform shears with. Derived from the skewed-parallelogram geometry
// of the calibration face: reconstruct side AB from the diagonals, then
// take the tangent of the deviation from a right angle.
//
// Any invalid geometry (non-positive measurement, negative radicand,
// zero denominator, arc-cosine argument out of range) degrades to 0.0
// with a warning. Never panics.
func GeometricFactor(ac, bd, ad float64) float64 {
	if !(PlaneMeasurements{AC: ac, BD: bd, AD: ad}).finite() || ac <= 0 || bd <= 0 || ad <= 0 {
		logger().Warn("invalid measurement(s) for calculation: AC=%v BD=%v AD=%v, returning 0 skew factor", ac, bd, ad)
		return 0.0
	}

	radicand := 2*ac*ac + 2*bd*bd - 4*ad*ad
	if radicand < 0 {
		logger().Warn("invalid measurements leading to negative sqrt term (%v), check calibration print measurements: AC=%v BD=%v AD=%v", radicand, ac, bd, ad)
		return 0.0
	}
	ab := math.Sqrt(radicand) / 2

	denom := 2 * ab * ad
	if denom == 0 {
		logger().Warn("invalid measurements leading to zero denominator, check calibration print measurements: AC=%v BD=%v AD=%v", ac, bd, ad)
		return 0.0
	}

	arg := (ac*ac - ab*ab - ad*ad) / denom
	if arg < -1 || arg > 1 {
		logger().Warn("invalid measurements leading to acos argument out of range (%v), check calibration print measurements: AC=%v BD=%v AD=%v", arg, ac, bd, ad)
		return 0.0
	}

	return math.Tan(math.Pi/2 - math.Acos(arg))
}

// Calculator converts a calibration measurement set into skew factors
// and firmware command strings. The Marlin factor triple is recomputed
// every time the measurements are replaced.
type Calculator struct {
	m      Measurements
	marlin Factors
}

// NewCalculator creates a Calculator preloaded with the ideal
// measurement set (all factors zero).
func NewCalculator() *Calculator {
	c := &Calculator{m: DefaultMeasurements()}
	c.recalculate()
	return c
}

// SetMeasurements replaces all nine measurements and recomputes the
// Marlin factor triple.
func (c *Calculator) SetMeasurements(m Measurements) {
	c.m = m
	c.recalculate()
}

// Measurements returns the current measurement set.
func (c *Calculator) Measurements() Measurements {
	return c.m
}

func (c *Calculator) recalculate() {
	c.marlin = Factors{
		XY: MarlinFactor(c.m.XY.AC, c.m.XY.BD, c.m.XY.AD),
		XZ: MarlinFactor(c.m.XZ.AC, c.m.XZ.BD, c.m.XZ.AD),
		YZ: MarlinFactor(c.m.YZ.AC, c.m.YZ.BD, c.m.YZ.AD),
	}
	logger().Info("calculated Marlin factors: I=%.8f, J=%.8f, K=%.8f",
		c.marlin.XY, c.marlin.XZ, c.marlin.YZ)
}

// Factors returns the quarter-formula factor triple (Marlin I/J/K).
func (c *Calculator) Factors() Factors {
	return c.marlin
}

// GeometricFactors returns the geometric factor triple used by the
// coordinate compensator.
func (c *Calculator) GeometricFactors() Factors {
	return Factors{
		XY: GeometricFactor(c.m.XY.AC, c.m.XY.BD, c.m.XY.AD),
		XZ: GeometricFactor(c.m.XZ.AC, c.m.XZ.BD, c.m.XZ.AD),
		YZ: GeometricFactor(c.m.YZ.AC, c.m.YZ.BD, c.m.YZ.AD),
	}
}

// DisplayAngles returns the preview skew angle for each plane, in degrees.
func (c *Calculator) DisplayAngles() Factors {
	return Factors{
		XY: DisplayAngle(c.m.XY.AC, c.m.XY.BD, c.m.XY.AD),
		XZ: DisplayAngle(c.m.XZ.AC, c.m.XZ.BD, c.m.XZ.AD),
		YZ: DisplayAngle(c.m.YZ.AC, c.m.YZ.BD, c.m.YZ.AD),
	}
}
