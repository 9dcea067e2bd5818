// Calibration measurement types for skew compensation
//
// A calibration print is measured on three orthogonal planes. On each
// plane AC and BD are the two diagonals of the measured face and AD is
// the reference side length, all in millimeters.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package skew

import "math"

// Tag identifies commands inserted by this toolkit. Firmware command
// lines carry it as a trailing comment so they can be recognized and
// replaced on a later sync.
const Tag = "PrintSkewCompensation"

// Ideal calibration object dimensions (a 100 mm square has 141.42 mm
// diagonals). Used as defaults until real measurements are entered.
const (
	DefaultDiagonal = 141.42
	DefaultSide     = 100.0
)

// PlaneMeasurements holds the three measured lengths of one plane.
type PlaneMeasurements struct {
	AC float64 // diagonal A-C
	BD float64 // diagonal B-D
	AD float64 // reference side A-D
}

// finite reports whether all three lengths are finite numbers.
func (p PlaneMeasurements) finite() bool {
	for _, v := range []float64{p.AC, p.BD, p.AD} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Measurements is the full nine-value calibration measurement set.
// All nine values are always replaced together.
type Measurements struct {
	XY PlaneMeasurements
	XZ PlaneMeasurements
	YZ PlaneMeasurements
}

// DefaultMeasurements returns the ideal (zero skew) measurement set.
func DefaultMeasurements() Measurements {
	ideal := PlaneMeasurements{AC: DefaultDiagonal, BD: DefaultDiagonal, AD: DefaultSide}
	return Measurements{XY: ideal, XZ: ideal, YZ: ideal}
}

// Finite reports whether all nine measurements are finite numbers.
func (m Measurements) Finite() bool {
	return m.XY.finite() && m.XZ.finite() && m.YZ.finite()
}

// Factors is a per-plane skew factor triple.
type Factors struct {
	XY float64
	XZ float64
	YZ float64
}

// IsZero reports whether no usable calibration data produced a factor.
// Callers use this to skip the coordinate transform entirely.
func (f Factors) IsZero() bool {
	return f.XY == 0 && f.XZ == 0 && f.YZ == 0
}
