// Coordinate compensator
//
// Shears every G0/G1 X/Y coordinate in a G-code document by the
// geometric skew factors, counteracting the measured mechanical skew.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"skewcomp/pkg/log"
	"skewcomp/pkg/skew"
)

// trackOnlyChunks is the number of leading chunks (slicer header and
// startup section) whose coordinates are tracked but never rewritten.
const trackOnlyChunks = 2

// Compensator applies geometric skew factors to a G-code document.
// Position state is local to a single Apply pass.
type Compensator struct {
	factors skew.Factors
	logger  *log.Logger
}

// NewCompensator creates a compensator for the given geometric factors.
func NewCompensator(factors skew.Factors) *Compensator {
	return &Compensator{
		factors: factors,
		logger:  log.GetLogger("compensator"),
	}
}

// Apply rewrites X/Y coordinates of every motion line in place and
// returns the document. Z accumulates across the whole document, so
// chunks must be processed strictly in order. The first two chunks are
// tracked but left untouched.
func (c *Compensator) Apply(doc Document) Document {
	if c.factors.IsZero() {
		c.logger.Warn("all skew factors are zero, transform is a no-op")
	}

	// Z persists across lines and layer boundaries.
	z := 0.0

	for chunkIndex, chunk := range doc {
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			if !strings.HasPrefix(line, "G0") && !strings.HasPrefix(line, "G1") {
				continue
			}

			xVal, xLit, hasX := axisValue(line, 'X')
			yVal, yLit, hasY := axisValue(line, 'Y')
			zVal, _, hasZ := axisValue(line, 'Z')

			// X/Y reset every line; only a present token contributes.
			xIn, yIn := 0.0, 0.0
			if hasX {
				xIn = xVal
			}
			if hasY {
				yIn = yVal
			}
			if hasZ {
				z = zVal
			}

			xOut := round3(xIn - yIn*c.factors.XY)
			xOut = round3(xOut - z*c.factors.XZ)
			yOut := round3(yIn - z*c.factors.YZ)

			// Header and startup chunks: track position only.
			if chunkIndex < trackOnlyChunks {
				continue
			}

			if hasX {
				lines[i] = strings.Replace(lines[i], xLit, "X"+format3(xOut), 1)
			}
			if hasY {
				lines[i] = strings.Replace(lines[i], yLit, "Y"+format3(yOut), 1)
			}
		}
		doc[chunkIndex] = strings.Join(lines, "\n")
	}
	return doc
}

// numberPattern matches a G-code parameter value right after its axis
// letter: optional sign, digits, optional fraction.
var numberPattern = regexp.MustCompile(`^-?[0-9]+\.?[0-9]*`)

// axisValue extracts the numeric value of an axis parameter from a
// motion line. It returns the parsed value, the literal token as it
// appears in the line (for textual replacement), and whether the axis
// was present. Anything after a ';' comment is ignored.
func axisValue(line string, axis byte) (float64, string, bool) {
	code := line
	if idx := strings.IndexByte(code, ';'); idx >= 0 {
		code = code[:idx]
	}
	idx := strings.IndexByte(code, axis)
	if idx < 0 {
		return 0, "", false
	}
	num := numberPattern.FindString(code[idx+1:])
	if num == "" {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", false
	}
	return v, string(axis) + num, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func format3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// AppendSummary appends a comment trailer recording the measurements
// and factors the document was compensated with.
func AppendSummary(doc Document, m skew.Measurements, f skew.Factors) Document {
	var sb strings.Builder
	sb.WriteString(";  Print Skew Compensation Settings:\n")
	writePlane := func(name string, p skew.PlaneMeasurements, factor float64) {
		sb.WriteString(";    " + name + "_ac_measurement: " + formatMeasure(p.AC) + "\n")
		sb.WriteString(";    " + name + "_bd_measurement: " + formatMeasure(p.BD) + "\n")
		sb.WriteString(";    " + name + "_ad_measurement: " + formatMeasure(p.AD) + "\n")
		sb.WriteString(";        " + strings.ToUpper(name) + " skew factor:    " + formatFactor(factor) + "\n")
	}
	writePlane("xy", m.XY, f.XY)
	writePlane("xz", m.XZ, f.XZ)
	writePlane("yz", m.YZ, f.YZ)
	return append(doc, sb.String())
}

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFactor(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e8)/1e8, 'f', -1, 64)
}
