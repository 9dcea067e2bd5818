// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"strings"
	"testing"

	"skewcomp/pkg/skew"
)

// doc builds a document from per-chunk line groups.
func doc(chunks ...[]string) Document {
	d := make(Document, 0, len(chunks))
	for _, lines := range chunks {
		d = append(d, strings.Join(lines, "\n"))
	}
	return d
}

func TestZeroFactorsRoundTrip(t *testing.T) {
	d := doc(
		[]string{";FLAVOR:Marlin", ";LAYER_COUNT:2"},
		[]string{"G28", "G1 X5 Y5 F3000"},
		[]string{";LAYER:0", "G1 X10.5 Y20.25 E1.2", "G0 X-3.125 Y0.5"},
		[]string{";LAYER:1", "G1 X7 Y8"},
	)

	out := NewCompensator(skew.Factors{}).Apply(d)

	wantLayer0 := ";LAYER:0\nG1 X10.500 Y20.250 E1.2\nG0 X-3.125 Y0.500"
	if out[2] != wantLayer0 {
		t.Errorf("layer 0 mismatch:\nwant %q\ngot  %q", wantLayer0, out[2])
	}
	wantLayer1 := ";LAYER:1\nG1 X7.000 Y8.000"
	if out[3] != wantLayer1 {
		t.Errorf("layer 1 mismatch:\nwant %q\ngot  %q", wantLayer1, out[3])
	}
}

func TestFirstTwoChunksNeverRewritten(t *testing.T) {
	header := []string{";FLAVOR:Marlin"}
	startup := []string{"G28", "G1 X150 Y150 F6000"}
	d := doc(header, startup)

	out := NewCompensator(skew.Factors{XY: 0.1, XZ: 0.1, YZ: 0.1}).Apply(d)

	if out[0] != ";FLAVOR:Marlin" {
		t.Errorf("header chunk was modified: %q", out[0])
	}
	if out[1] != "G28\nG1 X150 Y150 F6000" {
		t.Errorf("startup chunk was modified: %q", out[1])
	}
}

func TestZAccumulatesAcrossLines(t *testing.T) {
	d := doc(
		[]string{";header"},
		[]string{";startup"},
		[]string{
			"G1 Z10",
			"G1 X100 Y50",
			"G1 X10",
		},
	)

	out := NewCompensator(skew.Factors{XZ: 0.1, YZ: 0.2}).Apply(d)

	lines := strings.Split(out[2], "\n")
	// z=10 persists: x = 100 - 10*0.1 = 99, y = 50 - 10*0.2 = 48
	if lines[1] != "G1 X99.000 Y48.000" {
		t.Errorf("expected z=10 applied to second line, got %q", lines[1])
	}
	// Y resets per line: x = 10 - 10*0.1 = 9
	if lines[2] != "G1 X9.000" {
		t.Errorf("expected z to persist without a new Z token, got %q", lines[2])
	}
	// Z itself is never rewritten.
	if lines[0] != "G1 Z10" {
		t.Errorf("Z-only line must stay untouched, got %q", lines[0])
	}
}

func TestZAcrossLayerBoundaries(t *testing.T) {
	d := doc(
		[]string{";header"},
		[]string{"G1 Z5"}, // tracked only, but Z carries forward
		[]string{";LAYER:0", "G1 X10 Y10"},
	)

	out := NewCompensator(skew.Factors{YZ: 0.2}).Apply(d)

	// y = 10 - 5*0.2 = 9
	want := ";LAYER:0\nG1 X10.000 Y9.000"
	if out[2] != want {
		t.Errorf("expected %q, got %q", want, out[2])
	}
}

func TestSequentialXShears(t *testing.T) {
	d := doc(
		[]string{";header"},
		[]string{";startup"},
		[]string{"G1 Z2", "G1 X10 Y5"},
	)

	out := NewCompensator(skew.Factors{XY: 0.01, XZ: 0.1}).Apply(d)

	// x' = round3(10 - 5*0.01) = 9.95, x'' = round3(9.95 - 2*0.1) = 9.75
	want := "G1 Z2\nG1 X9.750 Y5.000"
	if out[2] != want {
		t.Errorf("expected %q, got %q", want, out[2])
	}
}

func TestNonMotionLinesUntouched(t *testing.T) {
	layer := []string{
		"M104 S210",
		";TYPE:WALL-OUTER",
		"G92 E0",
		"G1 X10 Y10",
	}
	d := doc([]string{";h"}, []string{";s"}, layer)

	out := NewCompensator(skew.Factors{XY: 0.1}).Apply(d)

	lines := strings.Split(out[2], "\n")
	for i, want := range []string{"M104 S210", ";TYPE:WALL-OUTER", "G92 E0"} {
		if lines[i] != want {
			t.Errorf("line %d changed: want %q, got %q", i, want, lines[i])
		}
	}
	// x = 10 - 10*0.1 = 9
	if lines[3] != "G1 X9.000 Y10.000" {
		t.Errorf("motion line not compensated: %q", lines[3])
	}
}

func TestAxisValue(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		axis    byte
		want    float64
		literal string
		ok      bool
	}{
		{"integer", "G1 X12 Y20", 'X', 12, "X12", true},
		{"negative fraction", "G1 X12 Y-3.5", 'Y', -3.5, "Y-3.5", true},
		{"trailing dot", "G1 Z5.", 'Z', 5, "Z5.", true},
		{"missing axis", "G1 X12", 'Y', 0, "", false},
		{"axis in comment", "G1 X12 ; Y99 test", 'Y', 0, "", false},
		{"no value", "G1 X Y2", 'X', 0, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, lit, ok := axisValue(tc.line, tc.axis)
			if ok != tc.ok || v != tc.want || lit != tc.literal {
				t.Errorf("axisValue(%q, %q) = (%v, %q, %v), want (%v, %q, %v)",
					tc.line, string(tc.axis), v, lit, ok, tc.want, tc.literal, tc.ok)
			}
		})
	}
}

func TestAppendSummary(t *testing.T) {
	m := skew.DefaultMeasurements()
	m.XY = skew.PlaneMeasurements{AC: 150, BD: 130, AD: 100}
	f := skew.Factors{XY: 0.123456789123}

	d := AppendSummary(doc([]string{";h"}), m, f)
	if len(d) != 2 {
		t.Fatalf("expected summary chunk appended, got %d chunks", len(d))
	}
	trailer := d[1]
	for _, want := range []string{
		";  Print Skew Compensation Settings:",
		";    xy_ac_measurement: 150",
		";    xy_bd_measurement: 130",
		";    xy_ad_measurement: 100",
		";        XY skew factor:    0.12345679",
		";    yz_ad_measurement: 100",
	} {
		if !strings.Contains(trailer, want) {
			t.Errorf("summary missing %q:\n%s", want, trailer)
		}
	}
}
