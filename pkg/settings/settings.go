// Per-printer skew compensation settings
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package settings

import "skewcomp/pkg/skew"

// Compensation methods. Marlin and Klipper inject a firmware command
// into the start G-code; the post-processing transform is driven
// separately and uses the stored measurements regardless of method.
const (
	MethodNone    = "none"
	MethodMarlin  = "marlin"
	MethodKlipper = "klipper"
)

// Settings is the full per-printer configuration of the toolkit.
type Settings struct {
	// Enabled gates every compensation path for this printer.
	Enabled bool

	// Method selects the firmware command to keep in the start G-code.
	Method string

	// MarlinAdd / KlipperAdd control whether the respective command is
	// actually inserted when its method is selected.
	MarlinAdd  bool
	KlipperAdd bool

	// Measurements is the nine-value calibration measurement set.
	Measurements skew.Measurements
}

// Defaults returns the settings used when no per-printer file exists:
// compensation disabled, ideal calibration measurements.
func Defaults() Settings {
	return Settings{
		Enabled:      false,
		Method:       MethodNone,
		MarlinAdd:    false,
		KlipperAdd:   false,
		Measurements: skew.DefaultMeasurements(),
	}
}

// PrinterHost abstracts the host application that knows which printer
// profile is active. The store itself never reaches into host state.
type PrinterHost interface {
	ActivePrinterName() string
}
