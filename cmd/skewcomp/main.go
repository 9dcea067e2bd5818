// skewcomp compensates mechanical axis skew in 3D printers.
//
// It computes per-plane skew factors from calibration print
// measurements, generates Marlin (M852) and Klipper (SET_SKEW)
// commands, applies a direct coordinate transform to sliced G-code,
// and can push the Klipper command to a live printer over Moonraker.
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package main

import "skewcomp/cmd/skewcomp/cmd"

func main() {
	cmd.Execute()
}
