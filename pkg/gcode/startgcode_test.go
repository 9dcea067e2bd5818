// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"strings"
	"testing"
)

const (
	marlinCmd  = "M852 I0.14000000 J0.00000000 K0.00000000 ; PrintSkewCompensation"
	klipperCmd = "SET_SKEW XY=150.000,130.000,100.000 XZ=141.420,141.420,100.000 YZ=141.420,141.420,100.000 ; PrintSkewCompensation"
)

func TestSyncAddsCommand(t *testing.T) {
	start := "G28\nG29\nM109 S210"

	out, changed := SyncStartGCode(start, marlinCmd)
	if !changed {
		t.Fatal("expected change when adding command")
	}
	want := start + "\n" + marlinCmd
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	start := "G28\n" + marlinCmd + "\nM109 S210"

	out, changed := SyncStartGCode(start, marlinCmd)
	if changed {
		t.Error("expected no change when command already present")
	}
	if out != start {
		t.Errorf("text must be untouched, got %q", out)
	}
}

func TestSyncReplacesStaleCommand(t *testing.T) {
	stale := "M852 I0.01000000 J0.00000000 K0.00000000 ; PrintSkewCompensation"
	start := "G28\n" + stale + "\nM109 S210"

	out, changed := SyncStartGCode(start, klipperCmd)
	if !changed {
		t.Fatal("expected change when replacing stale command")
	}
	if strings.Contains(out, stale) {
		t.Error("stale plugin command must be removed")
	}
	if strings.Count(out, klipperCmd) != 1 {
		t.Errorf("expected exactly one instance of the new command:\n%s", out)
	}
}

func TestSyncRemovesWithEmptyCommand(t *testing.T) {
	start := "G28\n" + marlinCmd + "\n" + klipperCmd + "\nM109 S210"

	out, changed := SyncStartGCode(start, "")
	if !changed {
		t.Fatal("expected change when removing plugin commands")
	}
	if out != "G28\nM109 S210" {
		t.Errorf("expected plugin lines removed, got %q", out)
	}

	// Removing from clean G-code changes nothing.
	out2, changed2 := SyncStartGCode(out, "")
	if changed2 || out2 != out {
		t.Error("remove-only sync on clean text must be a no-op")
	}
}

func TestSyncKeepsUserSkewCommands(t *testing.T) {
	// A user-written M852 without the plugin comment is never touched.
	user := "M852 I0.5 ; my own tweak"
	start := "G28\n" + user

	out, changed := SyncStartGCode(start, "")
	if changed {
		t.Error("user skew command must not trigger a change")
	}
	if !strings.Contains(out, user) {
		t.Error("user skew command must be preserved")
	}
}

func TestSyncMatchesIndentedCommand(t *testing.T) {
	// Leading whitespace does not defeat recognition: the stripped
	// line equals the command, so it is not added again.
	start := "G28\n  " + marlinCmd
	out, changed := SyncStartGCode(start, marlinCmd)
	if changed {
		t.Errorf("expected no change, got %q", out)
	}
	if strings.Count(out, "M852") != 1 {
		t.Errorf("command duplicated:\n%s", out)
	}
}
