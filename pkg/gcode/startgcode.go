// Start G-code synchronization
//
// Keeps exactly one plugin-tagged skew command in a start G-code block.
// Previously inserted commands are recognized by their prefix (M852 or
// SET_SKEW) combined with the trailing plugin comment, so the sync is
// idempotent and never touches user-written skew commands.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"strings"

	"skewcomp/pkg/log"
	"skewcomp/pkg/skew"
)

// SyncStartGCode returns the start G-code with exactly one instance of
// the given command, removing any stale plugin-tagged skew lines. An
// empty command removes plugin lines without adding anything. The
// second return value reports whether the text changed.
func SyncStartGCode(current, command string) (string, bool) {
	logger := log.GetLogger("startgcode")
	tagComment := "; " + skew.Tag

	var kept []string
	changed := false
	foundCorrect := false

	for _, line := range strings.Split(current, "\n") {
		stripped := strings.TrimSpace(line)
		isMarlin := strings.HasPrefix(stripped, skew.MarlinPrefix) && strings.Contains(stripped, tagComment)
		isKlipper := strings.HasPrefix(stripped, skew.KlipperPrefix) && strings.Contains(stripped, tagComment)

		if !isMarlin && !isKlipper {
			kept = append(kept, line)
			continue
		}
		if command != "" && stripped == command {
			kept = append(kept, line)
			foundCorrect = true
			continue
		}
		// Stale or unwanted plugin line.
		changed = true
	}

	if command != "" && !foundCorrect {
		// Guard against a matching line that lost its tag comment.
		exact := false
		for _, line := range kept {
			if strings.TrimSpace(line) == command {
				exact = true
				break
			}
		}
		if exact {
			logger.Warn("skew command already present without plugin comment, not adding duplicate")
		} else {
			kept = append(kept, command)
			changed = true
		}
	}

	if !changed {
		return current, false
	}
	result := strings.Join(kept, "\n")
	if result == current {
		return current, false
	}
	logger.Info("synchronized start G-code skew command")
	return result, true
}
