// Settings file store
//
// One INI-style file per printer under the configuration directory.
// The file name is the sanitized printer name joined with the first 8
// hex digits of its SHA-256, so distinct printers whose names sanitize
// to the same string never collide.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package settings

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"skewcomp/pkg/errors"
	"skewcomp/pkg/log"
	"skewcomp/pkg/skew"
)

// Store reads and writes per-printer settings files.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates a store rooted at the given configuration directory.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: log.GetLogger("settings"),
	}
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	underscores = regexp.MustCompile(`_+`)
)

// fileName builds the settings file name for a printer.
func fileName(printer string) string {
	safe := unsafeChars.ReplaceAllString(printer, "_")
	safe = strings.Trim(underscores.ReplaceAllString(safe, "_"), "_")
	sum := sha256.Sum256([]byte(printer))
	return fmt.Sprintf("%s_%s.cfg", safe, hex.EncodeToString(sum[:])[:8])
}

// FilePath returns the settings file path for a printer, or "" if the
// printer name is empty.
func (s *Store) FilePath(printer string) string {
	if printer == "" {
		return ""
	}
	return filepath.Join(s.dir, fileName(printer))
}

// Load reads the settings for a printer. A missing file, missing
// section or malformed value degrades to the defaults with a warning;
// Load never fails in a way the caller has to handle.
func (s *Store) Load(printer string) Settings {
	defaults := Defaults()

	path := s.FilePath(printer)
	if path == "" {
		s.logger.Warn("printer name is empty, cannot determine settings path, using defaults")
		return defaults
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("printer settings file does not exist: %s, using defaults", path)
		} else {
			s.logger.WithError(err).Warn("unable to open printer settings, using defaults")
		}
		return defaults
	}
	defer f.Close()

	opts, err := parseSettingsSection(f)
	if err != nil {
		s.logger.WithError(err).Warn("unable to parse %s, using defaults", path)
		return defaults
	}
	if opts == nil {
		s.logger.Warn("no [settings] section found in %s, using defaults", path)
		return defaults
	}

	set := Settings{
		Enabled:    opts.getBool("compensation_enabled", defaults.Enabled),
		Method:     opts.getString("compensation_method", defaults.Method),
		MarlinAdd:  opts.getBool("marlin_add_to_gcode", defaults.MarlinAdd),
		KlipperAdd: opts.getBool("klipper_add_to_gcode", defaults.KlipperAdd),
		Measurements: skew.Measurements{
			XY: opts.getPlane("xy", defaults.Measurements.XY),
			XZ: opts.getPlane("xz", defaults.Measurements.XZ),
			YZ: opts.getPlane("yz", defaults.Measurements.YZ),
		},
	}
	return set
}

// LoadActive loads settings for the host's active printer.
func (s *Store) LoadActive(h PrinterHost) (string, Settings) {
	printer := h.ActivePrinterName()
	return printer, s.Load(printer)
}

// Save writes the settings for a printer, creating the configuration
// directory if needed.
func (s *Store) Save(printer string, set Settings) error {
	path := s.FilePath(printer)
	if path == "" {
		return errors.SettingsSaveError(printer, fmt.Errorf("printer name is empty"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.SettingsSaveError(printer, err)
	}

	var sb strings.Builder
	sb.WriteString("[settings]\n")
	writeBool := func(key string, v bool) {
		fmt.Fprintf(&sb, "%s = %t\n", key, v)
	}
	writeFloat := func(key string, v float64) {
		fmt.Fprintf(&sb, "%s = %s\n", key, strconv.FormatFloat(v, 'f', -1, 64))
	}
	writePlane := func(name string, p skew.PlaneMeasurements) {
		writeFloat(name+"_ac_measurement", p.AC)
		writeFloat(name+"_bd_measurement", p.BD)
		writeFloat(name+"_ad_measurement", p.AD)
	}

	writeBool("compensation_enabled", set.Enabled)
	fmt.Fprintf(&sb, "compensation_method = %s\n", set.Method)
	writeBool("marlin_add_to_gcode", set.MarlinAdd)
	writeBool("klipper_add_to_gcode", set.KlipperAdd)
	writePlane("xy", set.Measurements.XY)
	writePlane("xz", set.Measurements.XZ)
	writePlane("yz", set.Measurements.YZ)

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return errors.SettingsSaveError(printer, err)
	}
	s.logger.Info("saved settings for printer '%s' to %s", printer, path)
	return nil
}

// options is one parsed config section with typed access.
type options map[string]string

// parseSettingsSection scans an INI-style file for the [settings]
// section. Both "key: value" and "key = value" forms are accepted;
// '#' and ';' start comments.
func parseSettingsSection(f *os.File) (options, error) {
	var opts options
	inSettings := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := strings.TrimSpace(line[1 : len(line)-1])
			inSettings = strings.EqualFold(section, "settings")
			if inSettings && opts == nil {
				opts = make(options)
			}
			continue
		}
		if !inSettings {
			continue
		}

		sep := strings.IndexAny(line, ":=")
		if sep < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:sep]))
		value := strings.TrimSpace(line[sep+1:])
		if key != "" {
			opts[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o options) getString(key, fallback string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (o options) getBool(key string, fallback bool) bool {
	v, ok := o[key]
	if !ok {
		return fallback
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		log.GetLogger("settings").Warn("invalid boolean value for '%s': '%s', using default", key, v)
		return fallback
	}
}

func (o options) getFloat(key string, fallback float64) float64 {
	v, ok := o[key]
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.GetLogger("settings").Warn("invalid float value for '%s': '%s', using default", key, v)
		return fallback
	}
	return f
}

func (o options) getPlane(name string, fallback skew.PlaneMeasurements) skew.PlaneMeasurements {
	return skew.PlaneMeasurements{
		AC: o.getFloat(name+"_ac_measurement", fallback.AC),
		BD: o.getFloat(name+"_bd_measurement", fallback.BD),
		AD: o.getFloat(name+"_ad_measurement", fallback.AD),
	}
}
