// Unified error handling for the skew compensation toolkit
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import "fmt"

// ErrorCode represents the category of error.
type ErrorCode string

const (
	// Measurement and geometry errors
	ErrMeasurement ErrorCode = "MEASUREMENT"
	ErrGeometry    ErrorCode = "GEOMETRY"

	// G-code document errors
	ErrGCodeParse     ErrorCode = "GCODE_PARSE"
	ErrGCodeProcessed ErrorCode = "GCODE_PROCESSED"

	// Settings store errors
	ErrSettingsLoad ErrorCode = "SETTINGS_LOAD"
	ErrSettingsSave ErrorCode = "SETTINGS_SAVE"

	// Moonraker API errors
	ErrMoonrakerConnect ErrorCode = "MOONRAKER_CONNECT"
	ErrMoonrakerRPC     ErrorCode = "MOONRAKER_RPC"
)

// Error is the unified error type for the toolkit.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Printer is the printer profile the error relates to, if any
	Printer string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Printer != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Printer, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// SetPrinter sets the printer profile context.
func (e *Error) SetPrinter(printer string) *Error {
	e.Printer = printer
	return e
}

// New creates a new Error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a category and message.
func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// MeasurementError creates an error for an invalid calibration measurement.
func MeasurementError(plane string, reason string) *Error {
	return Newf(ErrMeasurement, "invalid %s measurement: %s", plane, reason)
}

// GeometryError creates an error for inconsistent calibration geometry.
func GeometryError(reason string) *Error {
	return New(ErrGeometry, reason)
}

// GCodeParseError creates an error for a G-code document that cannot be read.
func GCodeParseError(path string, err error) *Error {
	return Wrap(err, ErrGCodeParse, fmt.Sprintf("unable to read G-code document %s", path))
}

// AlreadyProcessedError reports a document that has already been compensated.
func AlreadyProcessedError(path string) *Error {
	return Newf(ErrGCodeProcessed, "document %s has already been post-processed", path)
}

// SettingsLoadError creates an error for a settings file that cannot be read.
func SettingsLoadError(printer string, err error) *Error {
	return Wrap(err, ErrSettingsLoad, "unable to read printer settings").SetPrinter(printer)
}

// SettingsSaveError creates an error for a settings file that cannot be written.
func SettingsSaveError(printer string, err error) *Error {
	return Wrap(err, ErrSettingsSave, "unable to write printer settings").SetPrinter(printer)
}

// MoonrakerConnectError creates an error for a failed WebSocket connection.
func MoonrakerConnectError(url string, err error) *Error {
	return Wrap(err, ErrMoonrakerConnect, fmt.Sprintf("unable to connect to %s", url))
}

// MoonrakerRPCError creates an error for a failed JSON-RPC call.
func MoonrakerRPCError(method string, code int, message string) *Error {
	return Newf(ErrMoonrakerRPC, "%s failed: %s (code %d)", method, message, code)
}

// Is checks if an error matches the given error code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// IsSettings checks if an error is a settings store error.
func IsSettings(err error) bool {
	return Is(err, ErrSettingsLoad) || Is(err, ErrSettingsSave)
}

// IsMoonraker checks if an error is a Moonraker API error.
func IsMoonraker(err error) bool {
	return Is(err, ErrMoonrakerConnect) || Is(err, ErrMoonrakerRPC)
}
