// Package monitoring provides the shared diagnostic logger for the ring-map
// pipeline. Everything logs through Logf so binaries and tests can redirect
// or mute output in one place.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// verbose gates Debugf output. Off by default; the CLI enables it with -verbose.
var verbose bool

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose enables or disables Debugf output.
func SetVerbose(v bool) {
	verbose = v
}

// Debugf logs through Logf only when verbose mode is enabled.
func Debugf(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
