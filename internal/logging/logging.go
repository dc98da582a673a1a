// Package logging configures the console logger used by the command-line
// surfaces. Diagnostics go to stderr so stdout stays clean for piped
// command output.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a console logger writing to stderr. Debug drops the level
// threshold to DEBUG.
func New(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}
