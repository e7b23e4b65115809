// Package term provides ANSI color state and terminal detection.
//
// Colors are named by the role they play in output. [Configure] decides once
// during startup whether they are emitted; when disabled [Paint] returns its
// input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/rasterconv/internal/config"
)

// Color is an ANSI SGR sequence.
type Color string

// Colors by role.
const (
	Error   Color = "\033[1;91m"
	Success Color = "\033[1;92m"
	Warn    Color = "\033[1;93m"
	Info    Color = "\033[1;94m"
	Debug   Color = "\033[1;96m"
	Accent  Color = "\033[1;95m" // Banner.

	reset = "\033[0m"
)

var enabled bool

// Configure resolves the color mode. Call once during startup (from
// [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	enabled = resolve(mode)
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return enabled }

// Paint wraps s in c and a reset. With colors off, or an empty color, s is
// returned as is.
func Paint(c Color, s string) string {
	if !enabled || c == "" {
		return s
	}
	return string(c) + s + reset
}

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
