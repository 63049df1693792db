// Package output provides console output formatting and colorization.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode selects when console lines are colorized.
type ColorMode int

const (
	// ColorAuto colorizes writers attached to a capable terminal
	ColorAuto ColorMode = iota
	// ColorAlways colorizes every writer
	ColorAlways
	// ColorNever writes plain text
	ColorNever
)

// ParseColorMode maps a --color value to a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (auto, always, never)", s)
	}
}

// style is the role of a console line.
type style int

const (
	stylePlain style = iota
	styleSuccess
	styleError
	styleWarning
	styleInfo
	styleDebug
)

// prefix labels diagnostics so they read the same without color.
func (s style) prefix() string {
	switch s {
	case styleError:
		return "Error: "
	case styleWarning:
		return "Warning: "
	case styleDebug:
		return "[DEBUG] "
	}
	return ""
}

// newPalette returns one color per styled role. Each color is enabled on its
// own so the console, not color.NoColor, decides per writer.
func newPalette() map[style]*color.Color {
	p := map[style]*color.Color{
		styleSuccess: color.New(color.FgGreen),
		styleError:   color.New(color.FgRed, color.Bold),
		styleWarning: color.New(color.FgYellow),
		styleInfo:    color.New(color.FgCyan),
		styleDebug:   color.New(color.Faint),
	}
	for _, c := range p {
		c.EnableColor()
	}
	return p
}

// colorize reports whether lines written to w are colored under mode.
// In auto mode NO_COLOR and a dumb or unset TERM turn color off.
func colorize(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
