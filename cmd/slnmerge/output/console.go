// cmd/slnmerge/output/console.go
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows errors, warnings and the merge summary (default)
	VerbosityNormal
	// VerbosityDetailed adds per-solution progress and missing sections
	VerbosityDetailed
	// VerbosityDiagnostic adds parse details and timing
	VerbosityDiagnostic
)

// ParseVerbosity maps a --verbosity value to a Verbosity
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "q", "quiet":
		return VerbosityQuiet, nil
	case "", "n", "normal":
		return VerbosityNormal, nil
	case "d", "detailed":
		return VerbosityDetailed, nil
	case "diag", "diagnostic":
		return VerbosityDiagnostic, nil
	default:
		return VerbosityNormal, fmt.Errorf("invalid verbosity %q (quiet, normal, detailed, diagnostic)", s)
	}
}

// Console writes results to out and diagnostics (warnings, errors) to err,
// so machine-readable output on out stays clean.
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex

	palette  map[style]*color.Color
	colorOut bool
	colorErr bool
}

// NewConsole creates a new console that colors terminal writers
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		palette:   newPalette(),
	}
	c.SetColorMode(ColorAuto)
	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out returns the result writer
func (c *Console) Out() io.Writer {
	return c.out
}

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColorMode decides for each writer whether its lines are colored.
func (c *Console) SetColorMode(mode ColorMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colorOut = colorize(c.out, mode)
	c.colorErr = colorize(c.err, mode)
}

// SetColors forces color on or off for both writers
func (c *Console) SetColors(enabled bool) {
	if enabled {
		c.SetColorMode(ColorAlways)
	} else {
		c.SetColorMode(ColorNever)
	}
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) write(toErr bool, s style, format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, colored := c.out, c.colorOut
	if toErr {
		w, colored = c.err, c.colorErr
	}
	line := s.prefix() + format + "\n"
	if col := c.palette[s]; colored && col != nil {
		_, _ = col.Fprintf(w, line, a...)
		return
	}
	_, _ = fmt.Fprintf(w, line, a...)
}

func (c *Console) enabled(min Verbosity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity >= min
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	if c.enabled(VerbosityNormal) {
		c.write(false, styleSuccess, format, a...)
	}
}

// Error writes error message (bold red) at every verbosity
func (c *Console) Error(format string, a ...any) {
	c.write(true, styleError, format, a...)
}

// Warning writes warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	if c.enabled(VerbosityNormal) {
		c.write(true, styleWarning, format, a...)
	}
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	if c.enabled(VerbosityNormal) {
		c.write(false, styleInfo, format, a...)
	}
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	if c.enabled(VerbosityDetailed) {
		c.write(false, stylePlain, format, a...)
	}
}

// Debug writes debug message (faint)
func (c *Console) Debug(format string, a ...any) {
	if c.enabled(VerbosityDiagnostic) {
		c.write(false, styleDebug, format, a...)
	}
}

// Warnings writes every non-empty line of a multi-line report as a warning.
func (c *Console) Warnings(report string) {
	for _, line := range Lines(report) {
		c.Warning("%s", line)
	}
}

// Errors writes every non-empty line of a multi-line report as an error.
func (c *Console) Errors(report string) {
	for _, line := range Lines(report) {
		c.Error("%s", line)
	}
}

// Lines splits a newline-separated report into its non-empty lines.
func Lines(report string) []string {
	var lines []string
	for _, line := range strings.Split(report, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
